// Package template defines the template engine seam used by the HTML
// renderer. Adapters live in subpackages so renderers depend on the
// interface only.
package template
