package render

import (
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
)

// SelectGroups keeps the item groups named in names, preserving document
// order. Empty names keep every group; unknown names are ignored.
func SelectGroups(groups element.Groups, names []string) element.Groups {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			wanted[trimmed] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return groups
	}

	out := make(element.Groups, 0, len(wanted))
	for _, group := range groups {
		if _, ok := wanted[group.Name]; ok {
			out = append(out, group)
		}
	}
	return out
}
