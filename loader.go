package surveygen

import (
	internalLoader "github.com/goliatone/go-surveygen/internal/loader"
	"github.com/goliatone/go-surveygen/pkg/element"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...element.LoaderOption) element.Loader {
	cfg := element.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
