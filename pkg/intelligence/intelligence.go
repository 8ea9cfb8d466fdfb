package intelligence

import (
	core "github.com/goliatone/go-intelligence/components/intelligence"
)

// Service exposes the underlying components/intelligence.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Dataset re-export for hosts that load their own fixtures.
type Dataset = core.Dataset

// ViewerContext re-export.
type ViewerContext = core.ViewerContext

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// ReadDataset proxies to the internal dataset loader.
func ReadDataset(path string) (*Dataset, error) {
	return core.ReadDataset(path)
}
