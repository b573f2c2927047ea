// Package site holds the per-build state: the collection registry and the
// site data graph, bundled in a Build that is passed through the pipeline.
package site

import (
	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/config"
)

// Build is the context of one site build. It owns its registry and data;
// nothing is shared between builds.
type Build struct {
	Config   *config.Config
	Registry *Registry
	Data     *Data
	Logger   *zap.Logger
}

// NewBuild creates a build for cfg. A nil logger is replaced by a no-op one.
func NewBuild(cfg *config.Config, logger *zap.Logger) *Build {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Build{
		Config:   cfg,
		Registry: NewRegistry(),
		Data:     NewData(),
		Logger:   logger,
	}
}
