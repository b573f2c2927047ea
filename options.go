package md2site

import "go.uber.org/zap"

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithSource overrides build.source.
func WithSource(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.cfg.Build.Source = dir
		}
	}
}

// WithDestination overrides build.destination.
func WithDestination(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.cfg.Build.Destination = dir
		}
	}
}

// WithWorkers overrides build.workers. Zero keeps the config value.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n != 0 {
			b.cfg.Build.Workers = n
		}
	}
}

// WithStaging selects file-backed loading of derived collections.
func WithStaging(enabled bool) Option {
	return func(b *Builder) {
		b.cfg.Build.Staging = enabled
	}
}

// WithKeepStaging keeps the staging tree after a successful build.
func WithKeepStaging(keep bool) Option {
	return func(b *Builder) {
		b.cfg.Build.KeepStaging = keep
	}
}

// WithLayoutDir reads layouts from dir instead of source/_layouts.
// Built-in layouts remain available as a fallback.
func WithLayoutDir(dir string) Option {
	return func(b *Builder) {
		b.layoutDir = dir
	}
}
