package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/watcher"
)

func newWatchCmd(c *cli) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Rebuild the site whenever the source changes",
		Long: `Watch builds the site, then rebuilds it after every batch of changes under
the source directory. A failing build is reported and watching continues.

Examples:
  md2site watch
  md2site watch --delay 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.watch(cmd.Context(), delay)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", watcher.DefaultDelay, "quiet period before rebuilding")
	return cmd
}

// rebuild runs one build with a freshly loaded config.
func (c *cli) rebuild(ctx context.Context) error {
	b, err := c.builder()
	if err != nil {
		return err
	}
	_, err = b.Build(ctx)
	return err
}

// watch builds once, then rebuilds until ctx is done. Build errors are
// logged, not returned.
func (c *cli) watch(ctx context.Context, delay time.Duration) error {
	b, err := c.builder()
	if err != nil {
		return err
	}
	if _, err := b.Build(ctx); err != nil {
		c.log.Error("build failed", zap.Error(err))
	}
	return c.watchSource(ctx, b.Config().Build, delay)
}

// watchSource rebuilds after every batch of changes under the source tree.
// The destination and staging trees are ignored so builds do not retrigger
// themselves.
func (c *cli) watchSource(ctx context.Context, build config.BuildConfig, delay time.Duration) error {
	w, err := watcher.New(build.Source,
		watcher.WithDelay(delay),
		watcher.WithLogger(c.log),
		watcher.WithIgnore(watcher.Under(build.Destination)),
		watcher.WithIgnore(watcher.Under(build.StagingPath())))
	if err != nil {
		return err
	}

	c.log.Info("watching for changes", zap.String("source", build.Source))
	return w.Run(ctx, func(ctx context.Context, paths []string) error {
		c.log.Info("rebuilding", zap.Int("changed", len(paths)))
		c.log.Debug("changed paths", zap.Strings("paths", paths))
		if err := c.rebuild(ctx); err != nil {
			c.log.Error("build failed", zap.Error(err))
		}
		return nil
	})
}
