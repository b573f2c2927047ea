package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/logging"
)

// defaultConfigName is looked up when --config is not given. A missing
// default config is not an error.
const defaultConfigName = "site"

// cli carries the state shared by every command of one invocation.
type cli struct {
	env *Environment
	v   *viper.Viper
	log *zap.Logger

	// ran is set once flags and arguments were accepted; errors before that
	// are usage errors.
	ran bool

	taxonomies []string
	stagingDir string
}

// newRootCmd builds the command tree. Flags are layered over MD2SITE_*
// environment variables, which are layered over the config file.
func newRootCmd(env *Environment) (*cobra.Command, *cli) {
	c := &cli{env: env, v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "md2site",
		Short: "Build a static site from markdown collections",
		Long: `md2site builds a static site from a source tree of markdown and HTML.

Collections live in source/_<name>/ and are configured in site.yaml.
Taxonomies derive one page per tag from a collection's front matter.

Environment variables override the config file, flags override both:
  MD2SITE_CONFIG, MD2SITE_SOURCE, MD2SITE_DESTINATION, MD2SITE_WORKERS,
  MD2SITE_STAGING, MD2SITE_KEEP_STAGING, MD2SITE_LAYOUTS, MD2SITE_ADDR`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file name or path (default: site)")
	flags.StringP("source", "s", "", "source directory (overrides build.source)")
	flags.StringP("destination", "d", "", "output directory (overrides build.destination)")
	flags.IntP("workers", "w", 0, "parallel render workers (0 = auto)")
	flags.Bool("staging", false, "derive collections through the staging directory")
	flags.Bool("keep-staging", false, "keep the staging directory after the build")
	flags.String("layouts", "", "layout directory (default: <source>/_layouts)")
	flags.BoolP("verbose", "v", false, "show debug output")
	flags.BoolP("quiet", "q", false, "only show errors")

	bindFlags(c.v, flags)
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		newBuildCmd(c),
		newTagsCmd(c),
		newWatchCmd(c),
		newServeCmd(c),
		newVersionCmd(c),
	)
	return root, c
}

// setup runs after flag parsing, before any command.
func (c *cli) setup(*cobra.Command, []string) error {
	c.ran = true
	verbose, quiet := c.v.GetBool("verbose"), c.v.GetBool("quiet")

	if c.env.Stderr == os.Stderr {
		log, err := logging.New(verbose, quiet)
		if err != nil {
			return err
		}
		c.log = log
	} else {
		c.log = logging.NewWriter(c.env.Stderr, verbose, quiet)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	sugar := c.log.Sugar()
	_, _ = maxprocs.Set(maxprocs.Logger(sugar.Debugf))

	if !quiet {
		warnUnknownEnvVars(c.env.Stderr, c.env.Environ())
	}
	return nil
}

// loadConfig reads the config named by --config or MD2SITE_CONFIG, or the
// default config when present.
func (c *cli) loadConfig() (*md2site.Config, error) {
	if name := c.v.GetString("config"); name != "" {
		return md2site.LoadConfig(name)
	}
	cfg, err := md2site.LoadConfig(defaultConfigName)
	if errors.Is(err, md2site.ErrConfigNotFound) {
		c.log.Debug("no site config found, using defaults")
		return md2site.DefaultConfig(), nil
	}
	return cfg, err
}

// builder loads the config and applies the environment and flag overrides.
func (c *cli) builder() (*md2site.Builder, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	opts := []md2site.Option{
		md2site.WithLogger(c.log),
		md2site.WithSource(c.v.GetString("source")),
		md2site.WithDestination(c.v.GetString("destination")),
		md2site.WithLayoutDir(c.v.GetString("layouts")),
		md2site.WithWorkers(resolveWorkers(c.v.GetInt("workers"), cfg.Build.Workers)),
	}
	if c.v.IsSet("staging") {
		opts = append(opts, md2site.WithStaging(c.v.GetBool("staging")))
	}
	if c.v.IsSet("keep-staging") {
		opts = append(opts, md2site.WithKeepStaging(c.v.GetBool("keep-staging")))
	}

	b, err := md2site.NewBuilder(cfg, opts...)
	if err != nil {
		return nil, err
	}
	c.taxonomies = b.TaxonomyNames()
	c.stagingDir = b.Config().Build.StagingPath()
	c.log.Debug("builder ready",
		zap.String("source", b.Config().Build.Source),
		zap.String("destination", b.Config().Build.Destination),
		zap.Int("workers", b.Config().Build.Workers),
		zap.Bool("staging", b.Config().Build.Staging))
	return b, nil
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(c.env.Stdout, "md2site %s\n", Version)
		},
	}
}
