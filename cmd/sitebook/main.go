package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	sitebook "github.com/alnah/go-sitebook"
	"github.com/alnah/go-sitebook/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.version {
		fmt.Println("sitebook " + Version)
		return
	}

	log := newLogger(flags.verbose)

	// On failure the runtime default GOMAXPROCS stays in effect.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	if err := run(flags, log); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// newLogger builds a console logger at Info level, or Debug with --verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// run loads configuration, executes the crawl, and prints the summary.
// Only configuration and sitemap-resolution failures return an error;
// per-page and merge failures are reported in the summary.
func run(flags cliFlags, log zerolog.Logger) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	timeout, err := cfg.RenderTimeout()
	if err != nil {
		return err
	}
	settle, err := cfg.SettleWindow()
	if err != nil {
		return err
	}

	svc := sitebook.NewService(
		sitebook.WithLogger(log),
		sitebook.WithTimeout(timeout),
		sitebook.WithSettleWindow(settle),
		sitebook.WithViewport(sitebook.Viewport{
			Width:  cfg.Render.Viewport.Width,
			Height: cfg.Render.Viewport.Height,
			Scale:  cfg.Render.Viewport.Scale,
		}),
	)
	defer func() { _ = svc.Close() }()

	report, err := svc.Run(context.Background(), sitebook.RunConfig{
		SiteURL:   cfg.Site.URL,
		OutputDir: cfg.Output.Dir,
		Hide:      cfg.Render.Hide,
		Cover:     cfg.Cover.Enabled,
	})
	if err != nil {
		return err
	}

	rendered := len(report.Rendered())
	skipped := len(report.Skipped())
	log.Info().Int("rendered", rendered).Int("skipped", skipped).Msg("run complete")

	if report.MergeErr != nil {
		log.Error().Err(report.MergeErr).Msg("combined document not written")
	} else if report.CombinedPath != "" {
		fmt.Printf("Created %s (%d pages)\n", report.CombinedPath, report.CombinedPages)
	}
	return nil
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(flags cliFlags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.Load(flags.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}

	if flags.siteURL != "" {
		cfg.Site.URL = flags.siteURL
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.noCover {
		cfg.Cover.Enabled = false
	}
	return cfg, nil
}
