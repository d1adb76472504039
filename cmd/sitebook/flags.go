package main

import (
	"fmt"

	"github.com/spf13/pflag"
)

// cliFlags holds parsed command-line options.
type cliFlags struct {
	configPath string
	siteURL    string
	outputDir  string
	noCover    bool
	verbose    bool
	version    bool
}

// parseFlags parses args (excluding the program name).
func parseFlags(args []string) (cliFlags, error) {
	var flags cliFlags

	fs := pflag.NewFlagSet("sitebook", pflag.ContinueOnError)
	fs.StringVarP(&flags.configPath, "config", "c", "", "path to sitebook.yaml (default: ./sitebook.yaml if present)")
	fs.StringVarP(&flags.siteURL, "site", "s", "", "documentation site base URL (overrides config)")
	fs.StringVarP(&flags.outputDir, "out", "o", "", "output directory (overrides config)")
	fs.BoolVar(&flags.noCover, "no-cover", false, "skip the generated cover page")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: sitebook [flags]\n\nCrawl a documentation site's sitemap into one combined PDF.\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return flags, err
	}
	return flags, nil
}
