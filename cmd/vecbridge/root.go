// Package vecbridge is the command tree of the vecbridge CLI: documentation
// crawling and cleaning, plus vector database maintenance through the
// registered adapters.
package vecbridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "VECBRIDGE"

// options carries the configuration resolved for the running command.
// Precedence: flags, VECBRIDGE_* environment, --config YAML file, flag defaults.
type options struct {
	v *viper.Viper
}

// load builds a fresh viper for cmd. Flag names map to env vars by
// upper-casing and replacing dashes, e.g. --api-key → VECBRIDGE_API_KEY.
func (o *options) load(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	o.v = v
	return nil
}

// NewRootCmd creates the vecbridge root command.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "vecbridge",
		Short: "Documentation scraping and vector database tooling",
		Long: `vecbridge collects documentation as markdown, cleans it, and manages
collections in Qdrant, Redis Stack or Azure AI Search.

Typical flow:
  vecbridge crawl --start-url https://dlthub.com/docs/ --domain-prefix https://dlthub.com/docs -o docs.md
  vecbridge clean --preset dlt -i docs.md -o part1.md --split-out2 part2.md
  vecbridge extract -i part1.md -i part2.md --main-url https://dlthub.com/docs/general-usage/source -o some.md
  vecbridge vector create --provider qdrant --url http://localhost:6334 --collection docs --input some.md`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Path to a YAML config file")
	pf.String("log-level", "info", "Log level: debug, info, warning or error")
	pf.String("metrics-addr", "", "Expose Prometheus metrics on this address, e.g. :9090")
	pf.Bool("otlp", false, "Export traces over OTLP/HTTP")
	pf.String("otlp-endpoint", "", "OTLP collector URL (defaults to the OTEL_EXPORTER_OTLP_* environment)")
	pf.String("env", "development", "Deployment environment recorded on traces")

	root.AddCommand(
		newCrawlCmd(o),
		newScrapeCmd(o),
		newCleanCmd(o),
		newExtractCmd(o),
		newVectorCmd(o),
	)
	return root
}
