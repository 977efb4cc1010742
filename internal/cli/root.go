// Package cli implements the soundview command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/acousticlab/soundview/internal/cache"
	"github.com/acousticlab/soundview/internal/config"
	"github.com/acousticlab/soundview/internal/fetch"
	"github.com/acousticlab/soundview/internal/viewdata"
	"github.com/acousticlab/soundview/internal/views"
)

// NewRootCmd creates the root Cobra command for the soundview CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup
// so tests can inject environment values.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "soundview",
		Short:   "Terminal viewer for pre-computed acoustic-analytics datasets",
		Long:    "soundview fetches pre-computed JSON views (correlation matrices, PCA summaries,\nmodel metrics, acoustic-index heatmaps) from a content endpoint and renders them\nin the terminal. All statistics are produced upstream; soundview only displays them.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ttlFlag, _ := cmd.Flags().GetString("cache-ttl")
			if ttlFlag != "" {
				if _, err := cache.ParseTTL(ttlFlag); err != nil {
					return fmt.Errorf("invalid --cache-ttl: %w", err)
				}
			}

			cfg, err := config.New()
			if err != nil {
				return err
			}

			level := cfg.LogLevel()
			if envLevel, ok := lookupEnv(config.EnvLogLevel); ok && envLevel != "" {
				level = envLevel
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			config.InitLogger(level)
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("base-url", "", "content endpoint origin (overrides config and env)")
	cmd.PersistentFlags().String("cache-ttl", "", "cache TTL, duration or seconds (overrides config and env)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the payload cache")
	cmd.PersistentFlags().Bool("skip-schema-check", false, "skip the manifest schema compatibility check")

	cmd.AddCommand(newListCmd(), newGetCmd(), newBrowseCmd())

	return cmd
}

const rootCmdExample = `  # List available views
  soundview list

  # Show the index correlation matrix at a 0.95 threshold
  soundview get correlation_matrix --threshold 0.95

  # Dump the raw modeling-analysis payload
  soundview get modeling_analysis --json

  # Browse views interactively
  soundview browse`

// newLoaderFromFlags builds the retrieval stack for a command invocation:
// config, cache store, fetcher, and loader, honoring the persistent flag
// overrides.
func newLoaderFromFlags(cmd *cobra.Command) (*viewdata.Loader, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	ttl := cfg.CacheTTL()
	if ttlFlag, _ := cmd.Flags().GetString("cache-ttl"); ttlFlag != "" {
		parsed, parseErr := cache.ParseTTL(ttlFlag)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid --cache-ttl: %w", parseErr)
		}
		ttl = parsed
	}

	ttlCfg, err := cache.NewTTLConfig(ttl)
	if err != nil {
		return nil, err
	}

	enabled := cfg.CacheEnabled()
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		enabled = false
	}

	baseURL := cfg.Data.BaseURL
	if flagURL, _ := cmd.Flags().GetString("base-url"); flagURL != "" {
		baseURL = flagURL
	}

	logger := config.GetLogger()
	store := cache.NewStore(ttlCfg, enabled)
	fetcher := fetch.New(baseURL, fetch.WithLogger(logger))

	loader := viewdata.NewLoader(store, fetcher,
		viewdata.WithTimeout(cfg.RequestTimeout()),
		viewdata.WithLogger(logger),
	)

	if skip, _ := cmd.Flags().GetBool("skip-schema-check"); !skip {
		if err := checkSchema(cmd, loader, logger); err != nil {
			return nil, err
		}
	}

	return loader, nil
}

// checkSchema gates a command on the endpoint's manifest. Endpoints
// that predate manifests have none to fetch, so only a manifest that is
// present and outside the supported range blocks the command; fetch
// failures fall through to the view load, which reports the real error.
func checkSchema(cmd *cobra.Command, loader *viewdata.Loader, logger zerolog.Logger) error {
	manifest, err := loader.Manifest(cmd.Context())
	if err != nil {
		if errors.Is(err, views.ErrSchemaIncompatible) {
			return fmt.Errorf("content endpoint is not usable by this client: %w", err)
		}
		logger.Debug().Err(err).Msg("manifest unavailable, skipping schema check")
		return nil
	}

	logger.Debug().Str("schema_version", manifest.SchemaVersion).Msg("manifest schema compatible")
	return nil
}
