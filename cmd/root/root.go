// Package root contains the root command for the application.
package root

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/config"
	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/smsparser"
	"mpesa-insights/internal/store"
	"mpesa-insights/internal/taxonomy"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "mpesa-insights",
		Short: "Extract structured transactions from M-Pesa messages and derive spending insights.",
		Long: `mpesa-insights parses mobile-money confirmation messages into structured,
deduplicated transaction records, then derives merchant frequency statistics,
recurring-bill flags and category suggestions from the accumulated set.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to mpesa-insights!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
			return nil
		},
	}
)

// Logger returns the shared logger wrapped in the logging abstraction.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// NewParser builds the message parser over the configured taxonomy.
func NewParser() (*smsparser.Parser, *clues.Detector, *taxonomy.Taxonomy, error) {
	tax, err := taxonomy.Load(Cfg.Taxonomy.File)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	detector := clues.NewDetector(tax)
	parser := smsparser.NewParser(detector, Logger())
	return parser, detector, tax, nil
}

// OpenStores opens the transaction store and the category-mapping store
// configured for this run.
func OpenStores() (*store.FileStore, *store.MappingStore, error) {
	txStore, err := store.NewFileStore(Cfg.Store.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open transaction store: %w", err)
	}

	mappings, err := store.NewMappingStore(Cfg.Mapping.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open mapping store: %w", err)
	}

	return txStore, mappings, nil
}
