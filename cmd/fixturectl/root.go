package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/config"
)

var (
	sourcesFlag  string
	databaseFlag string
	languageFlag string
	verboseFlag  bool
)

// provider is built from the flags before each command runs.
var provider *fixturecontent.Provider

var rootCmd = &cobra.Command{
	Use:           "fixturectl",
	Short:         "Inspect fixture content",
	Long:          `Loads serialized item directories and package archives and prints the resulting content tree.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelWarn
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
			slog.Debug("Unable to load .env", "err", err)
		}

		opts := []config.Option{config.WithEnv("")}
		if sourcesFlag != "" {
			opts = append(opts, config.WithSources(sourcesFlag))
		}
		if databaseFlag != "" {
			opts = append(opts, config.WithDatabaseName(databaseFlag))
		}
		if languageFlag != "" {
			opts = append(opts, config.WithDefaultLanguage(languageFlag))
		}
		cfg, err := config.Load(opts...)
		if err != nil {
			return err
		}

		p, err := cfg.BuildProvider(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		provider = p
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sourcesFlag, "sources", "s", "", `Fixture locations separated by "|" (default: $FIXTURE_SOURCES)`)
	rootCmd.PersistentFlags().StringVar(&databaseFlag, "database", "", "Database name (default: master)")
	rootCmd.PersistentFlags().StringVar(&languageFlag, "language", "", "Default language (default: en)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log loader details")
}

// lookup resolves an argument that is either an item id or a path.
func lookup(arg string) (*fixturecontent.ItemDefinition, error) {
	id, ok := fixturecontent.ParseID(arg)
	if !ok {
		id = provider.ResolvePath(arg, nil)
	}
	def := provider.GetItemDefinition(id, nil)
	if def == nil {
		return nil, fmt.Errorf("%s: %w", arg, fixturecontent.ErrItemNotFound)
	}
	return def, nil
}
