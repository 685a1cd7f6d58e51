package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/ankibridge/ankibridge/internal/note"
	"github.com/ankibridge/ankibridge/internal/vault"
)

var (
	configFile   string
	schemaFile   string
	verboseInfo  bool
	verboseDebug bool
	verboseTrace bool
)

var rootCmd = &cobra.Command{
	Use:   "ankibridge",
	Short: "AnkiBridge turns Markdown notes into Anki flashcards",
	Long:  `AnkiBridge scans Markdown files for flashcard notes and keeps them in sync with Anki through AnkiConnect.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The most verbose level wins when multiple flags are passed.
		logger := config.CurrentLogger()
		if verboseInfo {
			logger.SetVerboseLevel(config.VerboseInfo)
		}
		if verboseDebug {
			logger.SetVerboseLevel(config.VerboseDebug)
		}
		if verboseTrace {
			logger.SetVerboseLevel(config.VerboseTrace)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "verbose", "v", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVar(&verboseDebug, "verbose-debug", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&verboseTrace, "verbose-trace", false, "enable verbose trace output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (TOML)")
	rootCmd.PersistentFlags().StringVarP(&schemaFile, "schema", "s", "", "note type schema file (YAML)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadSettings() *config.Config {
	if configFile == "" {
		return config.New()
	}
	settings, err := config.Load(configFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return settings
}

func loadSchema() note.Schema {
	if schemaFile == "" {
		fmt.Println("A note type schema is required.")
		fmt.Println("Please pass one with --schema.")
		os.Exit(1)
	}
	data, err := os.ReadFile(schemaFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	schema, err := note.LoadSchema(data)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return schema
}

// sourceLink builds the deep link back to a scanned file.
func sourceLink(settings *config.Config, path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return vault.DeepLink(settings.Vault, name)
}
