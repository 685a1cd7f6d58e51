package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ankibridge/ankibridge/internal/scan"
	"github.com/ankibridge/ankibridge/internal/vault"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>...",
	Short: "Scan files without pushing",
	Long:  `Scan Markdown files for notes and report what a push would change, without contacting Anki.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		schema := loadSchema()

		// No identifier snapshot offline: every identifier found in the
		// files is reported as an update.
		scanner := scan.NewScanner(schema, settings, nil)

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			text := string(data)
			result, err := scanner.Scan(text, vault.ParseMetadata(text), sourceLink(settings, path), settings.PatternTypes())
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("%s: %s to create, %s to update, %s to delete\n",
				color.CyanString(path),
				color.GreenString("%d", len(result.Creates())),
				color.YellowString("%d", len(result.Updates)),
				color.RedString("%d", len(result.Deletions)))
		}
	},
}
