package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ankibridge/ankibridge/internal/anki"
	"github.com/ankibridge/ankibridge/internal/bridge"
	"github.com/ankibridge/ankibridge/internal/scan"
)

var pushEndpoint string

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVar(&pushEndpoint, "endpoint", anki.DefaultEndpoint, "AnkiConnect endpoint")
}

var pushCmd = &cobra.Command{
	Use:   "push <file>...",
	Short: "Push notes to Anki",
	Long:  `Scan Markdown files and push created, updated, and deleted notes to Anki, then write the assigned identifiers back into the files.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		schema := loadSchema()
		ctx := cmd.Context()

		client := anki.NewClient(pushEndpoint)
		existing, err := client.FindNotes(ctx, "deck:*")
		if err != nil {
			fmt.Println(err)
			fmt.Println("Is Anki running with the AnkiConnect add-on enabled?")
			os.Exit(1)
		}

		syncer := &bridge.Syncer{
			Client:   client,
			Scanner:  scan.NewScanner(schema, settings, existing),
			Settings: settings,
		}

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			text := string(data)

			rewritten, summary, err := syncer.Document(ctx, text, sourceLink(settings, path), settings.PatternTypes())
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if rewritten != text {
				if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
					fmt.Println(err)
					os.Exit(1)
				}
			}
			fmt.Printf("%s: %s created, %s updated, %s deleted\n",
				color.CyanString(path),
				color.GreenString("%d", summary.Created),
				color.YellowString("%d", summary.Updated),
				color.RedString("%d", summary.Deleted))
		}
	},
}
