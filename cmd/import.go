package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dt-pm-tools/tracker-port/internal/directive"
	"github.com/dt-pm-tools/tracker-port/internal/github"
	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <owner/repo> [file]",
	Short: "Submit directive text to GitHub's issue-import API",
	Long: `Reads directive-format text (from a file, or from standard input when no
file is given) and submits each issue with its comments to the GitHub
issue-import API, one at a time in ascending id order, polling each
import until it completes.

Requires an auth token (GITHUB_TOKEN env var or config file). Use
--dry-run to print the import payloads as JSON instead of submitting.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := args[0]
		if strings.Count(repo, "/") != 1 {
			return fmt.Errorf("repository must be of the form owner/repo, got %q", repo)
		}

		var in io.Reader = os.Stdin
		if len(args) == 2 {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening directive file: %w", err)
			}
			defer f.Close()
			in = f
		}

		doc, err := directive.Unmarshal(in)
		if err != nil {
			return fmt.Errorf("parsing directive stream: %w", err)
		}

		if importDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			for _, id := range doc.SortedIDs() {
				if err := enc.Encode(github.PayloadFor(doc.Issues[id])); err != nil {
					return fmt.Errorf("encoding payload for issue %d: %w", id, err)
				}
			}
			return nil
		}

		if err := loadConfig(); err != nil {
			return err
		}

		client := github.NewClient(appConfig)
		driver := github.NewDriver(client, repo)
		return driver.Run(doc)
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print import payloads as JSON without submitting")
	rootCmd.AddCommand(importCmd)
}
