package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dt-pm-tools/tracker-port/internal/bitbucket"
	"github.com/dt-pm-tools/tracker-port/internal/config"
	"github.com/dt-pm-tools/tracker-port/internal/directive"
	"github.com/dt-pm-tools/tracker-port/internal/mapping"
	"github.com/spf13/cobra"
)

var (
	identityMapFile string
	commitMapFile   string
	wontfixClosed   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an issue export to directive text",
	Long: `Reads a Bitbucket/Google Code db-1.0 issue export (from a file, or from
standard input when no file is given) and writes the directive-format
text to standard output.

An identity map resolves source-tracker handles to GitHub logins; a
commit map rewrites abbreviated revision references to canonical ids.
Both are optional two-column whitespace-separated files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := bitbucket.Options{WontfixClosed: wontfixClosed}

		// Token is not needed for conversion; the login is only used to
		// suppress self-attribution, so load leniently.
		if cfg, err := config.Load(cfgFile); err == nil {
			opts.Login = cfg.Login
		}

		if identityMapFile != "" {
			identities, err := mapping.LoadIdentities(identityMapFile)
			if err != nil {
				return err
			}
			opts.Identities = identities
		}
		if commitMapFile != "" {
			commits, err := mapping.LoadCommits(commitMapFile)
			if err != nil {
				return err
			}
			opts.Commits = commits
		}

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer f.Close()
			in = f
		}

		issues, err := bitbucket.Import(in, opts)
		if err != nil {
			return fmt.Errorf("importing export: %w", err)
		}

		fmt.Print(directive.Marshal(issues))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&identityMapFile, "identity-map", "", "two-column file mapping GitHub logins to source handles")
	convertCmd.Flags().StringVar(&commitMapFile, "commit-map", "", "two-column file mapping canonical commit ids to abbreviated ones")
	convertCmd.Flags().BoolVar(&wontfixClosed, "wontfix-closed", false, "treat wontfix issues as closed")
	rootCmd.AddCommand(convertCmd)
}
