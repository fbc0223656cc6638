package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/tracker-port/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure GitHub connection settings",
	Long:  `Interactively set up the API URL, your GitHub login, and an auth token. Settings are saved to ~/.tracker-port.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		// API URL
		defaultURL := existing.URL
		if defaultURL == "" {
			defaultURL = config.DefaultAPIURL
		}
		fmt.Printf("API URL [%s]: ", defaultURL)
		url, _ := reader.ReadString('\n')
		url = strings.TrimSpace(url)
		if url == "" {
			url = defaultURL
		}

		// Login
		defaultLogin := existing.Login
		if defaultLogin != "" {
			fmt.Printf("GitHub login [%s]: ", defaultLogin)
		} else {
			fmt.Print("GitHub login: ")
		}
		login, _ := reader.ReadString('\n')
		login = strings.TrimSpace(login)
		if login == "" {
			login = defaultLogin
		}

		// Token (masked input)
		fmt.Print("Auth token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))
		if token == "" {
			token = existing.Token
		}

		cfg := config.Config{
			URL:   url,
			Login: login,
			Token: token,
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
