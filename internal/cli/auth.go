package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/existflow/ironfocus/internal/config"
	"github.com/existflow/ironfocus/internal/credential"
	"github.com/existflow/ironfocus/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the hosted service API key",
	Long:  `Manage the API key used to talk to an ironfocus-server.`,
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key in the system keyring",
	Long: `Store the API key in the system keyring. With --url the remote
backend is also selected in the config file.

Examples:
  ironfocus auth set-key
  ironfocus auth set-key --url https://focus.example.com`,
	Args: cobra.NoArgs,
	RunE: runSetKey,
}

var clearKeyCmd = &cobra.Command{
	Use:   "clear-key",
	Short: "Remove the API key from the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runClearKey,
}

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key",
	Short: "Print the bcrypt hash of a key for IRONFOCUS_API_KEY_HASH",
	Args:  cobra.NoArgs,
	RunE:  runHashKey,
}

var setKeyURL string

func init() {
	authCmd.AddCommand(setKeyCmd)
	authCmd.AddCommand(clearKeyCmd)
	authCmd.AddCommand(hashKeyCmd)

	setKeyCmd.Flags().StringVar(&setKeyURL, "url", "", "Server URL; also switches the store backend to remote")
}

// readSecret prompts without echo on a terminal, otherwise reads one line
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	var secret string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		secret = string(b)
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		secret = line
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", fmt.Errorf("empty key")
	}
	return secret, nil
}

func runSetKey(cmd *cobra.Command, args []string) error {
	key, err := readSecret(cmd, "API key: ")
	if err != nil {
		return err
	}

	if err := credential.Set(credential.APIKeyName, key); err != nil {
		return err
	}
	logger.Info("API key stored in keyring")
	fmt.Fprintln(cmd.OutOrStdout(), "✓ API key stored in keyring")

	if setKeyURL != "" {
		err := config.Update(func(c *config.Config) {
			c.Store.Backend = config.BackendRemote
			c.Store.URL = setKeyURL
		})
		if err != nil {
			return err
		}
		cfg := currentConfig()
		cfg.Store.Backend = config.BackendRemote
		cfg.Store.URL = setKeyURL
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Using remote store at %s\n", setKeyURL)
	}
	return nil
}

func runClearKey(cmd *cobra.Command, args []string) error {
	err := credential.Delete(credential.APIKeyName)
	if errors.Is(err, credential.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No API key stored")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("API key removed from keyring")
	fmt.Fprintln(cmd.OutOrStdout(), "✓ API key removed")
	return nil
}

func runHashKey(cmd *cobra.Command, args []string) error {
	key, err := readSecret(cmd, "Key to hash: ")
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
