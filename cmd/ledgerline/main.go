// Command ledgerline is a small terminal client for the ledgerline API,
// driving the same SDK the frontend uses. Sessions persist to a token file
// so login survives between invocations.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/internal/client"
	"github.com/ledgerline/ledgerline/internal/platform/config"
)

var (
	api       *client.Client
	baseURL   string
	companyID string
)

func main() {
	root := &cobra.Command{
		Use:           "ledgerline",
		Short:         "Terminal client for the ledgerline accounting API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = cfg.APIBaseURL
			}
			tokenPath := cfg.TokenFilePath
			if tokenPath == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				tokenPath = filepath.Join(home, ".ledgerline", "tokens.json")
			}
			store, err := client.NewFileTokenStore(tokenPath)
			if err != nil {
				return err
			}
			api = client.New(baseURL,
				client.WithTokenStore(store),
				client.WithTimeout(cfg.RequestTimeout),
			)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "api", "", "API base URL (defaults to API_BASE_URL)")
	root.PersistentFlags().StringVarP(&companyID, "company", "c", "", "company ID scope for accounting commands")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newCompaniesCmd(),
		newAccountsCmd(),
		newContactsCmd(),
		newInvoiceCmd(),
		newReceiptCmd(),
		newTrialBalanceCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, client.FormatError(err, "Command failed"))
		os.Exit(1)
	}
}

// requireCompany guards commands that need the --company scope.
func requireCompany() error {
	if companyID == "" {
		return fmt.Errorf("a company is required: pass --company <id> (see `ledgerline companies`)")
	}
	return nil
}
