// Package main is the dashboard CLI: it uploads a résumé to the parser
// service and prints the extracted record.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"smart-resume/internal/dashboard"
	"smart-resume/internal/shared/config"
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Smart Resume Parser dashboard",
		Long:          "Upload a PDF or DOCX résumé to the parser service, repair raw model output, and print the structured result with JSON and CSV exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultAPIURL(), "Parser service URL (env RESUME_API_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 120*time.Second, "Request timeout")

	cmd.AddCommand(newParseCmd(opts), newRepairCmd(), newPingCmd(opts))
	return cmd
}

func (o *rootOptions) client() *dashboard.Client {
	return dashboard.NewClient(o.apiURL, dashboard.WithHTTPClient(httpClient(o.timeout)))
}

func defaultAPIURL() string {
	if v := os.Getenv("RESUME_API_URL"); v != "" {
		return v
	}
	return dashboard.DefaultAPIURL
}

func main() {
	config.LoadEnvFiles(".env", "cmd/.env")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
