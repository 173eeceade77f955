package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"smart-resume/internal/dashboard"
	"smart-resume/internal/exports"
)

const (
	clientJSONName = "parsed_resume.json"
	clientCSVName  = "parsed_resume.csv"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	var (
		outDir  string
		backend bool
	)
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Upload a résumé and print the parsed dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend && outDir == "" {
				return fmt.Errorf("--backend requires --out")
			}
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			client := root.client()
			resp, err := client.Upload(cmd.Context(), filepath.Base(path), f)
			if err != nil {
				return err
			}
			view := dashboard.BuildView(resp)
			if err := dashboard.Render(cmd.OutOrStdout(), view, root.apiURL); err != nil {
				return err
			}
			if outDir == "" {
				return nil
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := writeClientExports(outDir, view); err != nil {
				return err
			}
			if backend {
				for _, d := range view.Downloads {
					var buf bytes.Buffer
					if err := client.Download(cmd.Context(), d.Path, &buf); err != nil {
						return fmt.Errorf("download %s: %w", d.Label, err)
					}
					name := fmt.Sprintf("resume_%s.%s", resp.ExportID, d.Label)
					if err := os.WriteFile(filepath.Join(outDir, name), buf.Bytes(), 0o644); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nExports written to %s\n", outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for parsed_resume.json and parsed_resume.csv")
	cmd.Flags().BoolVar(&backend, "backend", false, "Also download the server-side exports into --out")
	return cmd
}

func writeClientExports(dir string, view dashboard.View) error {
	var jsonBuf bytes.Buffer
	if err := exports.EncodeJSON(&jsonBuf, view.Record()); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, clientJSONName), jsonBuf.Bytes(), 0o644); err != nil {
		return err
	}
	var csvBuf bytes.Buffer
	if err := dashboard.EncodeSectionsCSV(&csvBuf, view.Profile); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, clientCSVName), csvBuf.Bytes(), 0o644)
}

func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
