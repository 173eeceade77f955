package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"smart-resume/internal/dashboard"
	"smart-resume/internal/resume"
)

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <file>",
		Short: "Repair a raw model reply saved to a file and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")

			profile, repairErr := dashboard.RepairJSON(string(data))
			if repairErr != nil {
				if err := enc.Encode(repairErr); err != nil {
					return err
				}
				return errors.New("reply could not be repaired")
			}
			return enc.Encode(resume.Structured(profile))
		},
	}
}
