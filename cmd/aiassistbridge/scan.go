package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/orchestrator"
)

var (
	scanFormatFlag  string
	scanGlobalFlag  bool
	scanProjectFlag string
	scanHistoryFlag bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a source format's config and print the raw scan result as JSON",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormatFlag, "format", "", "source format: claude-code, opencode, cursor")
	scanCmd.Flags().BoolVar(&scanGlobalFlag, "global", true, "include the global scope")
	scanCmd.Flags().StringVar(&scanProjectFlag, "project", "", "project path to include (optional)")
	scanCmd.Flags().BoolVar(&scanHistoryFlag, "history", false, "include chat history")
	scanCmd.MarkFlagRequired("format")
}

func runScan(cmd *cobra.Command, _ []string) error {
	format := canon.Format(scanFormatFlag)
	if !format.Valid() {
		return fmt.Errorf("unknown format %q", scanFormatFlag)
	}

	result, err := orchestrator.ScanFormat(orchestrator.ScanOptions{
		Format:         format,
		Env:            processEnv(),
		Global:         scanGlobalFlag,
		ProjectPath:    scanProjectFlag,
		IncludeHistory: scanHistoryFlag,
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
