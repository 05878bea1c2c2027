package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/orchestrator"
)

var (
	convertFromFlag string
	convertToFlag   string
	convertGlobal   bool
	convertProject  string
	convertHistory  bool
	convertDefModel string
	convertDefSmall string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Scan a source format and convert it to a target format",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFromFlag, "from", "", "source format")
	convertCmd.Flags().StringVar(&convertToFlag, "to", "", "target format")
	convertCmd.Flags().BoolVar(&convertGlobal, "global", true, "include the global scope")
	convertCmd.Flags().StringVar(&convertProject, "project", "", "project path to include")
	convertCmd.Flags().BoolVar(&convertHistory, "history", false, "include chat history")
	convertCmd.Flags().StringVar(&convertDefModel, "default-model", "", "fallback model id when the source has none")
	convertCmd.Flags().StringVar(&convertDefSmall, "default-small-model", "", "fallback small-model id")
	convertCmd.MarkFlagRequired("from")
	convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, _ []string) error {
	from := canon.Format(convertFromFlag)
	to := canon.Format(convertToFlag)
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("unknown format pair %q -> %q", convertFromFlag, convertToFlag)
	}

	env := processEnv()
	scan, err := orchestrator.ScanFormat(orchestrator.ScanOptions{
		Format: from, Env: env, Global: convertGlobal, ProjectPath: convertProject, IncludeHistory: convertHistory,
	})
	if err != nil {
		return err
	}

	conversion, err := orchestrator.UniversalConvert(scan, orchestrator.ConvertOptions{
		To: to, Env: env, DefaultModel: convertDefModel, DefaultSmallModel: convertDefSmall,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), conversion.Report.String())
	return printJSON(cmd, conversion)
}
