package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grokify/aiassistbridge/backup"
	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/orchestrator"
	"github.com/grokify/aiassistbridge/pathresolver"
	"github.com/grokify/aiassistbridge/writer"
)

var (
	writeFromFlag string
	writeToFlag   string
	writeProject  string
	writeDryRun   bool
	writeBackup   bool
	writeForce    bool
	writeMerge    string
	writeDescFlag string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Scan, convert, and write a target format's config to disk",
	RunE:  runWrite,
}

func init() {
	writeCmd.Flags().StringVar(&writeFromFlag, "from", "", "source format")
	writeCmd.Flags().StringVar(&writeToFlag, "to", "", "target format")
	writeCmd.Flags().StringVar(&writeProject, "project", "", "project path to include")
	writeCmd.Flags().BoolVar(&writeDryRun, "dry-run", false, "report what would be written without touching disk")
	writeCmd.Flags().BoolVar(&writeBackup, "backup", true, "snapshot existing files before writing")
	writeCmd.Flags().BoolVar(&writeForce, "force", false, "overwrite existing files")
	writeCmd.Flags().StringVar(&writeMerge, "merge", string(writer.MergeOverwrite), "overwrite, preserve-existing, or merge")
	writeCmd.Flags().StringVar(&writeDescFlag, "description", "", "backup description (default: a generated run id)")
	writeCmd.MarkFlagRequired("from")
	writeCmd.MarkFlagRequired("to")
}

func runWrite(cmd *cobra.Command, _ []string) error {
	from := canon.Format(writeFromFlag)
	to := canon.Format(writeToFlag)
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("unknown format pair %q -> %q", writeFromFlag, writeToFlag)
	}

	env := processEnv()
	scan, err := orchestrator.ScanFormat(orchestrator.ScanOptions{
		Format: from, Env: env, Global: true, ProjectPath: writeProject, IncludeHistory: true,
	})
	if err != nil {
		return err
	}

	conversion, err := orchestrator.UniversalConvert(scan, orchestrator.ConvertOptions{To: to, Env: env})
	if err != nil {
		return err
	}

	description := writeDescFlag
	if description == "" {
		description = "aiassistbridge run " + newRunID()
	}

	mgr := backup.NewManager(pathresolver.BackupsDir(env.Home), isoNowMillis)

	result, err := orchestrator.UniversalWrite(conversion, orchestrator.WriteOptions{
		DryRun: writeDryRun, Backup: writeBackup, Force: writeForce,
		MergeStrategy: writer.MergeStrategy(writeMerge), BackupManager: mgr, Description: description,
		History: writer.HistoryOptions{Mode: writer.HistorySQLite, DBPath: pathresolver.OpenCodeDataDB(env)},
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, result)
}
