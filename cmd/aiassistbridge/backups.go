package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grokify/aiassistbridge/backup"
	"github.com/grokify/aiassistbridge/orchestrator"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// backupManager builds the same *backup.Manager write.go uses, rooted at
// the process env's backups directory.
func backupManager() *backup.Manager {
	return backup.NewManager(pathresolver.BackupsDir(processEnv().Home), isoNowMillis)
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List snapshots taken before a write",
	RunE:  runBackups,
}

func runBackups(cmd *cobra.Command, _ []string) error {
	infos, err := orchestrator.ListBackups(backupManager())
	if err != nil {
		return err
	}
	return printJSON(cmd, infos)
}

var restoreIDFlag string

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore files from a snapshot (id defaults to the most recent)",
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().StringVar(&restoreIDFlag, "id", "", `backup id, or "latest" (default)`)
}

func runRestore(cmd *cobra.Command, _ []string) error {
	result, err := orchestrator.Restore(backupManager(), restoreIDFlag)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

var deleteBackupIDFlag string

var deleteBackupCmd = &cobra.Command{
	Use:   "delete-backup",
	Short: "Delete a snapshot by id",
	RunE:  runDeleteBackup,
}

func init() {
	deleteBackupCmd.Flags().StringVar(&deleteBackupIDFlag, "id", "", "backup id")
	deleteBackupCmd.MarkFlagRequired("id")
}

func runDeleteBackup(cmd *cobra.Command, _ []string) error {
	if err := orchestrator.DeleteBackup(backupManager(), deleteBackupIDFlag); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteBackupIDFlag)
	return nil
}
