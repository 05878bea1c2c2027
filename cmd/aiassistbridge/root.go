package main

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grokify/aiassistbridge/pathresolver"
)

var rootCmd = &cobra.Command{
	Use:           "aiassistbridge",
	Short:         "Convert AI coding assistant configs between Claude Code, OpenCode, and Cursor",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd, convertCmd, writeCmd, backupsCmd, restoreCmd, deleteBackupCmd)
}

// processEnv builds a pathresolver.Env from the current process
// environment, the one place this CLI reads os.Getenv directly; every
// library package below it takes Env as an explicit argument.
func processEnv() pathresolver.Env {
	return pathresolver.Env{
		Home:          os.Getenv("HOME"),
		XDGConfigHome: os.Getenv("XDG_CONFIG_HOME"),
		XDGDataHome:   os.Getenv("XDG_DATA_HOME"),
		XDGStateHome:  os.Getenv("XDG_STATE_HOME"),
		AppData:       os.Getenv("APPDATA"),
		GOOS:          runtime.GOOS,
	}
}

// newRunID tags one CLI invocation for the backup description default,
// the one place in this repo that needs an opaque unique token rather
// than a deterministic id derived from content (spec.md §3.10's
// deterministic session/project ids cover the rest).
func newRunID() string {
	return uuid.NewString()
}

// isoNowMillis is the real-clock backup.Manager timestamp source,
// ISO-8601 with millisecond precision, matching spec.md §6.3's manifest
// createdAt format.
func isoNowMillis() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
