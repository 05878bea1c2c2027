// Package orchestrator implements the library contract of spec.md
// §6.4: a thin facade tying scanners, mappers, emitters, the validator,
// the writer, and the backup manager into the six operations the CLI (or
// any other caller) drives the conversion pipeline through.
package orchestrator

import (
	"time"

	"github.com/grokify/aiassistbridge/backup"
	"github.com/grokify/aiassistbridge/canon"
	claudecodeEmit "github.com/grokify/aiassistbridge/emitter/claudecode"
	cursorEmit "github.com/grokify/aiassistbridge/emitter/cursor"
	opencodeEmit "github.com/grokify/aiassistbridge/emitter/opencode"
	claudecodeMap "github.com/grokify/aiassistbridge/mapper/claudecode"
	cursorMap "github.com/grokify/aiassistbridge/mapper/cursor"
	opencodeMap "github.com/grokify/aiassistbridge/mapper/opencode"
	"github.com/grokify/aiassistbridge/pathresolver"
	"github.com/grokify/aiassistbridge/scanner/claudecode"
	"github.com/grokify/aiassistbridge/scanner/cursor"
	"github.com/grokify/aiassistbridge/scanner/opencode"
	"github.com/grokify/aiassistbridge/validator"
	"github.com/grokify/aiassistbridge/writer"
)

// ScanResult is the "AnyScanResult" union of spec.md §6.4: exactly one of
// the three format-specific fields is populated, tagged by Format.
type ScanResult struct {
	Format     canon.Format
	ClaudeCode *claudecode.ScanResult
	OpenCode   *opencode.ScanResult
	Cursor     *cursor.ScanResult

	// CursorHistory is populated alongside Cursor when IncludeHistory is
	// set, since the Cursor filesystem scan and its SQLite history scan
	// are independent operations (spec.md §4.4).
	CursorHistory []cursor.CursorHistorySession
}

// ScanOptions mirrors spec.md §6.4's scanFormat input.
type ScanOptions struct {
	Format         canon.Format
	Env            pathresolver.Env
	Global         bool
	ProjectPath    string
	IncludeHistory bool
	Since          *time.Time
}

// ScanFormat dispatches to the scanner for opts.Format.
func ScanFormat(opts ScanOptions) (*ScanResult, error) {
	switch opts.Format {
	case canon.ClaudeCode:
		raw, err := claudecode.Scan(claudecode.Options{
			Env: opts.Env, Global: opts.Global, ProjectPath: opts.ProjectPath, IncludeHistory: opts.IncludeHistory,
		})
		if err != nil {
			return nil, err
		}
		return &ScanResult{Format: canon.ClaudeCode, ClaudeCode: raw}, nil

	case canon.OpenCode:
		raw, err := opencode.Scan(opencode.Options{Env: opts.Env, Global: opts.Global, ProjectPath: opts.ProjectPath})
		if err != nil {
			return nil, err
		}
		return &ScanResult{Format: canon.OpenCode, OpenCode: raw}, nil

	case canon.Cursor:
		raw, err := cursor.Scan(cursor.Options{Env: opts.Env, Global: opts.Global, ProjectPath: opts.ProjectPath})
		if err != nil {
			return nil, err
		}
		result := &ScanResult{Format: canon.Cursor, Cursor: raw}
		if opts.IncludeHistory {
			sessions, err := cursor.ScanHistory(cursor.HistoryOptions{Env: opts.Env, Since: opts.Since})
			if err != nil {
				return nil, err
			}
			result.CursorHistory = sessions
		}
		return result, nil

	default:
		return nil, &canon.UnsupportedPairError{From: opts.Format, To: opts.Format}
	}
}

// ConvertOptions mirrors spec.md §6.4's universalConvert input.
type ConvertOptions struct {
	To                canon.Format
	Env               pathresolver.Env
	ModelOverrides    map[string]string
	DefaultModel      string
	DefaultSmallModel string
}

// UniversalConvert maps scan onto the canonical IR, then emits it for
// opts.To.
func UniversalConvert(scan *ScanResult, opts ConvertOptions) (*canon.ConversionResult, error) {
	if scan.Format == opts.To {
		return nil, &canon.UnsupportedPairError{From: scan.Format, To: opts.To}
	}

	report := canon.NewReport()
	canonical, sessions := toCanonical(scan, report)

	var result *canon.ConversionResult
	switch opts.To {
	case canon.ClaudeCode:
		result = claudecodeEmit.Emit(canonical, claudecodeEmit.Options{
			Env: opts.Env, ModelOverrides: opts.ModelOverrides,
			DefaultModel: opts.DefaultModel, DefaultSmallModel: opts.DefaultSmallModel,
		})
	case canon.OpenCode:
		result = opencodeEmit.Emit(canonical, opencodeEmit.Options{
			Env: opts.Env, ModelOverrides: opts.ModelOverrides,
			DefaultModel: opts.DefaultModel, DefaultSmallModel: opts.DefaultSmallModel,
		})
	case canon.Cursor:
		result = cursorEmit.Emit(canonical, cursorEmit.Options{Env: opts.Env})
	default:
		return nil, &canon.UnsupportedPairError{From: scan.Format, To: opts.To}
	}

	result.Sessions = sessions
	result.Report.Append(report)

	v := validator.Validate(result)
	for _, w := range v.Warnings {
		result.Report.Warnf("%s", w)
	}
	for _, e := range v.Errors {
		result.Report.Errorf("%s", e)
	}

	return result, nil
}

// toCanonical projects the format-specific scan onto the canonical IR and
// separately converts any scanned chat history, since ConvertedSession
// travels on ConversionResult.Sessions rather than the IR itself.
func toCanonical(scan *ScanResult, report *canon.ConversionReport) (*canon.ScanResult, []canon.ConvertedSession) {
	switch scan.Format {
	case canon.ClaudeCode:
		result := claudecodeMap.ToCanonical(scan.ClaudeCode, report)
		var sessions []canon.ConvertedSession
		if scan.ClaudeCode.History != nil {
			sessions = claudecodeMap.ToCanonicalHistory(scan.ClaudeCode.History)
		}
		return result, sessions
	case canon.OpenCode:
		return opencodeMap.ToCanonical(scan.OpenCode, report), nil
	case canon.Cursor:
		result := cursorMap.ToCanonical(scan.Cursor, report)
		return result, cursorMap.ToCanonicalHistory(scan.CursorHistory)
	default:
		return canon.NewScanResult(scan.Format), nil
	}
}

// WriteOptions mirrors spec.md §6.4's universalWrite input.
type WriteOptions struct {
	DryRun        bool
	Backup        bool
	Force         bool
	MergeStrategy writer.MergeStrategy
	BackupManager *backup.Manager
	Description   string
	History       writer.HistoryOptions
	Progress      func(writer.ProgressEvent)
}

// UniversalWrite applies conversion to disk.
func UniversalWrite(conversion *canon.ConversionResult, opts WriteOptions) (*writer.Result, error) {
	return writer.Write(conversion, writer.Options{
		DryRun: opts.DryRun, Backup: opts.Backup, Force: opts.Force,
		MergeStrategy: opts.MergeStrategy, BackupManager: opts.BackupManager,
		Description: opts.Description, History: opts.History, Progress: opts.Progress,
	})
}

// ListBackups delegates to mgr.
func ListBackups(mgr *backup.Manager) ([]backup.Info, error) {
	return mgr.ListBackups()
}

// Restore delegates to mgr, defaulting id to "latest" when empty.
func Restore(mgr *backup.Manager, id string) (*backup.RestoreResult, error) {
	if id == "" {
		id = "latest"
	}
	return mgr.Restore(id)
}

// DeleteBackup delegates to mgr.
func DeleteBackup(mgr *backup.Manager, id string) error {
	return mgr.DeleteBackup(id)
}

// FormatName returns the human-readable display name for f.
func FormatName(f canon.Format) string {
	return f.Name()
}

// GetSupportedConversions returns all six ordered (from, to) pairs.
func GetSupportedConversions() []canon.ConversionPair {
	return canon.SupportedConversions()
}
