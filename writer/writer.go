// Package writer implements the write side of the conversion pipeline,
// spec.md §4.9: a fixed write order, three JSON merge strategies, and
// dry-run/force semantics, grounded on the teacher's os.WriteFile +
// MkdirAll file-adapter pattern (skills/claude/adapter.go).
package writer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/grokify/aiassistbridge/backup"
	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/codec"
)

// MergeStrategy selects how an existing JSON file is combined with the
// incoming content (spec.md §4.9).
type MergeStrategy string

const (
	MergeOverwrite MergeStrategy = "overwrite"
	MergePreserve  MergeStrategy = "preserve-existing"
	MergeRecursive MergeStrategy = "merge"
)

// Options configures a single Write call.
type Options struct {
	DryRun        bool
	Backup        bool
	Force         bool
	MergeStrategy MergeStrategy

	BackupManager *backup.Manager
	Description   string
	History       HistoryOptions

	Progress func(ProgressEvent)
}

// ProgressPhase enumerates the writer's progress callback phases.
type ProgressPhase string

const (
	PhaseDedupCheck ProgressPhase = "dedup-check"
	PhaseWriting    ProgressPhase = "writing"
	PhaseComplete   ProgressPhase = "complete"
)

// ProgressEvent is fired as the writer makes progress.
type ProgressEvent struct {
	Phase ProgressPhase
	Path  string
}

// Result reports what Write did.
type Result struct {
	SourceFormat canon.Format `json:"sourceFormat"`
	TargetFormat canon.Format `json:"targetFormat"`
	FilesWritten []string     `json:"filesWritten"`
	FilesSkipped []string     `json:"filesSkipped"`
	BackupDir    string       `json:"backupDir,omitempty"`
}

func (o Options) mergeStrategy() MergeStrategy {
	if o.MergeStrategy == "" {
		return MergeOverwrite
	}
	return o.MergeStrategy
}

func (o Options) progress(phase ProgressPhase, path string) {
	if o.Progress != nil {
		o.Progress(ProgressEvent{Phase: phase, Path: path})
	}
}

// Write applies the fixed operation order from spec.md §4.9: collect
// paths, optionally back up, write global config, project configs,
// agents/commands/rules/extra files, then history.
func Write(result *canon.ConversionResult, opts Options) (*Result, error) {
	out := &Result{SourceFormat: result.SourceFormat, TargetFormat: result.TargetFormat}

	paths := result.AllFiles()
	if opts.Backup && !opts.DryRun && opts.BackupManager != nil {
		dir, err := opts.BackupManager.CreateBackup(paths, opts.Description)
		if err != nil {
			return nil, err
		}
		out.BackupDir = dir
	}

	if result.GlobalConfigPath != "" {
		writeJSON(out, opts, result.GlobalConfigPath, result.GlobalConfig)
	}
	for _, path := range sortedKeys(result.ProjectConfigs) {
		writeJSON(out, opts, path, result.ProjectConfigs[path])
	}
	for _, path := range sortedKeys(result.Agents) {
		writeText(out, opts, path, result.Agents[path])
	}
	for _, path := range sortedKeys(result.Commands) {
		writeText(out, opts, path, result.Commands[path])
	}
	for _, path := range sortedKeys(result.Rules) {
		writeText(out, opts, path, result.Rules[path])
	}
	for _, path := range sortedKeys(result.ExtraFiles) {
		writeText(out, opts, path, result.ExtraFiles[path])
	}

	if len(result.Sessions) > 0 {
		writeHistory(out, opts, result)
	}

	opts.progress(PhaseComplete, "")
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(out *Result, opts Options, path string, incoming map[string]any) {
	opts.progress(PhaseWriting, path)

	if opts.DryRun {
		out.FilesWritten = append(out.FilesWritten, path)
		return
	}

	existing := readExistingJSON(path)
	merged := incoming
	if existing != nil {
		switch opts.mergeStrategy() {
		case MergeOverwrite:
			if !opts.Force {
				out.FilesSkipped = append(out.FilesSkipped, path)
				return
			}
			merged = overwriteMerge(existing, incoming)
		case MergePreserve:
			merged = preserveMerge(existing, incoming)
		case MergeRecursive:
			merged = recursiveMerge(existing, incoming)
		}
	}

	raw, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}
	out.FilesWritten = append(out.FilesWritten, path)
}

// readExistingJSON returns nil if the file is absent or malformed, per
// spec.md §4.9's "if malformed, treat as empty" rule.
func readExistingJSON(path string) map[string]any {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := codec.UnmarshalJSONC(raw, &m); err != nil {
		return nil
	}
	return m
}

func overwriteMerge(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

// preserveMerge adds only keys absent in existing; for nested objects it
// recurses one level (spec.md §4.9).
func preserveMerge(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		if existingVal, ok := existing[k]; ok {
			existingNested, eok := existingVal.(map[string]any)
			incomingNested, iok := v.(map[string]any)
			if eok && iok {
				nested := make(map[string]any, len(existingNested)+len(incomingNested))
				for nk, nv := range existingNested {
					nested[nk] = nv
				}
				for nk, nv := range incomingNested {
					if _, exists := existingNested[nk]; !exists {
						nested[nk] = nv
					}
				}
				out[k] = nested
			}
			continue
		}
		out[k] = v
	}
	return out
}

// recursiveMerge implements spec.md §4.9's "merge" strategy: scalars keep
// existing, arrays union preserving existing order then new, objects
// recurse fully.
func recursiveMerge(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, incomingVal := range incoming {
		existingVal, ok := existing[k]
		if !ok {
			out[k] = incomingVal
			continue
		}
		out[k] = mergeValue(existingVal, incomingVal)
	}
	return out
}

func mergeValue(existingVal, incomingVal any) any {
	if existingMap, ok := existingVal.(map[string]any); ok {
		if incomingMap, ok := incomingVal.(map[string]any); ok {
			return recursiveMerge(existingMap, incomingMap)
		}
		return existingVal
	}
	if existingArr, ok := existingVal.([]any); ok {
		incomingArr, ok := incomingVal.([]any)
		if !ok {
			return existingVal
		}
		return unionPreservingOrder(existingArr, incomingArr)
	}
	return existingVal
}

func unionPreservingOrder(existing, incoming []any) []any {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]any, 0, len(existing)+len(incoming))
	add := func(v any) {
		key, err := json.Marshal(v)
		k := string(key)
		if err != nil || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, v)
	}
	for _, v := range existing {
		add(v)
	}
	for _, v := range incoming {
		add(v)
	}
	return out
}

func writeText(out *Result, opts Options, path, content string) {
	opts.progress(PhaseWriting, path)

	if opts.DryRun {
		out.FilesWritten = append(out.FilesWritten, path)
		return
	}
	if _, err := os.Stat(path); err == nil && !opts.Force {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		out.FilesSkipped = append(out.FilesSkipped, path)
		return
	}
	out.FilesWritten = append(out.FilesWritten, path)
}
