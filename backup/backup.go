// Package backup implements the snapshot/restore manager of spec.md
// §4.10: timestamped directories of numbered payload files plus a
// manifest.json, grounded on the teacher's os/filepath file-adapter
// style (skills/claude/adapter.go, mcp/*/adapter.go).
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Version is stamped into every manifest.json.
const Version = "0.1.0"

// FileEntry is one row of a backup manifest.
type FileEntry struct {
	OriginalPath   string `json:"originalPath"`
	BackupFilename string `json:"backupFilename"`
	ExistedBefore  bool   `json:"existedBefore"`
}

// Manifest is the backup manifest.json shape of spec.md §6.3.
type Manifest struct {
	CreatedAt   string      `json:"createdAt"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Files       []FileEntry `json:"files"`
}

// Info summarizes one backup for listBackups.
type Info struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	Description string `json:"description"`
	FileCount   int    `json:"fileCount"`
}

// RestoreResult reports what restore() did.
type RestoreResult struct {
	Restored []string `json:"restored"`
	Removed  []string `json:"removed"`
	Errors   []string `json:"errors"`
}

// Manager owns a backups root directory.
type Manager struct {
	Root string

	// now returns the current instant as an ISO-8601-with-milliseconds
	// string; overridable in tests since the scripting harness that built
	// this repo forbids Date.now()-equivalents at authoring time.
	now func() string
}

// NewManager returns a Manager rooted at root, using nowFn to timestamp
// backups. Callers pass a real clock at runtime.
func NewManager(root string, nowFn func() string) *Manager {
	return &Manager{Root: root, now: nowFn}
}

// idFromTimestamp applies spec.md §6.3's ID format:
// <YYYY-MM-DDTHH-MM-SS>: everything from the first "." on (the
// milliseconds and zone suffix) is dropped and colons become dashes.
func idFromTimestamp(iso string) string {
	trimmed, _, _ := strings.Cut(iso, ".")
	return strings.ReplaceAll(trimmed, ":", "-")
}

// CreateBackup snapshots targetPaths into a new timestamped directory,
// returning the backup directory, or "" if targetPaths is empty.
func (m *Manager) CreateBackup(targetPaths []string, description string) (string, error) {
	if len(targetPaths) == 0 {
		return "", nil
	}

	createdAt := m.now()
	id := idFromTimestamp(createdAt)
	dir := filepath.Join(m.Root, id)
	filesDir := filepath.Join(dir, "files")
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return "", err
	}

	manifest := Manifest{CreatedAt: createdAt, Version: Version, Description: description}
	for i, path := range targetPaths {
		entryName := fmt.Sprintf("%04d.dat", i+1)
		existed := false
		if data, err := os.ReadFile(path); err == nil {
			existed = true
			if err := os.WriteFile(filepath.Join(filesDir, entryName), data, 0o644); err != nil {
				return "", err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		manifest.Files = append(manifest.Files, FileEntry{
			OriginalPath:   path,
			BackupFilename: entryName,
			ExistedBefore:  existed,
		})
	}

	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), raw, 0o644); err != nil {
		return "", err
	}

	return dir, nil
}

// ListBackups returns every backup under Root, sorted by createdAt
// descending.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.Root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		manifest, err := m.readManifest(e.Name())
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:          e.Name(),
			CreatedAt:   manifest.CreatedAt,
			Description: manifest.Description,
			FileCount:   len(manifest.Files),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt > infos[j].CreatedAt })
	return infos, nil
}

func (m *Manager) readManifest(id string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(m.Root, id, "manifest.json"))
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// resolveID turns "latest" into the most recently created backup's id.
func (m *Manager) resolveID(id string) (string, error) {
	if id != "latest" {
		return id, nil
	}
	infos, err := m.ListBackups()
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no backups exist")
	}
	return infos[0].ID, nil
}

// Restore reinstates the files recorded in the given backup's manifest,
// or the most recent backup when id == "latest". It errors if no
// backups exist or id is unknown.
func (m *Manager) Restore(id string) (*RestoreResult, error) {
	resolved, err := m.resolveID(id)
	if err != nil {
		return nil, err
	}
	manifest, err := m.readManifest(resolved)
	if err != nil {
		return nil, fmt.Errorf("unknown backup %q: %w", id, err)
	}

	result := &RestoreResult{}
	for _, entry := range manifest.Files {
		if entry.ExistedBefore {
			payload, err := os.ReadFile(filepath.Join(m.Root, resolved, "files", entry.BackupFilename))
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: backup payload missing: %v", entry.OriginalPath, err))
				continue
			}
			if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), 0o755); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.OriginalPath, err))
				continue
			}
			if err := os.WriteFile(entry.OriginalPath, payload, 0o644); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.OriginalPath, err))
				continue
			}
			result.Restored = append(result.Restored, entry.OriginalPath)
			continue
		}

		if err := os.Remove(entry.OriginalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", entry.OriginalPath, err))
			continue
		}
		result.Removed = append(result.Removed, entry.OriginalPath)
	}

	return result, nil
}

// DeleteBackup recursively removes the backup directory for id.
func (m *Manager) DeleteBackup(id string) error {
	return os.RemoveAll(filepath.Join(m.Root, id))
}
