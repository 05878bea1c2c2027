package claudecode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// sessionsIndex mirrors sessions-index.json: a list of session entries,
// each optionally carrying an originalPath override for the mangled
// project directory name (spec.md §4.1).
type sessionsIndex struct {
	Sessions []sessionIndexEntry `json:"sessions"`
}

type sessionIndexEntry struct {
	SessionID    string `json:"sessionId"`
	OriginalPath string `json:"originalPath,omitempty"`
}

// unmangle reverses the "/" -> "-" project-path mangling rule (spec.md
// §4.1, §9). This is lossy in general (a path containing a literal "-"
// is ambiguous), so callers should prefer originalPath when present.
func unmangle(mangled string) string {
	return "/" + strings.ReplaceAll(strings.TrimPrefix(mangled, "-"), "-", "/")
}

// scanHistory reads ~/.Claude/history.jsonl and every
// ~/.Claude/projects/<mangled>/sessions-index.json + session JSONL file.
func scanHistory(env pathresolver.Env) *HistoryResult {
	result := &HistoryResult{}

	if data, err := os.ReadFile(pathresolver.ClaudeGlobalHistoryJSONL(env)); err == nil {
		_ = codec.ReadJSONL(data, func(line []byte) error {
			result.FlatHistoryJSONL = append(result.FlatHistoryJSONL, json.RawMessage(append([]byte(nil), line...)))
			return nil
		})
	}

	projectsDir := pathresolver.ClaudeProjectsDir(env)
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return result
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mangled := entry.Name()
		indexPath := pathresolver.ClaudeProjectSessionsIndex(env, mangled)
		indexData, err := os.ReadFile(indexPath)
		if err != nil {
			continue
		}
		var idx sessionsIndex
		if json.Unmarshal(indexData, &idx) != nil {
			continue
		}

		projectDir := filepath.Dir(indexPath)
		for _, sess := range idx.Sessions {
			projectPath := unmangle(mangled)
			if sess.OriginalPath != "" {
				projectPath = sess.OriginalPath
			}
			jsonlPath := filepath.Join(projectDir, sess.SessionID+".jsonl")
			data, err := os.ReadFile(jsonlPath)
			if err != nil {
				continue
			}
			raw := RawSession{SessionID: sess.SessionID, ProjectPath: projectPath}
			_ = codec.ReadJSONL(data, func(line []byte) error {
				raw.Lines = append(raw.Lines, json.RawMessage(append([]byte(nil), line...)))
				return nil
			})
			result.Sessions = append(result.Sessions, raw)
		}
	}

	return result
}
