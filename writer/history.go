package writer

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/grokify/aiassistbridge/canon"
)

// HistoryMode selects how converted chat sessions are persisted
// (spec.md §4.9): SQLite is the v1.2+ default, FlatFile is the legacy
// mode kept for formats/tools that still read one JSON file per session.
type HistoryMode string

const (
	HistorySQLite   HistoryMode = "sqlite"
	HistoryFlatFile HistoryMode = "flat-file"
)

// HistoryOptions configures where converted sessions land. Exactly one
// of DBPath (SQLite mode) or Dir (flat-file mode) is consulted, per Mode.
type HistoryOptions struct {
	Mode   HistoryMode
	DBPath string
	Dir    string
}

// writeHistory applies spec.md §4.9's dedup invariant: before writing any
// session, collect already-present session ids and skip any converted
// session whose id is already present.
func writeHistory(out *Result, opts Options, result *canon.ConversionResult) {
	mode := opts.History.Mode
	if mode == "" {
		mode = HistorySQLite
	}

	opts.progress(PhaseDedupCheck, "")

	var existing map[string]bool
	var err error
	switch mode {
	case HistorySQLite:
		existing, err = existingSessionIDsSQLite(opts.History.DBPath)
	default:
		existing, err = existingSessionIDsFlatFile(opts.History.Dir)
	}
	if err != nil {
		existing = map[string]bool{}
	}

	var fresh []canon.ConvertedSession
	for _, s := range result.Sessions {
		if existing[s.Session.ID] {
			continue
		}
		fresh = append(fresh, s)
	}

	if opts.DryRun {
		for _, s := range fresh {
			out.FilesWritten = append(out.FilesWritten, "history:"+s.Session.ID)
		}
		return
	}

	opts.progress(PhaseWriting, "history")

	switch mode {
	case HistorySQLite:
		if err := writeSessionsSQLite(opts.History.DBPath, fresh); err != nil {
			for _, s := range fresh {
				out.FilesSkipped = append(out.FilesSkipped, "history:"+s.Session.ID)
			}
			return
		}
	default:
		writeSessionsFlatFile(out, opts.History.Dir, fresh)
		return
	}

	for _, s := range fresh {
		out.FilesWritten = append(out.FilesWritten, "history:"+s.Session.ID)
	}
}

func existingSessionIDsFlatFile(dir string) (map[string]bool, error) {
	ids := map[string]bool{}
	projectDirs, err := os.ReadDir(dir)
	if err != nil {
		return ids, nil
	}
	for _, pd := range projectDirs {
		if !pd.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, pd.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			ids[trimJSONExt(f.Name())] = true
		}
	}
	return ids, nil
}

func trimJSONExt(name string) string {
	if ext := filepath.Ext(name); ext == ".json" {
		return name[:len(name)-len(ext)]
	}
	return name
}

func writeSessionsFlatFile(out *Result, dir string, sessions []canon.ConvertedSession) {
	for _, s := range sessions {
		target := filepath.Join(dir, s.ProjectID, s.Session.ID+".json")
		raw, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			out.FilesSkipped = append(out.FilesSkipped, "history:"+s.Session.ID)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			out.FilesSkipped = append(out.FilesSkipped, "history:"+s.Session.ID)
			continue
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			out.FilesSkipped = append(out.FilesSkipped, "history:"+s.Session.ID)
			continue
		}
		out.FilesWritten = append(out.FilesWritten, target)
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	slug TEXT,
	title TEXT,
	version TEXT,
	directory TEXT,
	summary TEXT,
	created_at INTEGER,
	updated_at INTEGER
);
CREATE TABLE IF NOT EXISTS message (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at INTEGER,
	updated_at INTEGER
);
CREATE TABLE IF NOT EXISTS part (
	id TEXT PRIMARY KEY,
	message_id TEXT NOT NULL,
	type TEXT NOT NULL,
	content TEXT
);
`

func existingSessionIDsSQLite(dbPath string) (map[string]bool, error) {
	ids := map[string]bool{}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return ids, err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return ids, err
	}

	rows, err := db.Query(`SELECT id FROM session`)
	if err != nil {
		return ids, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			ids[id] = true
		}
	}
	return ids, rows.Err()
}

func writeSessionsSQLite(dbPath string, sessions []canon.ConvertedSession) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	for _, s := range sessions {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO session (id, project_id, slug, title, version, directory, summary, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Session.ID, s.Session.ProjectID, s.Session.Slug, s.Session.Title, s.Session.Version,
			s.Session.Directory, s.Session.Summary, s.Session.Time.Created, s.Session.Time.Updated,
		); err != nil {
			tx.Rollback()
			return err
		}

		for _, m := range s.Messages {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO message (id, session_id, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
				m.ID, m.SessionID, string(m.Role), m.Time.Created, m.Time.Updated,
			); err != nil {
				tx.Rollback()
				return err
			}
			for _, p := range m.Parts {
				if _, err := tx.Exec(
					`INSERT OR REPLACE INTO part (id, message_id, type, content) VALUES (?, ?, ?, ?)`,
					p.ID, p.MessageID, string(p.Type), p.Content,
				); err != nil {
					tx.Rollback()
					return err
				}
			}
		}
	}

	return tx.Commit()
}
