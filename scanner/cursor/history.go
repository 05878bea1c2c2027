package cursor

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/grokify/aiassistbridge/canon"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// quickCountThreshold is the 50MB cutoff of spec.md §4.4 step 2 below
// which the composer metadata blob is parsed in full rather than
// estimated.
const quickCountThreshold = 50 * 1024 * 1024

// estimateBytesPerComposer is the average metadata-record size used for
// the length/400 estimate above the threshold.
const estimateBytesPerComposer = 400

// composerBatchSize bounds peak memory per spec.md §4.4 step 4.
const composerBatchSize = 100

// ProgressPhase is the phase of a HistoryProgress event.
type ProgressPhase string

const (
	PhaseScanning ProgressPhase = "scanning"
	PhaseComplete ProgressPhase = "complete"
)

// ProgressEvent mirrors spec.md §4.4's progress contract.
type ProgressEvent struct {
	Phase          ProgressPhase
	Workspace      string
	WorkspaceIndex int
	WorkspaceCount int
	SessionsFound  int
}

// ProgressFunc receives ProgressEvent callbacks during a history scan.
type ProgressFunc func(ProgressEvent)

// CursorHistoryMessage is one bubble, projected from cursorDiskKV.
type CursorHistoryMessage struct {
	Role           canon.MessageRole
	Text           string
	ThinkingBlocks []string
	ToolResults    []string
	CreatedAt      int64
}

// CursorHistorySession is one composer, fully materialized.
type CursorHistorySession struct {
	ComposerID    string
	WorkspacePath string
	CreatedAt     int64
	UpdatedAt     int64
	Messages      []CursorHistoryMessage
}

// HistoryOptions configures a Cursor chat-history scan.
type HistoryOptions struct {
	Env      pathresolver.Env
	Since    *time.Time
	Progress ProgressFunc
}

type workspaceManifest struct {
	Folder string `json:"folder"`
}

type composerMetaEntry struct {
	ComposerID    string `json:"composerId"`
	CreatedAt     int64  `json:"createdAt"`
	LastUpdatedAt int64  `json:"lastUpdatedAt"`
	IsArchived    bool   `json:"isArchived"`
}

type composerMetaFile struct {
	AllComposers []composerMetaEntry `json:"allComposers"`
}

type bubbleHeader struct {
	BubbleID string `json:"bubbleId"`
	Type     int    `json:"type"` // 1=user, 2=assistant
}

type composerDataFile struct {
	FullConversationHeadersOnly []bubbleHeader `json:"fullConversationHeadersOnly"`
}

type thinkingBlock struct {
	Thinking string `json:"thinking"`
}

type toolResultEntry struct {
	Content string `json:"content"`
}

type bubbleDataFile struct {
	Text           string            `json:"text"`
	ThinkingBlocks []thinkingBlock   `json:"thinkingBlocks"`
	ToolResults    []toolResultEntry `json:"toolResults"`
	CreatedAt      int64             `json:"createdAt"`
}

// isNonFatalSQLiteErr reports whether err is one of the two non-fatal
// kinds named by spec.md §4.4 step 5.
func isNonFatalSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cannot open") || strings.Contains(msg, "no such table")
}

// folderURIToPath decodes workspace.json's "folder" field (a file://
// URI) into a filesystem path.
func folderURIToPath(folder string) string {
	if folder == "" {
		return ""
	}
	u, err := url.Parse(folder)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return u.Path
}

// ScanHistory implements the Cursor chat-history protocol of spec.md
// §4.4: enumerate workspaces, quick-count composers, then fetch and
// project the non-archived, in-window ones in batches of 100.
func ScanHistory(opts HistoryOptions) ([]CursorHistorySession, error) {
	progress := opts.Progress
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	var sessions []CursorHistorySession
	workspaceDirs, err := listWorkspaceDirs(opts.Env)
	if err != nil {
		return nil, err
	}

	globalDBPath := pathresolver.CursorGlobalStorageDB(opts.Env)
	globalDB, err := sql.Open("sqlite", globalDBPath)
	if err != nil {
		if isNonFatalSQLiteErr(err) {
			progress(ProgressEvent{Phase: PhaseComplete})
			return sessions, nil
		}
		return nil, err
	}
	defer globalDB.Close()

	total := 0
	for i, hash := range workspaceDirs {
		progress(ProgressEvent{
			Phase:          PhaseScanning,
			Workspace:      hash,
			WorkspaceIndex: i,
			WorkspaceCount: len(workspaceDirs),
			SessionsFound:  total,
		})

		manifestPath := pathresolver.CursorWorkspaceManifest(opts.Env, hash)
		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue
		}
		var manifest workspaceManifest
		if json.Unmarshal(manifestData, &manifest) != nil {
			continue
		}
		projectPath := folderURIToPath(manifest.Folder)
		if projectPath == "" {
			continue
		}

		dbPath := pathresolver.CursorWorkspaceDB(opts.Env, hash)
		if _, err := os.Stat(dbPath); err != nil {
			continue
		}

		found, err := scanWorkspace(globalDB, dbPath, projectPath, opts.Since)
		if err != nil && !isNonFatalSQLiteErr(err) {
			return sessions, err
		}
		sessions = append(sessions, found...)
		total += len(found)
	}

	progress(ProgressEvent{
		Phase:          PhaseComplete,
		WorkspaceCount: len(workspaceDirs),
		SessionsFound:  total,
	})
	return sessions, nil
}

func listWorkspaceDirs(env pathresolver.Env) ([]string, error) {
	dir := pathresolver.CursorWorkspaceStorageDir(env)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	var hashes []string
	for _, e := range entries {
		if e.IsDir() {
			hashes = append(hashes, e.Name())
		}
	}
	sort.Strings(hashes)
	return hashes, nil
}

// scanWorkspace opens the per-workspace DB, quick-counts then fully
// parses composer metadata, and fetches each live composer's bubbles
// from the already-open global DB.
func scanWorkspace(globalDB *sql.DB, workspaceDBPath, projectPath string, since *time.Time) ([]CursorHistorySession, error) {
	wsDB, err := sql.Open("sqlite", workspaceDBPath)
	if err != nil {
		return nil, err
	}
	defer wsDB.Close()

	raw, err := readItemValue(wsDB, "composer.composerData")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	// quickCount mirrors spec.md §4.4 step 2: under the threshold we get
	// an exact count for free by parsing now; above it we only get an
	// estimate, and pay for the real parse below regardless, since
	// fetching composer bodies needs the actual id list either way.
	var quickCount int
	var meta composerMetaFile
	if len(raw) < quickCountThreshold {
		if json.Unmarshal([]byte(raw), &meta) != nil {
			return nil, nil
		}
		quickCount = len(meta.AllComposers)
	} else {
		quickCount = estimateComposerCount(len(raw))
		if json.Unmarshal([]byte(raw), &meta) != nil {
			return nil, nil
		}
	}
	_ = quickCount // not reported; progress events count fetched sessions instead

	return processComposers(globalDB, meta.AllComposers, projectPath, since)
}

// estimateComposerCount implements spec.md §4.4 step 2's length/400
// fallback for composer blobs too large to parse eagerly.
func estimateComposerCount(byteLen int) int {
	return byteLen / estimateBytesPerComposer
}

func processComposers(globalDB *sql.DB, all []composerMetaEntry, projectPath string, since *time.Time) ([]CursorHistorySession, error) {
	var live []composerMetaEntry
	for _, c := range all {
		if c.IsArchived {
			continue
		}
		if since != nil && c.LastUpdatedAt < since.UnixMilli() {
			continue
		}
		live = append(live, c)
	}

	var sessions []CursorHistorySession
	for start := 0; start < len(live); start += composerBatchSize {
		end := start + composerBatchSize
		if end > len(live) {
			end = len(live)
		}
		for _, c := range live[start:end] {
			sess, err := fetchComposer(globalDB, c, projectPath)
			if err != nil {
				if isNonFatalSQLiteErr(err) {
					continue
				}
				return sessions, err
			}
			if sess != nil {
				sessions = append(sessions, *sess)
			}
		}
	}
	return sessions, nil
}

func fetchComposer(globalDB *sql.DB, meta composerMetaEntry, projectPath string) (*CursorHistorySession, error) {
	raw, err := readDiskKVValue(globalDB, fmt.Sprintf("composerData:%s", meta.ComposerID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var data composerDataFile
	if json.Unmarshal([]byte(raw), &data) != nil {
		return nil, nil
	}

	sess := &CursorHistorySession{
		ComposerID:    meta.ComposerID,
		WorkspacePath: projectPath,
		CreatedAt:     meta.CreatedAt,
		UpdatedAt:     meta.LastUpdatedAt,
	}

	for _, h := range data.FullConversationHeadersOnly {
		bubbleKey := fmt.Sprintf("bubbleId:%s:%s", meta.ComposerID, h.BubbleID)
		bubbleRaw, err := readDiskKVValue(globalDB, bubbleKey)
		if err != nil {
			if isNonFatalSQLiteErr(err) {
				continue
			}
			return sess, err
		}
		if bubbleRaw == "" {
			continue
		}
		var bd bubbleDataFile
		if json.Unmarshal([]byte(bubbleRaw), &bd) != nil {
			continue
		}

		role := canon.RoleUser
		if h.Type == 2 {
			role = canon.RoleAssistant
		}
		msg := CursorHistoryMessage{Role: role, Text: bd.Text, CreatedAt: bd.CreatedAt}
		for _, tb := range bd.ThinkingBlocks {
			if tb.Thinking != "" {
				msg.ThinkingBlocks = append(msg.ThinkingBlocks, tb.Thinking)
			}
		}
		for _, tr := range bd.ToolResults {
			if tr.Content != "" {
				msg.ToolResults = append(msg.ToolResults, tr.Content)
			}
		}
		sess.Messages = append(sess.Messages, msg)
	}

	return sess, nil
}

func readItemValue(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM ItemTable WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return normalizeSQLiteValue(value), nil
}

func readDiskKVValue(db *sql.DB, key string) (string, error) {
	var value []byte
	err := db.QueryRow(`SELECT value FROM cursorDiskKV WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return normalizeSQLiteValue(string(value)), nil
}

// normalizeSQLiteValue implements spec.md §6.2's "normalize BLOB bytes
// via UTF-8 before parse" rule: invalid UTF-8 byte sequences are
// dropped, and valid text passes through unchanged.
func normalizeSQLiteValue(v string) string {
	return strings.ToValidUTF8(v, "")
}
