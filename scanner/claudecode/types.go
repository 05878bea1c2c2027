// Package claudecode implements the Claude Code scanner of spec.md
// §4.1: it walks the well-known Claude Code locations and returns a
// format-specific ScanResult, never throwing on missing files.
package claudecode

import "encoding/json"

// Settings mirrors ~/.Claude/settings.json (and .claude/settings.local.json),
// a JSONC file.
type Settings struct {
	Model              string                   `json:"model,omitempty"`
	Permissions        *PermissionsBlock        `json:"permissions,omitempty"`
	Env                map[string]string        `json:"env,omitempty"`
	AutoUpdatesChannel string                   `json:"autoUpdatesChannel,omitempty"`

	// MCPServers is only ever populated on settings.local.json; the
	// global settings.json never carries it (spec.md §4.2 step 2 lists
	// settings.local.json as the third mcpServers merge source).
	MCPServers map[string]McpServerFile `json:"mcpServers,omitempty"`

	// Fields with no canonical counterpart: preserved verbatim into
	// extraSettings by the mapper (spec.md §4.2).
	TeammateMode json.RawMessage `json:"teammateMode,omitempty"`
	Hooks        json.RawMessage `json:"hooks,omitempty"`
	Sandbox      json.RawMessage `json:"sandbox,omitempty"`
	APIKeyHelper json.RawMessage `json:"apiKeyHelper,omitempty"`
	OutputStyle  json.RawMessage `json:"outputStyle,omitempty"`
}

// PermissionsBlock mirrors the Claude Code settings.json "permissions" object.
type PermissionsBlock struct {
	Allow        []string `json:"allow,omitempty"`
	Deny         []string `json:"deny,omitempty"`
	Ask          []string `json:"ask,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	DefaultMode  string   `json:"defaultMode,omitempty"`
}

// McpServerFile mirrors .mcp.json / managed-mcp.json's mcpServers entries.
type McpServerFile struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// McpFile mirrors the top-level shape of .mcp.json.
type McpFile struct {
	MCPServers map[string]McpServerFile `json:"mcpServers,omitempty"`
}

// UserState mirrors the relevant parts of ~/.claude.json: per-project
// overrides keyed by absolute project path.
type UserState struct {
	Projects map[string]UserStateProject `json:"projects,omitempty"`
}

// UserStateProject is one entry of ~/.claude.json's "projects" map.
type UserStateProject struct {
	MCPServers      map[string]McpServerFile `json:"mcpServers,omitempty"`
	DisabledServers []string                 `json:"disabledMcpjsonServers,omitempty"`
	EnabledServers  []string                 `json:"enabledMcpjsonServers,omitempty"`
	IgnorePatterns  []string                 `json:"ignorePatterns,omitempty"`
}

// MarkdownDoc is a parsed agent/command/skill Markdown file: frontmatter
// plus body, the shape spec.md §3.6/§3.7 describe.
type MarkdownDoc struct {
	Path        string
	Name        string
	Frontmatter map[string]any
	Body        string
	Content     string
}

// SkillDoc is a SKILL.md, plus symlink metadata for dedup (spec.md §3.7).
type SkillDoc struct {
	MarkdownDoc
	IsSymlink     bool
	SymlinkTarget string
	RealPath      string
}

// Project is the raw per-project scan: its own .mcp.json, settings.local.json,
// agents/commands/skills directories, and rules files.
type Project struct {
	Path             string
	Mcp              *McpFile
	SettingsLocal    *Settings
	Agents           []MarkdownDoc
	Commands         []MarkdownDoc
	Skills           []SkillDoc
	ClaudeMD         string
	AgentsMD         string
	UserStateProject *UserStateProject
}

// ScanResult is the raw, Claude-Code-shaped scan result (spec.md §4.1),
// not yet projected onto the canonical IR — that's mapper/claudecode's job.
type ScanResult struct {
	Settings      *Settings
	UserState     *UserState
	GlobalSkills  []SkillDoc
	GlobalRulesMD string
	Projects      []Project
	History       *HistoryResult
}

// HistoryResult is the raw output of scanHistory (spec.md §4.1's optional
// history scan).
type HistoryResult struct {
	FlatHistoryJSONL []json.RawMessage
	Sessions         []RawSession
}

// RawSession is one Claude Code session transcript: its project directory
// (after un-mangling) and its raw JSONL lines.
type RawSession struct {
	SessionID   string
	ProjectPath string
	Lines       []json.RawMessage
}
