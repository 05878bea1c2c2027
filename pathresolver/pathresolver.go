// Package pathresolver provides the pure, stateless path-location
// functions named in spec.md §6.1/§6.5. Every function takes its
// environment (HOME, XDG_*, APPDATA, GOOS) as explicit arguments rather
// than reading globals directly, so callers can resolve paths for a
// platform other than the one they run on, and so tests don't need to
// mutate process environment (spec.md §9: "env reads are pure function
// inputs; treat them as arguments to the path resolver").
package pathresolver

import "path/filepath"

// Env is the subset of process environment the resolver consults
// (spec.md §6.5). GOOS selects the platform-specific Cursor storage root.
type Env struct {
	Home          string
	XDGConfigHome string
	XDGDataHome   string
	XDGStateHome  string
	AppData       string
	GOOS          string
}

func (e Env) xdgConfigHome() string {
	if e.XDGConfigHome != "" {
		return e.XDGConfigHome
	}
	return filepath.Join(e.Home, ".config")
}

func (e Env) xdgDataHome() string {
	if e.XDGDataHome != "" {
		return e.XDGDataHome
	}
	return filepath.Join(e.Home, ".local", "share")
}

func (e Env) xdgStateHome() string {
	if e.XDGStateHome != "" {
		return e.XDGStateHome
	}
	return filepath.Join(e.Home, ".local", "state")
}

// --- Claude Code ---

func ClaudeGlobalSettingsJSON(e Env) string { return filepath.Join(e.Home, ".Claude", "settings.json") }
func ClaudeUserStateJSON(e Env) string      { return filepath.Join(e.Home, ".claude.json") }
func ClaudeGlobalSkillsDir(e Env) string    { return filepath.Join(e.Home, ".Claude", "skills") }
func ClaudeAgentsSkillsDir(e Env) string    { return filepath.Join(e.Home, ".agents", "skills") }
func ClaudeGlobalRulesFile(e Env) string    { return filepath.Join(e.Home, ".claude", "CLAUDE.md") }
func ClaudeGlobalHistoryJSONL(e Env) string { return filepath.Join(e.Home, ".Claude", "history.jsonl") }
func ClaudeProjectsDir(e Env) string        { return filepath.Join(e.Home, ".Claude", "projects") }

// ClaudeProjectSessionsIndex returns the sessions-index.json path for a
// mangled project directory name.
func ClaudeProjectSessionsIndex(e Env, mangled string) string {
	return filepath.Join(ClaudeProjectsDir(e), mangled, "sessions-index.json")
}

// ClaudeMangleProjectPath applies the mangling rule from spec.md §4.1:
// "/" -> "-".
func ClaudeMangleProjectPath(projectPath string) string {
	out := make([]byte, 0, len(projectPath))
	for i := 0; i < len(projectPath); i++ {
		if projectPath[i] == '/' {
			out = append(out, '-')
		} else {
			out = append(out, projectPath[i])
		}
	}
	return string(out)
}

func ClaudeProjectMcpJSON(project string) string          { return filepath.Join(project, ".mcp.json") }
func ClaudeProjectSettingsLocalJSON(project string) string {
	return filepath.Join(project, ".claude", "settings.local.json")
}
func ClaudeProjectAgentsDir(project string) string   { return filepath.Join(project, ".claude", "agents") }
func ClaudeProjectCommandsDir(project string) string { return filepath.Join(project, ".claude", "commands") }
func ClaudeProjectSkillsDir(project string) string   { return filepath.Join(project, ".claude", "skills") }
func ClaudeProjectRulesFile(project string) string   { return filepath.Join(project, "CLAUDE.md") }
func ClaudeProjectAgentsMD(project string) string    { return filepath.Join(project, "AGENTS.md") }

// --- OpenCode ---

func OpenCodeGlobalConfigJSON(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "opencode.json")
}
func OpenCodeGlobalAgentsMD(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "AGENTS.md")
}
func OpenCodeGlobalAgentsDir(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "agents")
}
func OpenCodeGlobalCommandsDir(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "commands")
}
func OpenCodeGlobalSkillsDir(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "skills")
}
func OpenCodeGlobalPluginsDir(e Env) string {
	return filepath.Join(e.xdgConfigHome(), "opencode", "plugins")
}
func OpenCodeDataDB(e Env) string {
	return filepath.Join(e.xdgDataHome(), "opencode", "opencode.db")
}
func OpenCodeDataStorageDir(e Env) string {
	return filepath.Join(e.xdgDataHome(), "opencode", "storage")
}
func OpenCodePromptHistoryJSONL(e Env) string {
	return filepath.Join(e.xdgStateHome(), "opencode", "prompt-history.jsonl")
}

func OpenCodeProjectConfigJSON(project string) string { return filepath.Join(project, "opencode.json") }
func OpenCodeProjectAgentsMD(project string) string   { return filepath.Join(project, "AGENTS.md") }
func OpenCodeProjectDir(project string) string        { return filepath.Join(project, ".opencode") }
func OpenCodeProjectAgentsDir(project string) string {
	return filepath.Join(OpenCodeProjectDir(project), "agents")
}
func OpenCodeProjectCommandsDir(project string) string {
	return filepath.Join(OpenCodeProjectDir(project), "commands")
}
func OpenCodeProjectSkillsDir(project string) string {
	return filepath.Join(OpenCodeProjectDir(project), "skills")
}

// --- Cursor ---

func CursorGlobalDir(e Env) string       { return filepath.Join(e.Home, ".cursor") }
func CursorGlobalMcpJSON(e Env) string   { return filepath.Join(CursorGlobalDir(e), "mcp.json") }
func CursorGlobalCLIConfig(e Env) string { return filepath.Join(CursorGlobalDir(e), "cli-config.json") }
func CursorGlobalSkillsDir(e Env) string { return filepath.Join(CursorGlobalDir(e), "skills") }
func CursorGlobalCommandsDir(e Env) string {
	return filepath.Join(CursorGlobalDir(e), "commands")
}
func CursorGlobalAgentsDir(e Env) string { return filepath.Join(CursorGlobalDir(e), "agents") }

func CursorProjectDir(project string) string      { return filepath.Join(project, ".cursor") }
func CursorProjectMcpJSON(project string) string  { return filepath.Join(CursorProjectDir(project), "mcp.json") }
func CursorProjectRulesDir(project string) string { return filepath.Join(CursorProjectDir(project), "rules") }
func CursorProjectAgentsDir(project string) string {
	return filepath.Join(CursorProjectDir(project), "agents")
}
func CursorProjectCommandsDir(project string) string {
	return filepath.Join(CursorProjectDir(project), "commands")
}
func CursorProjectSkillsDir(project string) string {
	return filepath.Join(CursorProjectDir(project), "skills")
}
func CursorProjectLegacyRules(project string) string { return filepath.Join(project, ".cursorrules") }
func CursorProjectAgentsMD(project string) string    { return filepath.Join(project, "AGENTS.md") }

// CursorStorageRoot returns the platform-specific root holding
// workspaceStorage/ and globalStorage/ (spec.md §6.1).
func CursorStorageRoot(e Env) string {
	switch e.GOOS {
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", "Cursor", "User")
	case "windows":
		return filepath.Join(e.AppData, "Cursor", "User")
	default: // linux and everything else
		return filepath.Join(e.xdgConfigHome(), "Cursor", "User")
	}
}

func CursorWorkspaceStorageDir(e Env) string {
	return filepath.Join(CursorStorageRoot(e), "workspaceStorage")
}

func CursorGlobalStorageDB(e Env) string {
	return filepath.Join(CursorStorageRoot(e), "globalStorage", "state.vscdb")
}

func CursorWorkspaceManifest(e Env, workspaceHash string) string {
	return filepath.Join(CursorWorkspaceStorageDir(e), workspaceHash, "workspace.json")
}

func CursorWorkspaceDB(e Env, workspaceHash string) string {
	return filepath.Join(CursorWorkspaceStorageDir(e), workspaceHash, "state.vscdb")
}

// --- Backups ---

// BackupsDir returns the root directory under which timestamped backup
// snapshots are stored for a given config root (spec.md §4.10).
func BackupsDir(configRoot string) string {
	return filepath.Join(configRoot, "backups")
}
