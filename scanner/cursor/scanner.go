// Package cursor implements the Cursor scanner of spec.md §4.1. The chat
// history subsystem (§4.4) lives in history.go since it has its own,
// much heavier, SQLite-backed contract.
package cursor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// skipSkillsDir is the top-level skills entry the Cursor skills scanner
// must exclude, per spec.md §4.1.
const skipSkillsDir = "skills-cursor"

// McpServerFile mirrors mcp.json's server entries (identical shape to
// Claude Code's, since Cursor adopted the same de-facto format).
type McpServerFile struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Auth    json.RawMessage   `json:"auth,omitempty"`
}

// McpFile mirrors the top-level mcp.json shape.
type McpFile struct {
	MCPServers map[string]McpServerFile `json:"mcpServers,omitempty"`
}

// RuleDoc is a parsed .mdc/.md rules file.
type RuleDoc struct {
	Path        string
	Name        string
	Frontmatter map[string]any
	Body        string
}

// MarkdownDoc mirrors an agent/command markdown file.
type MarkdownDoc struct {
	Path        string
	Name        string
	Frontmatter map[string]any
	Body        string
	Content     string
}

// Project is the raw per-project Cursor scan.
type Project struct {
	Path        string
	Mcp         *McpFile
	Rules       []RuleDoc
	Agents      []MarkdownDoc
	Commands    []MarkdownDoc
	Skills      []MarkdownDoc
	LegacyRules string // .cursorrules
	AgentsMD    string
}

// ScanResult is the raw, Cursor-shaped scan result.
type ScanResult struct {
	Mcp       *McpFile
	CLIConfig map[string]any
	Skills    []MarkdownDoc
	Commands  []MarkdownDoc
	Agents    []MarkdownDoc
	Projects  []Project
}

// Options configures a scan.
type Options struct {
	Env         pathresolver.Env
	Global      bool
	ProjectPath string
}

// Scan walks the well-known Cursor locations.
func Scan(opts Options) (*ScanResult, error) {
	result := &ScanResult{}

	if opts.Global {
		result.Mcp = readMcpFile(pathresolver.CursorGlobalMcpJSON(opts.Env))
		result.CLIConfig = readJSONMap(pathresolver.CursorGlobalCLIConfig(opts.Env))
		result.Skills = readSkillsDir(pathresolver.CursorGlobalSkillsDir(opts.Env))
		result.Commands = readMarkdownDocs(pathresolver.CursorGlobalCommandsDir(opts.Env))
		result.Agents = readMarkdownDocs(pathresolver.CursorGlobalAgentsDir(opts.Env))
	}

	if opts.ProjectPath != "" {
		p := Project{Path: opts.ProjectPath}
		p.Mcp = readMcpFile(pathresolver.CursorProjectMcpJSON(opts.ProjectPath))
		p.Rules = readRulesDir(pathresolver.CursorProjectRulesDir(opts.ProjectPath))
		p.Agents = readMarkdownDocs(pathresolver.CursorProjectAgentsDir(opts.ProjectPath))
		p.Commands = readMarkdownDocs(pathresolver.CursorProjectCommandsDir(opts.ProjectPath))
		p.Skills = readSkillsDir(pathresolver.CursorProjectSkillsDir(opts.ProjectPath))
		p.LegacyRules = readTextFile(pathresolver.CursorProjectLegacyRules(opts.ProjectPath))
		p.AgentsMD = readTextFile(pathresolver.CursorProjectAgentsMD(opts.ProjectPath))
		result.Projects = append(result.Projects, p)
	}

	return result, nil
}

func readMcpFile(path string) *McpFile {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var mf McpFile
	if json.Unmarshal(data, &mf) != nil {
		return nil
	}
	return &mf
}

func readJSONMap(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var m map[string]any
	if json.Unmarshal(data, &m) != nil {
		return nil
	}
	return m
}

func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func readRulesDir(dir string) []RuleDoc {
	var rules []RuleDoc
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".mdc") && !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		fm, body := codec.ParseFrontmatter(data)
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		rules = append(rules, RuleDoc{Path: path, Name: name, Frontmatter: fm, Body: body})
		return nil
	})
	return rules
}

func readMarkdownDocs(dir string) []MarkdownDoc {
	var docs []MarkdownDoc
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, body := codec.ParseFrontmatter(data)
		name, _ := fm["name"].(string)
		if name == "" {
			name = strings.TrimSuffix(e.Name(), ".md")
		}
		docs = append(docs, MarkdownDoc{Path: path, Name: name, Frontmatter: fm, Body: body, Content: string(data)})
	}
	return docs
}

func readSkillsDir(dir string) []MarkdownDoc {
	var skills []MarkdownDoc
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == skipSkillsDir {
			continue
		}
		skillPath := filepath.Join(dir, entry.Name(), "SKILL.md")
		data, err := os.ReadFile(skillPath)
		if err != nil {
			continue
		}
		fm, body := codec.ParseFrontmatter(data)
		name, _ := fm["name"].(string)
		if name == "" {
			name = entry.Name()
		}
		skills = append(skills, MarkdownDoc{Path: skillPath, Name: name, Frontmatter: fm, Body: body, Content: string(data)})
	}
	return skills
}
