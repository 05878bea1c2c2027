// Package opencode implements the OpenCode scanner of spec.md §4.1.
package opencode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// Config mirrors opencode.json (JSONC). Permissions pass through
// unchanged per spec.md §4.2 ("OpenCode's permission format is the
// canonical form"), so it is represented directly with map[string]any.
type Config struct {
	Schema     string              `json:"$schema,omitempty"`
	Model      string              `json:"model,omitempty"`
	SmallModel string              `json:"small_model,omitempty"`
	Provider   map[string]any      `json:"provider,omitempty"`
	MCP        map[string]McpEntry `json:"mcp,omitempty"`
	Permission map[string]any      `json:"permission,omitempty"`
	Env        map[string]string   `json:"env,omitempty"`
	Autoupdate *bool               `json:"autoupdate,omitempty"`
	Extra      map[string]any      `json:"-"`
}

// McpEntry mirrors one entry of opencode.json's "mcp" map.
type McpEntry struct {
	Type        string            `json:"type"` // "local" | "remote"
	Command     []string          `json:"command,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	URL         string            `json:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	OAuth       json.RawMessage   `json:"oauth,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
}

// MarkdownDoc mirrors claudecode.MarkdownDoc; duplicated (not shared) so
// each scanner package stays self-contained per spec.md's per-format
// scanner boundary.
type MarkdownDoc struct {
	Path        string
	Name        string
	Frontmatter map[string]any
	Body        string
	Content     string
}

// Project is the raw per-project OpenCode scan.
type Project struct {
	Path     string
	Config   *Config
	AgentsMD string
	Agents   []MarkdownDoc
	Commands []MarkdownDoc
	Skills   []MarkdownDoc
}

// ScanResult is the raw, OpenCode-shaped scan result.
type ScanResult struct {
	Config   *Config
	AgentsMD string
	Agents   []MarkdownDoc
	Commands []MarkdownDoc
	Skills   []MarkdownDoc
	Projects []Project
}

// Options configures a scan.
type Options struct {
	Env         pathresolver.Env
	Global      bool
	ProjectPath string
}

// Scan walks the well-known OpenCode locations.
func Scan(opts Options) (*ScanResult, error) {
	result := &ScanResult{}

	if opts.Global {
		result.Config = readConfigJSONC(pathresolver.OpenCodeGlobalConfigJSON(opts.Env))
		result.AgentsMD = readTextFile(pathresolver.OpenCodeGlobalAgentsMD(opts.Env))
		result.Agents = readMarkdownDocs(pathresolver.OpenCodeGlobalAgentsDir(opts.Env))
		result.Commands = readMarkdownDocs(pathresolver.OpenCodeGlobalCommandsDir(opts.Env))
		result.Skills = readSkillsDir(pathresolver.OpenCodeGlobalSkillsDir(opts.Env))
	}

	if opts.ProjectPath != "" {
		p := Project{Path: opts.ProjectPath}
		p.Config = readConfigJSONC(pathresolver.OpenCodeProjectConfigJSON(opts.ProjectPath))
		p.AgentsMD = readTextFile(pathresolver.OpenCodeProjectAgentsMD(opts.ProjectPath))
		p.Agents = readMarkdownDocs(pathresolver.OpenCodeProjectAgentsDir(opts.ProjectPath))
		p.Commands = readMarkdownDocs(pathresolver.OpenCodeProjectCommandsDir(opts.ProjectPath))
		p.Skills = readSkillsDir(pathresolver.OpenCodeProjectSkillsDir(opts.ProjectPath))
		result.Projects = append(result.Projects, p)
	}

	return result, nil
}

func readConfigJSONC(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Config
	if codec.UnmarshalJSONC(data, &c) != nil {
		return nil
	}
	_ = codec.UnmarshalJSONC(data, &c.Extra)
	return &c
}

func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
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
		if !entry.IsDir() {
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
