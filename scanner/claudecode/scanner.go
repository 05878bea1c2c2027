package claudecode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/grokify/aiassistbridge/codec"
	"github.com/grokify/aiassistbridge/pathresolver"
)

// Options configures a scan (spec.md §6.4's scanFormat options).
type Options struct {
	Env             pathresolver.Env
	Global          bool
	ProjectPath     string // empty = skip project scan
	IncludeHistory  bool
}

// Scan walks the well-known Claude Code locations and returns a
// format-specific ScanResult. Missing files/dirs are never an error
// (spec.md §4.1's scanner contract); unreadable JSON yields a nil field.
func Scan(opts Options) (*ScanResult, error) {
	result := &ScanResult{}

	if opts.Global {
		result.Settings = readSettingsJSONC(pathresolver.ClaudeGlobalSettingsJSON(opts.Env))
		result.UserState = readUserState(pathresolver.ClaudeUserStateJSON(opts.Env))
		result.GlobalSkills = append(
			readSkillsDir(pathresolver.ClaudeGlobalSkillsDir(opts.Env)),
			readSkillsDir(pathresolver.ClaudeAgentsSkillsDir(opts.Env))...,
		)
		result.GlobalRulesMD = readTextFile(pathresolver.ClaudeGlobalRulesFile(opts.Env))

		if opts.IncludeHistory {
			result.History = scanHistory(opts.Env)
		}
	}

	if opts.ProjectPath != "" {
		result.Projects = append(result.Projects, scanProject(opts.ProjectPath, result.UserState))
	}

	return result, nil
}

func scanProject(project string, userState *UserState) Project {
	p := Project{Path: project}

	if mcpData, err := os.ReadFile(pathresolver.ClaudeProjectMcpJSON(project)); err == nil {
		var mf McpFile
		if json.Unmarshal(mcpData, &mf) == nil {
			p.Mcp = &mf
		}
	}

	p.SettingsLocal = readSettingsJSONC(pathresolver.ClaudeProjectSettingsLocalJSON(project))
	p.Agents = readMarkdownDocs(pathresolver.ClaudeProjectAgentsDir(project))
	p.Commands = readMarkdownDocs(pathresolver.ClaudeProjectCommandsDir(project))
	p.Skills = readSkillsDir(pathresolver.ClaudeProjectSkillsDir(project))
	p.ClaudeMD = readTextFile(pathresolver.ClaudeProjectRulesFile(project))
	p.AgentsMD = readTextFile(pathresolver.ClaudeProjectAgentsMD(project))

	if userState != nil {
		if entry, ok := userState.Projects[project]; ok {
			e := entry
			p.UserStateProject = &e
		}
	}

	return p
}

func readSettingsJSONC(path string) *Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var s Settings
	if err := codec.UnmarshalJSONC(data, &s); err != nil {
		return nil
	}
	return &s
}

func readUserState(path string) *UserState {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var u UserState
	if json.Unmarshal(data, &u) != nil {
		return nil
	}
	return &u
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
	_ = filepath.WalkDir(dir, walkMarkdown(&docs))
	return docs
}

func readSkillsDir(dir string) []SkillDoc {
	var skills []SkillDoc
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

		info, lerr := os.Lstat(filepath.Join(dir, entry.Name()))
		isSymlink := lerr == nil && info.Mode()&os.ModeSymlink != 0
		realPath, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			realPath = filepath.Join(dir, entry.Name())
		}
		var symlinkTarget string
		if isSymlink {
			if target, err := os.Readlink(filepath.Join(dir, entry.Name())); err == nil {
				symlinkTarget = target
			}
		}

		skills = append(skills, SkillDoc{
			MarkdownDoc: MarkdownDoc{
				Path:        skillPath,
				Name:        name,
				Frontmatter: fm,
				Body:        body,
				Content:     string(data),
			},
			IsSymlink:     isSymlink,
			SymlinkTarget: symlinkTarget,
			RealPath:      realPath,
		})
	}
	return skills
}

func walkMarkdown(docs *[]MarkdownDoc) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		fm, body := codec.ParseFrontmatter(data)
		name, _ := fm["name"].(string)
		if name == "" {
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		*docs = append(*docs, MarkdownDoc{
			Path:        path,
			Name:        name,
			Frontmatter: fm,
			Body:        body,
			Content:     string(data),
		})
		return nil
	}
}
