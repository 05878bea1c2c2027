package canon

// GlobalConfig is the user-level (not project-scoped) half of a scan
// result (spec.md §3.2).
type GlobalConfig struct {
	Model         string               `json:"model,omitempty"`
	SmallModel    string               `json:"smallModel,omitempty"`
	Provider      string               `json:"provider,omitempty"`
	McpServers    map[string]McpServer `json:"mcpServers,omitempty"`
	Permissions   Permissions          `json:"permissions,omitempty"`
	Rules         []RulesFile          `json:"rules,omitempty"`
	Skills        []Skill              `json:"skills,omitempty"`
	Commands      []Command            `json:"commands,omitempty"`
	Agents        []Agent              `json:"agents,omitempty"`
	Env           map[string]string    `json:"env,omitempty"`
	AutoUpdate    bool                 `json:"autoUpdate,omitempty"`
	ExtraSettings map[string]any       `json:"extraSettings,omitempty"`
}

// NewGlobalConfig returns a GlobalConfig with initialized maps, matching
// the teacher's NewConfig constructors (mcp/core/config.go).
func NewGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		McpServers:    make(map[string]McpServer),
		Permissions:   make(Permissions),
		Env:           make(map[string]string),
		ExtraSettings: make(map[string]any),
	}
}

// Merge overlays other onto c: scalar fields in other win when set: maps
// merge key-by-key with other's entries overriding; slices from other are
// appended. This generalizes the MCP-merge rule from spec.md §4.2 ("later
// entries override earlier") to the whole global config (SPEC_FULL.md §4).
func (c *GlobalConfig) Merge(other *GlobalConfig) {
	if other == nil {
		return
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.SmallModel != "" {
		c.SmallModel = other.SmallModel
	}
	if other.Provider != "" {
		c.Provider = other.Provider
	}
	if c.McpServers == nil {
		c.McpServers = make(map[string]McpServer)
	}
	for name, srv := range other.McpServers {
		c.McpServers[name] = srv
	}
	if len(other.Permissions) > 0 {
		if c.Permissions == nil {
			c.Permissions = make(Permissions)
		}
		for tool, rule := range other.Permissions {
			c.Permissions[tool] = rule
		}
	}
	c.Rules = append(c.Rules, other.Rules...)
	c.Skills = DedupeSkills(append(c.Skills, other.Skills...))
	c.Commands = append(c.Commands, other.Commands...)
	c.Agents = append(c.Agents, other.Agents...)
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	for k, v := range other.Env {
		c.Env[k] = v
	}
	if other.AutoUpdate {
		c.AutoUpdate = true
	}
	if len(other.ExtraSettings) > 0 {
		if c.ExtraSettings == nil {
			c.ExtraSettings = make(map[string]any)
		}
		for k, v := range other.ExtraSettings {
			c.ExtraSettings[k] = v
		}
	}
}

// ProjectConfig is GlobalConfig plus project-scoped fields (spec.md §3.2).
type ProjectConfig struct {
	GlobalConfig

	Path            string   `json:"path"`
	DisabledServers []string `json:"disabledServers,omitempty"`
	EnabledServers  []string `json:"enabledServers,omitempty"`
	IgnorePatterns  []string `json:"ignorePatterns,omitempty"`
}

// NewProjectConfig returns a ProjectConfig rooted at path with
// initialized maps.
func NewProjectConfig(path string) *ProjectConfig {
	return &ProjectConfig{
		GlobalConfig: *NewGlobalConfig(),
		Path:         path,
	}
}

// ScanResult is the canonical projection of a format-specific scan
// (spec.md §3.2).
type ScanResult struct {
	SourceFormat Format           `json:"sourceFormat"`
	Global       GlobalConfig     `json:"global"`
	Projects     []*ProjectConfig `json:"projects,omitempty"`
}

// NewScanResult returns an empty-but-well-formed ScanResult for the given
// source format, satisfying the "empty scan" testable property
// (spec.md §8.1).
func NewScanResult(source Format) *ScanResult {
	return &ScanResult{
		SourceFormat: source,
		Global:       *NewGlobalConfig(),
	}
}
