package canon

// ConversionResult is the materialized output of a from-canonical emitter
// (spec.md §3.8): maps from absolute target paths to file contents, plus
// the report produced while emitting them.
type ConversionResult struct {
	SourceFormat Format `json:"sourceFormat"`
	TargetFormat Format `json:"targetFormat"`

	GlobalConfigPath string         `json:"globalConfigPath,omitempty"`
	GlobalConfig     map[string]any `json:"globalConfig"`

	ProjectConfigs map[string]map[string]any `json:"projectConfigs,omitempty"`

	Agents     map[string]string `json:"agents,omitempty"`
	Commands   map[string]string `json:"commands,omitempty"`
	Rules      map[string]string `json:"rules,omitempty"`
	ExtraFiles map[string]string `json:"extraFiles,omitempty"`

	Sessions []ConvertedSession `json:"sessions,omitempty"`

	Report *ConversionReport `json:"report"`
}

// NewConversionResult returns an empty-but-well-formed ConversionResult
// for the given (from, to) pair.
func NewConversionResult(from, to Format) *ConversionResult {
	return &ConversionResult{
		SourceFormat:   from,
		TargetFormat:   to,
		GlobalConfig:   make(map[string]any),
		ProjectConfigs: make(map[string]map[string]any),
		Agents:         make(map[string]string),
		Commands:       make(map[string]string),
		Rules:          make(map[string]string),
		ExtraFiles:     make(map[string]string),
		Report:         NewReport(),
	}
}

// AllFiles returns every absolute target path this result would write,
// in the fixed order spec.md §4.9 assigns them: global config, project
// configs, agents, commands, rules, extra files. History/session files
// are handled separately by the writer's history subsystem.
func (c *ConversionResult) AllFiles() []string {
	var paths []string
	if c.GlobalConfigPath != "" {
		paths = append(paths, c.GlobalConfigPath)
	}
	for p := range c.ProjectConfigs {
		paths = append(paths, p)
	}
	for p := range c.Agents {
		paths = append(paths, p)
	}
	for p := range c.Commands {
		paths = append(paths, p)
	}
	for p := range c.Rules {
		paths = append(paths, p)
	}
	for p := range c.ExtraFiles {
		paths = append(paths, p)
	}
	return paths
}
