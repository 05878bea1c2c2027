package canon

import "fmt"

// ReportCategory classifies a converted/skipped report item (spec.md §3.9).
type ReportCategory string

const (
	CategoryConfig      ReportCategory = "config"
	CategoryMcp         ReportCategory = "mcp"
	CategoryAgents      ReportCategory = "agents"
	CategoryCommands    ReportCategory = "commands"
	CategorySkills      ReportCategory = "skills"
	CategoryPermissions ReportCategory = "permissions"
	CategoryRules       ReportCategory = "rules"
	CategoryHooks       ReportCategory = "hooks"
	CategoryHistory     ReportCategory = "history"
)

// ReportItem records one converted or skipped artifact.
type ReportItem struct {
	Category ReportCategory `json:"category"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Details  string         `json:"details,omitempty"`
}

// ConversionReport carries the five parallel lists from spec.md §3.9.
// Reports compose by concatenation (NewReport().Append(other)).
type ConversionReport struct {
	Converted     []ReportItem `json:"converted,omitempty"`
	Skipped       []ReportItem `json:"skipped,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
	ManualActions []string     `json:"manualActions,omitempty"`
	Errors        []string     `json:"errors,omitempty"`
}

// NewReport returns an empty report.
func NewReport() *ConversionReport {
	return &ConversionReport{}
}

// AddConverted records a successful conversion.
func (r *ConversionReport) AddConverted(category ReportCategory, source, target, details string) {
	r.Converted = append(r.Converted, ReportItem{Category: category, Source: source, Target: target, Details: details})
}

// AddSkipped records a skipped artifact.
func (r *ConversionReport) AddSkipped(category ReportCategory, source, target, details string) {
	r.Skipped = append(r.Skipped, ReportItem{Category: category, Source: source, Target: target, Details: details})
}

// Warnf records a warning (spec.md §7: secret-looking data, unknown tool
// names, etc. never abort the pipeline, they accumulate here).
func (r *ConversionReport) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ManualActionf records a feature that has no automatic target-format
// equivalent and needs a human follow-up (spec.md §7).
func (r *ConversionReport) ManualActionf(format string, args ...any) {
	r.ManualActions = append(r.ManualActions, fmt.Sprintf(format, args...))
}

// Errorf records a data-defect error. Per spec.md §7 this never panics or
// returns a Go error from the pipeline — it is recorded and the pipeline
// continues.
func (r *ConversionReport) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Append concatenates other onto r, the composition rule from spec.md §3.9.
func (r *ConversionReport) Append(other *ConversionReport) {
	if other == nil {
		return
	}
	r.Converted = append(r.Converted, other.Converted...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.ManualActions = append(r.ManualActions, other.ManualActions...)
	r.Errors = append(r.Errors, other.Errors...)
}

// String renders a short human-readable summary grouped by list, used by
// the CLI demo (SPEC_FULL.md §4: "ConversionReport.String()").
func (r *ConversionReport) String() string {
	var b []byte
	write := func(s string) { b = append(b, s...) }

	write(fmt.Sprintf("converted: %d, skipped: %d, warnings: %d, manual actions: %d, errors: %d\n",
		len(r.Converted), len(r.Skipped), len(r.Warnings), len(r.ManualActions), len(r.Errors)))
	for _, w := range r.Warnings {
		write(fmt.Sprintf("  warning: %s\n", w))
	}
	for _, m := range r.ManualActions {
		write(fmt.Sprintf("  manual action: %s\n", m))
	}
	for _, e := range r.Errors {
		write(fmt.Sprintf("  error: %s\n", e))
	}
	return string(b)
}
