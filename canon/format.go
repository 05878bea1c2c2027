// Package canon defines the canonical intermediate representation (IR)
// that every scanner normalizes into and every emitter materializes from.
// It is the hub of the hub-and-spoke conversion pipeline: scanners and
// mappers never talk to each other directly, only through these types.
package canon

import "fmt"

// Format is an enumerated tag attached to every scan and conversion result.
type Format string

// Supported formats.
const (
	ClaudeCode Format = "claude-code"
	OpenCode   Format = "opencode"
	Cursor     Format = "cursor"
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{ClaudeCode, OpenCode, Cursor}
}

// Name returns the human-readable display name for a format.
func (f Format) Name() string {
	switch f {
	case ClaudeCode:
		return "Claude Code"
	case OpenCode:
		return "OpenCode"
	case Cursor:
		return "Cursor"
	default:
		return string(f)
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case ClaudeCode, OpenCode, Cursor:
		return true
	default:
		return false
	}
}

func (f Format) String() string {
	return f.Name()
}

// ConversionPair is an ordered (from, to) pair of distinct formats.
type ConversionPair struct {
	From Format
	To   Format
}

// SupportedConversions returns all six ordered pairs (from, to) where
// from != to, in a stable order grouped by source format.
func SupportedConversions() []ConversionPair {
	var pairs []ConversionPair
	for _, from := range Formats() {
		for _, to := range Formats() {
			if from == to {
				continue
			}
			pairs = append(pairs, ConversionPair{From: from, To: to})
		}
	}
	return pairs
}

// UnsupportedPairError is returned when a caller requests from==to, or an
// unrecognized format.
type UnsupportedPairError struct {
	From Format
	To   Format
}

func (e *UnsupportedPairError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("source and target format are both %q: self-conversion is not supported", e.From)
	}
	return fmt.Sprintf("unsupported conversion %q -> %q", e.From, e.To)
}
