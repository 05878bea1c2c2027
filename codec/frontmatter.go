// Package codec implements the file-format primitives spec.md §6.2 calls
// for: Markdown+YAML frontmatter, JSONC, and JSONL. Grounded on the
// frontmatter split/lenient-fallback style of skills/claude/adapter.go
// and commands/claude/adapter.go, upgraded to use gopkg.in/yaml.v3 for
// the strict pass per spec.md's "strict YAML first, lenient fallback"
// rule (§4.1, §6.2).
package codec

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterRe matches the delimited block from spec.md §6.2:
// ^---\r?\n([\s\S]*?)\r?\n---\r?\n?([\s\S]*)$
var frontmatterRe = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n?(.*)$`)

// ParseFrontmatter splits content into its YAML frontmatter map and the
// markdown body below it. If content has no frontmatter block, it
// returns a nil map and the content unchanged as the body.
func ParseFrontmatter(content []byte) (map[string]any, string) {
	m := frontmatterRe.FindSubmatch(content)
	if m == nil {
		return nil, string(content)
	}
	yamlBlock, body := m[1], string(m[2])

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err == nil && fm != nil {
		return fm, body
	}

	// Lenient fallback: split each line on the first ':' and coerce the
	// scalar value, per spec.md §6.2.
	return parseLenient(string(yamlBlock)), body
}

// parseLenient implements the fallback described in spec.md §6.2: split
// on the first ':' per line, with scalar coercion for
// null|~|""|true|false|int|float, else raw string.
func parseLenient(block string) map[string]any {
	fm := make(map[string]any)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		idx := strings.Index(trimmed, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		value := strings.TrimSpace(trimmed[idx+1:])
		fm[key] = coerceScalar(value)
	}
	return fm
}

func coerceScalar(value string) any {
	switch value {
	case "null", "~", "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	unquoted := strings.Trim(value, `"'`)
	// Bracketed lists: [a, b, c]
	if strings.HasPrefix(unquoted, "[") && strings.HasSuffix(unquoted, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(unquoted, "["), "]")
		if strings.TrimSpace(inner) == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			list = append(list, strings.Trim(strings.TrimSpace(p), `"'`))
		}
		return list
	}
	return unquoted
}

// SerializeFrontmatter emits "---\n<yaml>\n---\n\n<body>\n", the shared
// emitter helper named in spec.md §4.3.
func SerializeFrontmatter(fm map[string]any, body string) ([]byte, error) {
	var out strings.Builder
	out.WriteString("---\n")
	if len(fm) > 0 {
		yamlBytes, err := yaml.Marshal(fm)
		if err != nil {
			return nil, err
		}
		out.Write(yamlBytes)
	}
	out.WriteString("---\n\n")
	out.WriteString(strings.TrimRight(body, "\n"))
	out.WriteString("\n")
	return []byte(out.String()), nil
}

// extractBodyRe strips an existing frontmatter block, per spec.md §4.3's
// extractBody helper: ^---\r?\n[\s\S]*?\r?\n---\r?\n?([\s\S]*)$
var extractBodyRe = regexp.MustCompile(`(?s)^---\r?\n.*?\r?\n---\r?\n?(.*)$`)

// ExtractBody strips any existing frontmatter block from content,
// returning only the body below it (or the whole content if there was no
// frontmatter).
func ExtractBody(content []byte) string {
	m := extractBodyRe.FindSubmatch(content)
	if m == nil {
		return string(content)
	}
	return string(m[1])
}

// StringList normalizes a frontmatter field that may arrive as a comma
// separated string or a YAML sequence into a trimmed string slice
// (spec.md §9: "mixed string/array fields").
func StringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// JoinGlobs joins a glob list with "," — the invariant spec.md §9 calls
// out explicitly for Cursor MDC globs that arrive as arrays.
func JoinGlobs(globs []string) string {
	return strings.Join(globs, ",")
}
