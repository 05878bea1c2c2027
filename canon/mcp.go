package canon

// McpServer is a tagged union: a Local (stdio) server has a non-empty
// Command; a Remote (HTTP/SSE) server has a non-empty URL. The kind is
// computed at mapper time from the fields present in the source format
// (spec.md §9: "duck-typed MCP servers" become a sum type with an
// explicit discriminant).
type McpServerKind string

const (
	McpLocal  McpServerKind = "local"
	McpRemote McpServerKind = "remote"
)

// McpServer is the canonical representation of one MCP server entry.
type McpServer struct {
	Kind McpServerKind `json:"kind"`

	// Local fields.
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`

	// Remote fields.
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	OAuth   *McpOAuth         `json:"oauth,omitempty"`

	// Enabled reflects an explicit enabled:false in the source; nil means
	// "not specified", which the writer/validator treats as enabled.
	Enabled *bool `json:"enabled,omitempty"`
}

// McpOAuth carries the subset of OAuth configuration the IR preserves
// losslessly for remote servers that declare it.
type McpOAuth struct {
	ClientID     string   `json:"clientId,omitempty"`
	AuthorizeURL string   `json:"authorizeUrl,omitempty"`
	TokenURL     string   `json:"tokenUrl,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

// IsEnabled reports whether the server is enabled. Absence means enabled
// per spec.md §3.3.
func (s McpServer) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// NewLocalMcpServer builds a Local server entry.
func NewLocalMcpServer(command string, args []string, env map[string]string) McpServer {
	return McpServer{Kind: McpLocal, Command: command, Args: args, Env: env}
}

// NewRemoteMcpServer builds a Remote server entry.
func NewRemoteMcpServer(url string, headers map[string]string) McpServer {
	return McpServer{Kind: McpRemote, URL: url, Headers: headers}
}

// Validate enforces the invariant from spec.md §3.3: a Local server has a
// non-empty command, a Remote server has a non-empty URL.
func (s McpServer) Validate() error {
	switch s.Kind {
	case McpLocal:
		if s.Command == "" {
			return ErrMcpLocalMissingCommand
		}
	case McpRemote:
		if s.URL == "" {
			return ErrMcpRemoteMissingURL
		}
	default:
		return ErrMcpUnknownKind
	}
	return nil
}

// DiscriminateMcpKind applies the duck-typing rule from spec.md §9:
// url && !command => Remote, else Local.
func DiscriminateMcpKind(hasURL, hasCommand bool) McpServerKind {
	if hasURL && !hasCommand {
		return McpRemote
	}
	return McpLocal
}
