package domain

// Connection is a directed reference between two nodes. It does not own its
// endpoints: deleting either node deletes the connection.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`

	// Reserved for multi-port nodes. Nothing sets them yet.
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// ConnectionID derives the deterministic id of a source->target connection.
func ConnectionID(source, target string) string {
	return source + "-" + target
}

// NewConnection builds a connection with its derived id.
func NewConnection(source, target string) Connection {
	return Connection{ID: ConnectionID(source, target), Source: source, Target: target}
}

// Touches reports whether the connection references nodeID at either end.
func (c Connection) Touches(nodeID string) bool {
	return c.Source == nodeID || c.Target == nodeID
}
