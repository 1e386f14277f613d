package ir

// Version constants for the document schema and toolkit.
const (
	// SchemaVersion is the fixture document schema version understood here.
	SchemaVersion = "1"

	// ToolVersion is the toolkit version recorded with catalog imports.
	ToolVersion = "0.1.0"
)
