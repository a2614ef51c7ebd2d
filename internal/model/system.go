package model

// VersionInfo describes the running build and the state of the ledger schema.
type VersionInfo struct {
	AppVersion        string          `json:"appVersion"`
	SchemaVersion     int64           `json:"schemaVersion"`
	PendingMigrations bool            `json:"pendingMigrations"`
	Features          map[string]bool `json:"features"`
	Message           string          `json:"message,omitempty"`
}
