package core

// SessionID identifies one live transport connection. IDs are assigned
// by the connection registry and never reused within a process.
type SessionID string
