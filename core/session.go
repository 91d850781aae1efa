package core

// SessionStore persists the admin code between runs. It holds exactly one
// code at a time; expiry is the backend's call, never the client's.
//
// All operations are best-effort: a missing or unreadable store yields an
// empty code, and failed writes are silently ignored (durable storage may
// be unavailable).
type SessionStore interface {
	Load() string
	Save(code string)
	Clear()
}
