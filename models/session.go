package models

type SessionRole string

const (
	RolePlayer SessionRole = "player"
	RoleAdmin  SessionRole = "admin"
)

// Session is the decoded identity a request carries. There is no user table
// behind it: sessions are anonymous, the token is the whole session, and the
// name/team fields are whatever identity the client last picked.
type Session struct {
	ID   string      `json:"sid"`
	Name string      `json:"name,omitempty"`
	Team string      `json:"team,omitempty"`
	Role SessionRole `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Identified reports whether the session has picked a display name yet.
// Posting replies, saving scores and uploading photos all require one.
func (s Session) Identified() bool { return s.Name != "" }
