package domain

// Session is the locally persisted authentication state. The three fields
// live and die together: a partial session (token without username, or the
// reverse) must never be observable.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

func (s Session) IsZero() bool {
	return s.Token == "" && s.Username == ""
}

// Profile is the server's answer to an identity check.
type Profile struct {
	UserID   int
	Username string
}
