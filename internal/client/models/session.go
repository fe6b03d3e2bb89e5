package models

// Session is the console's record of who is logged in. IsAuthenticated is
// true exactly when both User and Token are present; the three fields change
// together.
type Session struct {
	User            *Identity `json:"user"`
	Token           string    `json:"token"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// NewSession builds an authenticated session, or an empty one if either part
// is missing.
func NewSession(user *Identity, token string) Session {
	if user == nil || token == "" {
		return Session{}
	}
	u := *user
	return Session{User: &u, Token: token, IsAuthenticated: true}
}

// Valid reports whether the invariant between the fields holds.
func (s Session) Valid() bool {
	return s.IsAuthenticated == (s.User != nil && s.Token != "")
}
