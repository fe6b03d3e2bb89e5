package models

import "strings"

// View is a console screen. Views other than the dashboard can be used
// without a session.
type View string

const (
	ViewHome      View = "/"
	ViewLogin     View = "/login"
	ViewRegister  View = "/register"
	ViewVerify    View = "/verify"
	ViewDashboard View = "/dashboard"
)

// Public reports whether v may be shown to an unauthenticated operator.
// Verification views carry the account id as a suffix ("/verify/42").
func (v View) Public() bool {
	switch {
	case v == ViewLogin, v == ViewRegister:
		return true
	case strings.HasPrefix(string(v), string(ViewVerify)):
		return true
	default:
		return false
	}
}
