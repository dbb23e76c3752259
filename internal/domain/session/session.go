// Package session provides the client Session domain entity.
package session

import "fmt"

// Session is the server-tracked authentication state of this client.
// The zero value is the anonymous session.
type Session struct {
	User *string `json:"user"`
}

// Anonymous returns a session with no user.
func Anonymous() Session {
	return Session{}
}

// AuthenticatedAs returns a session for the given user.
func AuthenticatedAs(user string) Session {
	return Session{User: &user}
}

// Authenticated reports whether a user is logged in.
// An empty user name counts as anonymous.
func (s Session) Authenticated() bool {
	return s.User != nil && *s.User != ""
}

// Username returns the user name, or "" when anonymous.
func (s Session) Username() string {
	if !s.Authenticated() {
		return ""
	}
	return *s.User
}

// ButtonLabel returns the label for the login/logout button.
func (s Session) ButtonLabel() string {
	if !s.Authenticated() {
		return "Login"
	}
	return fmt.Sprintf("Logout (%s)", *s.User)
}
