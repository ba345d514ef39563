// Package session defines the signed-in user's identity. The session is an
// explicit value handed to whatever needs it, not a process-wide singleton;
// login replaces it wholesale and logout clears it.
package session

import "errors"

var ErrNotSignedIn = errors.New("not signed in")

type Session struct {
	UserID   string
	Username string
}

func (s Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// Require returns ErrNotSignedIn for the zero session, so callers can gate
// operations that need an identity.
func (s Session) Require() error {
	if !s.IsAuthenticated() {
		return ErrNotSignedIn
	}
	return nil
}
