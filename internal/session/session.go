// Package session carries the signed-in user's identity through the sync
// layer. It replaces ambient globals: repositories receive it explicitly at
// construction time.
package session

// Session ...
type Session struct {
	Username string
	Token    string
}

// New ...
func New(username, token string) *Session {
	return &Session{
		Username: username,
		Token:    token,
	}
}
