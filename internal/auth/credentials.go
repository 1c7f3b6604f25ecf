// Package auth provides the admin credential check, cookie sessions and the
// admin route guard.
package auth

import (
	"crypto/subtle"

	"github.com/evcraddock/realty-site/internal/user"
)

// Credentials is the single username and password allowed to sign in.
type Credentials struct {
	Username string
	Password string
	Role     string
}

// NewCredentials returns admin credentials.
func NewCredentials(username, password string) Credentials {
	return Credentials{Username: username, Password: password, Role: user.RoleAdmin}
}

// Check compares both fields in constant time.
func (c Credentials) Check(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password))
	return u&p == 1
}
