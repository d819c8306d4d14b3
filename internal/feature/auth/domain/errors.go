// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// ErrInvalidCredentials is returned for a wrong username or password. The two
// cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")
