package repo

import "fmt"

// AuthError means the remote rejected our credentials (or we had none for a
// private repository).
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.URL, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError means the remote could not be reached.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error while cloning %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
