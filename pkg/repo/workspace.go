package repo

import "os"

// Workspace is a temporary checkout of a repository. Close releases it;
// callers defer Close so the checkout is removed on every exit path,
// success or failure.
type Workspace struct {
	URL  string
	Path string
	keep bool
}

// Close removes the checkout directory unless the workspace was created with
// cleanup disabled. Safe to call more than once.
func (w *Workspace) Close() error {
	if w.keep || w.Path == "" {
		return nil
	}
	err := os.RemoveAll(w.Path)
	w.Path = ""
	return err
}
