package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
)

func writeFiles(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func TestListFilesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string][]byte{
		"main.go":                 []byte("package main"),
		"pkg/core/core.go":        []byte("package core"),
		"README.md":               []byte("# readme"),
		"picture.png":             []byte{0x89, 0x50},
		"node_modules/dep/idx.js": []byte("ignored"),
		".git/config":             []byte("ignored"),
		"build/out.go":            []byte("ignored"),
	})

	m := NewManager(config.DefaultConfig())
	files, err := m.ListFiles(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "main.go", "pkg/core/core.go"}, files)
}

func TestListFilesHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string][]byte{
		".gitignore":     []byte("generated/\n*.gen.go\n"),
		"main.go":        []byte("package main"),
		"thing.gen.go":   []byte("package main"),
		"generated/a.go": []byte("package gen"),
		"pkg/keep/k.go":  []byte("package keep"),
	})

	m := NewManager(config.DefaultConfig())
	files, err := m.ListFiles(root)
	require.NoError(t, err)

	assert.Contains(t, files, "main.go")
	assert.Contains(t, files, "pkg/keep/k.go")
	assert.NotContains(t, files, "thing.gen.go")
	assert.NotContains(t, files, "generated/a.go")
}

func TestListFilesCapsAtMaxFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string][]byte{}
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go", "e.go"} {
		files[name] = []byte("package main")
	}
	writeFiles(t, root, files)

	cfg := config.DefaultConfig()
	cfg.MaxFiles = 3
	m := NewManager(cfg)

	got, err := m.ListFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, got, "cap keeps the lexicographically first files")
}

func TestIngestSkipsBinaryAndMissing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string][]byte{
		"main.go":   []byte("package main\n"),
		"data.bin":  {0xff, 0xfe, 0x00, 0x80},
		"README.md": []byte("# hello\n"),
	})

	m := NewManager(config.DefaultConfig())
	docs := m.Ingest(root, []string{"main.go", "data.bin", "README.md", "gone.go"})

	require.Len(t, docs, 2)
	paths := []string{docs[0].Path, docs[1].Path}
	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "README.md")
	for _, doc := range docs {
		assert.NotEmpty(t, doc.ID)
		assert.NotEmpty(t, doc.Text)
	}
}

func TestWorkspaceCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "checkout")
	require.NoError(t, os.MkdirAll(nested, 0755))

	ws := &Workspace{URL: "url", Path: nested}
	require.NoError(t, ws.Close())
	_, err := os.Stat(nested)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, ws.Close())
}

func TestWorkspaceCloseKeepsCheckoutWhenAsked(t *testing.T) {
	dir := t.TempDir()
	ws := &Workspace{URL: "url", Path: dir, keep: true}
	require.NoError(t, ws.Close())

	_, err := os.Stat(dir)
	assert.NoError(t, err, "keep-checkout workspaces must survive Close")
}

func TestClassifyCloneError(t *testing.T) {
	base := os.ErrPermission

	err := classifyCloneError("https://gitlab.com/org/repo", base, "remote: HTTP Basic: Access denied")
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)

	err = classifyCloneError("https://github.com/org/repo", base, "fatal: unable to access 'x': Could not resolve host")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}
