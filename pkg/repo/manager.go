package repo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/index"
	"github.com/codeinsight-dev/codeinsight/pkg/utils"
)

// Manager acquires and reads repositories: clone into a temp workspace, list
// the analyzable files, and ingest their contents as documents.
type Manager struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewManager creates a repository manager.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg, logger: utils.GetLogger()}
}

// Clone does a shallow clone of url into a fresh temp directory and returns
// the workspace. GitLab URLs get the GITLAB_TOKEN injected when present.
func (m *Manager) Clone(ctx context.Context, url string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "codeinsight-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	ws := &Workspace{URL: url, Path: dir, keep: !m.cfg.CleanupCheckout}

	cloneURL := url
	if strings.Contains(strings.ToLower(url), "gitlab") {
		if token := os.Getenv("GITLAB_TOKEN"); token != "" {
			cloneURL = strings.Replace(url, "https://", fmt.Sprintf("https://oauth2:%s@", token), 1)
		}
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", cloneURL, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		ws.keep = false
		_ = ws.Close()
		return nil, classifyCloneError(url, err, stderr.String())
	}

	m.logger.Logf("cloned %s into %s", url, dir)
	return ws, nil
}

// classifyCloneError maps git's stderr onto the acquisition error taxonomy.
func classifyCloneError(url string, err error, stderr string) error {
	lower := strings.ToLower(stderr)
	wrapped := fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(stderr))
	switch {
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "access denied"),
		strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "401"):
		return &AuthError{URL: url, Err: wrapped}
	case strings.Contains(lower, "could not resolve"),
		strings.Contains(lower, "unable to access"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "connection refused"):
		return &NetworkError{URL: url, Err: wrapped}
	default:
		return wrapped
	}
}

// ListFiles walks the checkout and returns repo-relative slash paths of the
// files to analyze: excluded directories are skipped, only configured
// extensions are kept, ignore rules apply, and the result is capped at
// max_files. Order is deterministic (lexical walk order).
func (m *Manager) ListFiles(root string) ([]string, error) {
	excluded := make(map[string]bool, len(m.cfg.ExcludeDirectories))
	for _, d := range m.cfg.ExcludeDirectories {
		excluded[d] = true
	}
	included := make(map[string]bool, len(m.cfg.IncludeExtensions))
	for _, ext := range m.cfg.IncludeExtensions {
		included[strings.ToLower(ext)] = true
	}
	rules := getIgnoreRules(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !included[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repository files: %w", err)
	}

	sort.Strings(files)
	if len(files) > m.cfg.MaxFiles {
		files = files[:m.cfg.MaxFiles]
	}
	return files, nil
}

// Ingest reads the listed files into documents. Ingestion is best-effort over
// a large file set: anything unreadable or not valid UTF-8 is skipped
// silently and never enters the index.
func (m *Manager) Ingest(root string, files []string) []index.Document {
	docs := make([]index.Document, 0, len(files))
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			m.logger.Logf("skipping unreadable file %s: %v", rel, err)
			continue
		}
		if !utf8.Valid(data) {
			m.logger.Logf("skipping non-text file %s", rel)
			continue
		}
		docs = append(docs, index.NewDocument(rel, string(data)))
	}
	return docs
}

// getIgnoreRules reads ignore files (.gitignore, .codeinsight/.ignore) and
// returns a gitignore matcher, or nil when there are no rules.
func getIgnoreRules(rootDir string) *ignore.GitIgnore {
	var allRules []string

	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if rules, err := readIgnoreFile(gitignorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	toolIgnorePath := filepath.Join(rootDir, ".codeinsight", ".ignore")
	if rules, err := readIgnoreFile(toolIgnorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	if len(allRules) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(allRules...)
}

// readIgnoreFile reads a single ignore file and returns its lines.
func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
