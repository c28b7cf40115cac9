package orchestration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codeinsight-dev/codeinsight/pkg/index"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

// Status is the workflow phase tag. It only ever moves forward through the
// fixed order below, or to the absorbing error tag; it never reverts.
type Status string

const (
	StatusInitialized           Status = "initialized"
	StatusRepoCloned            Status = "repo_cloned"
	StatusUnderstandingComplete Status = "understanding_complete"
	StatusQAComplete            Status = "qa_complete"
	StatusReportComplete        Status = "report_complete"
	StatusDocumentationComplete Status = "documentation_complete"
	StatusRefactoringComplete   Status = "refactoring_complete"
	StatusError                 Status = "error"
)

var statusOrder = map[Status]int{
	StatusInitialized:           0,
	StatusRepoCloned:            1,
	StatusUnderstandingComplete: 2,
	StatusQAComplete:            3,
	StatusReportComplete:        4,
	StatusDocumentationComplete: 5,
	StatusRefactoringComplete:   6,
}

// State is the single mutable record threaded through all stages. It is
// created once per run, mutated in place by each stage, and exclusively owned
// by the orchestrator; execution is sequential, so there is a single writer.
//
// Every field below is a stable read contract for downstream formatters:
// collections are always non-nil, so consumers only ever check for emptiness.
type State struct {
	RunID     string `json:"run_id"`
	RepoURL   string `json:"repo_url"`
	RepoPath  string `json:"repo_path"`
	OutputDir string `json:"output_dir"`

	Status Status   `json:"status"`
	Errors []string `json:"errors"` // append-only within a run

	FileList     []string          `json:"file_list"`
	FilesContent map[string]string `json:"files_content"`

	Understanding          map[string]*query.Answer `json:"understanding"`
	Questions              []string                 `json:"questions"`
	Answers                map[string]*query.Answer `json:"answers"`
	Report                 string                   `json:"report"`
	Documentation          map[string]string        `json:"documentation"`
	RefactoringSuggestions []query.Suggestion       `json:"refactoring_suggestions"`

	// Index lives only for the run; it is rebuilt from scratch each time and
	// never serialized.
	Index *index.Index `json:"-"`
}

// NewState initializes the workflow state for one run. All collections start
// empty but non-nil.
func NewState(repoURL, outputDir string) *State {
	return &State{
		RunID:                  uuid.NewString(),
		RepoURL:                repoURL,
		OutputDir:              outputDir,
		Status:                 StatusInitialized,
		Errors:                 []string{},
		FileList:               []string{},
		FilesContent:           map[string]string{},
		Understanding:          map[string]*query.Answer{},
		Questions:              []string{},
		Answers:                map[string]*query.Answer{},
		Documentation:          map[string]string{},
		RefactoringSuggestions: []query.Suggestion{},
	}
}

// RecordError appends one entry to the error list.
func (s *State) RecordError(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// SetStatus advances the status. Backward transitions are ignored so the
// forward-only invariant holds no matter who calls; the error tag is absorbing.
func (s *State) SetStatus(next Status) {
	if s.Status == StatusError {
		return
	}
	if next == StatusError {
		s.Status = StatusError
		return
	}
	if statusOrder[next] >= statusOrder[s.Status] {
		s.Status = next
	}
}

// Save writes the state as JSON to path, atomically (write temp, then rename).
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save state file: %w", err)
	}
	return nil
}
