package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/prompts"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

const stageNameUnderstanding = "code_understanding"

// Understanding section keys. Stable for downstream formatters.
const (
	SectionArchitecture = "architecture"
	SectionComponents   = "components"
	SectionDependencies = "dependencies"
	SectionCodeQuality  = "code_quality"
)

// UnderstandingStage analyzes the codebase structure: architecture, key
// components, dependencies, and code quality, each via one retrieval-augmented
// query over the index.
type UnderstandingStage struct {
	cfg    *config.Config
	engine Querier
}

func NewUnderstandingStage(cfg *config.Config, engine Querier) *UnderstandingStage {
	return &UnderstandingStage{cfg: cfg, engine: engine}
}

func (st *UnderstandingStage) Name() string       { return stageNameUnderstanding }
func (st *UnderstandingStage) Completion() Status { return StatusUnderstandingComplete }

func (st *UnderstandingStage) Precondition(s *State) error {
	if s.Status != StatusRepoCloned || s.Index == nil {
		return errors.New("repository must be cloned and indexed before code understanding")
	}
	return nil
}

func (st *UnderstandingStage) Execute(ctx context.Context, s *State) error {
	st.loadPriorityFiles(s)

	sections := []struct {
		key      string
		text     string
		category query.Category
	}{
		{SectionArchitecture, prompts.ArchitectureQuery(), query.CategoryGeneral},
		{SectionComponents, prompts.ComponentsQuery(), query.CategoryGeneral},
		{SectionDependencies, prompts.DependenciesQuery(), query.CategoryGeneral},
		{SectionCodeQuality, prompts.CodeQualityQuery(), query.CategoryCodeQuality},
	}

	for _, sec := range sections {
		answer, err := st.engine.Query(ctx, s.Index, query.Request{
			Text:     sec.text,
			TopK:     st.cfg.UnderstandingTopK,
			Category: sec.category,
		})
		if err != nil {
			return fmt.Errorf("%s analysis failed: %w", sec.key, err)
		}
		s.Understanding[sec.key] = answer
	}
	return nil
}

// loadPriorityFiles loads the configured priority files into files_content,
// then tops up with further files from the list until the analyze cap is
// reached. Files that cannot be read as text are skipped.
func (st *UnderstandingStage) loadPriorityFiles(s *State) {
	for _, pattern := range st.cfg.PriorityFiles {
		for _, rel := range s.FileList {
			if filepath.Base(rel) == pattern || rel == pattern {
				st.loadFile(s, rel)
			}
		}
	}

	for _, rel := range s.FileList {
		if len(s.FilesContent) >= st.cfg.MaxFilesToAnalyze {
			break
		}
		if _, ok := s.FilesContent[rel]; !ok {
			st.loadFile(s, rel)
		}
	}
}

func (st *UnderstandingStage) loadFile(s *State, rel string) {
	if _, ok := s.FilesContent[rel]; ok {
		return
	}
	data, err := os.ReadFile(filepath.Join(s.RepoPath, filepath.FromSlash(rel)))
	if err != nil || !utf8.Valid(data) {
		return
	}
	s.FilesContent[rel] = string(data)
}
