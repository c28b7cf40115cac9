package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/prompts"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

const stageNameRefactoring = "refactoring"

// RefactoringStage runs a fixed set of improvement queries against the index
// and collects the answers as categorized suggestions.
type RefactoringStage struct {
	cfg    *config.Config
	engine Querier
}

func NewRefactoringStage(cfg *config.Config, engine Querier) *RefactoringStage {
	return &RefactoringStage{cfg: cfg, engine: engine}
}

func (st *RefactoringStage) Name() string       { return stageNameRefactoring }
func (st *RefactoringStage) Completion() Status { return StatusRefactoringComplete }

func (st *RefactoringStage) Precondition(s *State) error {
	if len(s.Understanding) == 0 {
		return errors.New("code understanding must be completed before suggesting refactoring")
	}
	if s.Index == nil {
		return errors.New("code index must be created before suggesting refactoring")
	}
	return nil
}

func (st *RefactoringStage) Execute(ctx context.Context, s *State) error {
	queries := prompts.DefaultRefactoringQueries()
	suggestions := make([]query.Suggestion, 0, len(queries))

	for _, q := range queries {
		if len(suggestions) >= st.cfg.MaxSuggestions {
			break
		}

		answer, err := st.engine.Query(ctx, s.Index, query.Request{
			Text:     q.Text,
			TopK:     st.cfg.RefactoringTopK,
			Category: query.CategoryRefactoring,
		})
		if err != nil {
			return fmt.Errorf("refactoring query %q failed: %w", q.Category, err)
		}

		suggestions = append(suggestions, query.Suggestion{
			Category:    q.Category,
			Description: answer.Text,
			Confidence:  answer.Confidence,
			Sources:     answer.Sources,
		})
	}

	s.RefactoringSuggestions = suggestions
	return nil
}
