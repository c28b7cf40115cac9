package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

const stageNameQA = "qa"

// QAStage answers questions about the codebase. When the state carries no
// questions it falls back to the configured default set.
type QAStage struct {
	cfg    *config.Config
	engine Querier
}

func NewQAStage(cfg *config.Config, engine Querier) *QAStage {
	return &QAStage{cfg: cfg, engine: engine}
}

func (st *QAStage) Name() string       { return stageNameQA }
func (st *QAStage) Completion() Status { return StatusQAComplete }

func (st *QAStage) Precondition(s *State) error {
	if s.Index == nil {
		return errors.New("code index must be created before question answering")
	}
	return nil
}

func (st *QAStage) Execute(ctx context.Context, s *State) error {
	if len(s.Questions) == 0 {
		s.Questions = append([]string{}, st.cfg.DefaultQuestions...)
	}

	answers := make(map[string]*query.Answer, len(s.Questions))
	for _, question := range s.Questions {
		answer, err := st.engine.Query(ctx, s.Index, query.Request{
			Text:     question,
			TopK:     st.cfg.QATopK,
			Category: query.CategoryGeneral,
		})
		if err != nil {
			return fmt.Errorf("failed to answer %q: %w", question, err)
		}
		answers[question] = answer
	}

	s.Answers = answers
	return nil
}
