package orchestration

import (
	"context"

	"github.com/codeinsight-dev/codeinsight/pkg/index"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

// Stage is one named unit of the analysis pipeline. Implementations are
// stateless across invocations: every input and output lives on the
// WorkflowState.
//
// The orchestrator enforces the execution contract around these methods: a
// failed precondition records exactly one error and leaves the rest of the
// state untouched; a failed Execute records the error and moves the status to
// the error tag; a successful Execute is followed by the stage's completion
// status.
type Stage interface {
	// Name identifies the stage in error messages and logs.
	Name() string
	// Completion is the status tag set after a successful Execute.
	Completion() Status
	// Precondition reports why the stage cannot run yet, or nil. It must not
	// mutate the state.
	Precondition(s *State) error
	// Execute performs the stage's work, writing results into the stage's
	// designated state fields. Returned errors describe failures of the work
	// itself (typically model calls), never precondition violations.
	Execute(ctx context.Context, s *State) error
}

// Querier is the slice of the query engine the stages need; *query.Engine
// satisfies it, and tests substitute deterministic fakes.
type Querier interface {
	Query(ctx context.Context, idx *index.Index, req query.Request) (*query.Answer, error)
}
