package orchestration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
)

type fakeStage struct {
	name       string
	completion Status
	preErr     error
	execErr    error
	executed   int
}

func (f *fakeStage) Name() string                { return f.name }
func (f *fakeStage) Completion() Status          { return f.completion }
func (f *fakeStage) Precondition(s *State) error { return f.preErr }
func (f *fakeStage) Execute(ctx context.Context, s *State) error {
	f.executed++
	return f.execErr
}

func TestRunBestEffortContinuesPastFailures(t *testing.T) {
	first := &fakeStage{name: "first", completion: StatusUnderstandingComplete, execErr: errors.New("model down")}
	second := &fakeStage{name: "second", completion: StatusQAComplete}

	o := New([]Stage{first, second}, config.PolicyBestEffort)
	s := NewState("url", "out")
	o.Run(context.Background(), s)

	assert.Equal(t, 1, first.executed)
	assert.Equal(t, 1, second.executed, "best effort runs later stages after a failure")

	require.Len(t, s.Errors, 1)
	assert.Contains(t, s.Errors[0], "first error:")
	assert.Contains(t, s.Errors[0], "model down")
	assert.Equal(t, StatusError, s.Status, "error tag absorbs later completions")
}

func TestRunFailFastStopsAtFirstFailure(t *testing.T) {
	first := &fakeStage{name: "first", completion: StatusUnderstandingComplete, execErr: errors.New("model down")}
	second := &fakeStage{name: "second", completion: StatusQAComplete}

	o := New([]Stage{first, second}, config.PolicyFailFast)
	s := NewState("url", "out")
	o.Run(context.Background(), s)

	assert.Equal(t, 1, first.executed)
	assert.Equal(t, 0, second.executed, "fail fast must not run later stages")
	assert.Len(t, s.Errors, 1)
}

func TestRunAdvancesStatusThroughPipeline(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "a", completion: StatusUnderstandingComplete},
		&fakeStage{name: "b", completion: StatusQAComplete},
		&fakeStage{name: "c", completion: StatusReportComplete},
	}

	o := New(stages, "")
	s := NewState("url", "out")
	o.Run(context.Background(), s)

	assert.Equal(t, StatusReportComplete, s.Status)
	assert.Empty(t, s.Errors)
}

func TestPreconditionFailureRecordsOneErrorAndNothingElse(t *testing.T) {
	stg := &fakeStage{name: "report", completion: StatusReportComplete, preErr: errors.New("understanding missing")}

	o := New([]Stage{stg}, config.PolicyBestEffort)
	s := NewState("url", "out")
	s.SetStatus(StatusRepoCloned)
	before := s.Status

	o.Run(context.Background(), s)

	assert.Equal(t, 0, stg.executed, "a failed precondition must not execute the stage")
	assert.Equal(t, before, s.Status, "a failed precondition must not change the status")
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "report: understanding missing", s.Errors[0])

	// Same state, same failure: exactly one more error, nothing else changes.
	o.Run(context.Background(), s)
	require.Len(t, s.Errors, 2)
	assert.Equal(t, s.Errors[0], s.Errors[1])
	assert.Equal(t, before, s.Status)
}

func TestCompoundingPreconditionErrors(t *testing.T) {
	// A failing early stage leaves later preconditions unmet, so a
	// best-effort run accumulates one error per dependent stage.
	qa := &fakeStage{name: "qa", completion: StatusQAComplete, execErr: errors.New("model down")}
	report := &fakeStage{name: "report", completion: StatusReportComplete, preErr: errors.New("answers missing")}

	o := New([]Stage{qa, report}, config.PolicyBestEffort)
	s := NewState("url", "out")
	o.Run(context.Background(), s)

	require.Len(t, s.Errors, 2)
	assert.Contains(t, s.Errors[0], "qa error:")
	assert.Contains(t, s.Errors[1], "report:")
}

func TestRunTaskRunsSingleStageOnce(t *testing.T) {
	understand := &fakeStage{name: stageNameUnderstanding, completion: StatusUnderstandingComplete}
	qa := &fakeStage{name: stageNameQA, completion: StatusQAComplete}

	o := New([]Stage{understand, qa}, config.PolicyBestEffort)
	s := NewState("url", "out")

	_, err := o.RunTask(context.Background(), TaskQA, s)
	require.NoError(t, err)

	assert.Equal(t, 0, understand.executed)
	assert.Equal(t, 1, qa.executed)
	assert.Equal(t, StatusQAComplete, s.Status)
}

func TestRunTaskDoesNotRetry(t *testing.T) {
	qa := &fakeStage{name: stageNameQA, completion: StatusQAComplete, preErr: errors.New("index missing")}

	o := New([]Stage{qa}, config.PolicyBestEffort)
	s := NewState("url", "out")

	_, err := o.RunTask(context.Background(), TaskQA, s)
	require.NoError(t, err, "an incomplete task is reported through state errors, not a returned error")

	assert.Equal(t, 0, qa.executed)
	assert.Len(t, s.Errors, 1)
	assert.Equal(t, StatusInitialized, s.Status)
}

func TestRunTaskUnknownTask(t *testing.T) {
	o := New(nil, config.PolicyBestEffort)
	s := NewState("url", "out")

	_, err := o.RunTask(context.Background(), "deploy", s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task")
}

func TestRunTaskAllIsFullPipeline(t *testing.T) {
	a := &fakeStage{name: "a", completion: StatusUnderstandingComplete}
	b := &fakeStage{name: "b", completion: StatusQAComplete}

	o := New([]Stage{a, b}, config.PolicyBestEffort)
	s := NewState("url", "out")

	_, err := o.RunTask(context.Background(), TaskAll, s)
	require.NoError(t, err)
	assert.Equal(t, 1, a.executed)
	assert.Equal(t, 1, b.executed)
}
