package orchestration

import (
	"context"
	"fmt"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/utils"
)

// Task names accepted in single-task mode, as exposed on the CLI.
const (
	TaskAll        = "all"
	TaskUnderstand = "understand"
	TaskQA         = "qa"
	TaskReport     = "report"
	TaskDocs       = "docs"
	TaskRefactor   = "refactor"
)

// Orchestrator runs the analysis stages over one workflow state. A run always
// completes and always yields a final state: stage failures are recorded into
// the state's error list, never raised past the run.
type Orchestrator struct {
	stages []Stage
	policy string
	logger *utils.Logger
}

// New creates an orchestrator over the given stages. The policy decides what
// happens after a failed stage: best-effort keeps going (each later stage's
// own precondition then fails too, compounding recorded errors, which
// maximizes partial output), fail-fast stops the run at the first failure.
func New(stages []Stage, policy string) *Orchestrator {
	if policy == "" {
		policy = config.PolicyBestEffort
	}
	return &Orchestrator{stages: stages, policy: policy, logger: utils.GetLogger()}
}

// DefaultStages builds the five analysis stages in pipeline order.
func DefaultStages(cfg *config.Config, engine Querier) []Stage {
	return []Stage{
		NewUnderstandingStage(cfg, engine),
		NewQAStage(cfg, engine),
		NewReportStage(cfg),
		NewDocumentationStage(cfg, engine),
		NewRefactoringStage(cfg, engine),
	}
}

// Run executes the full pipeline in order and returns the same state.
func (o *Orchestrator) Run(ctx context.Context, s *State) *State {
	for _, stg := range o.stages {
		ok := o.runStage(ctx, stg, s)
		if !ok && o.policy == config.PolicyFailFast {
			o.logger.Logf("stopping run after failed stage %s (fail-fast policy)", stg.Name())
			break
		}
	}
	return s
}

// RunTask executes only the stage matching the requested task, once. If the
// stage did not reach its completion tag the recorded error is the signal;
// there is no retry loop. Task "all" is the full pipeline.
func (o *Orchestrator) RunTask(ctx context.Context, task string, s *State) (*State, error) {
	if task == "" || task == TaskAll {
		return o.Run(ctx, s), nil
	}
	stg := o.stageForTask(task)
	if stg == nil {
		return s, fmt.Errorf("unknown task %q", task)
	}
	o.runStage(ctx, stg, s)
	if s.Status != stg.Completion() {
		o.logger.Logf("task %s did not complete; status is %s", task, s.Status)
	}
	return s, nil
}

func (o *Orchestrator) stageForTask(task string) Stage {
	names := map[string]string{
		TaskUnderstand: stageNameUnderstanding,
		TaskQA:         stageNameQA,
		TaskReport:     stageNameReport,
		TaskDocs:       stageNameDocumentation,
		TaskRefactor:   stageNameRefactoring,
	}
	want, ok := names[task]
	if !ok {
		return nil
	}
	for _, stg := range o.stages {
		if stg.Name() == want {
			return stg
		}
	}
	return nil
}

// runStage applies the stage execution contract and reports whether the stage
// completed. A precondition failure appends exactly one error and changes
// nothing else. A failure of the stage's own work appends an error and moves
// the status to the error tag; results written by earlier stages stay intact.
func (o *Orchestrator) runStage(ctx context.Context, stg Stage, s *State) bool {
	o.logger.LogProcessStep(fmt.Sprintf("Running %s stage...", stg.Name()))

	if err := stg.Precondition(s); err != nil {
		s.RecordError("%s: %v", stg.Name(), err)
		o.logger.Logf("stage %s precondition failed: %v", stg.Name(), err)
		return false
	}

	if err := stg.Execute(ctx, s); err != nil {
		s.RecordError("%s error: %v", stg.Name(), err)
		s.SetStatus(StatusError)
		o.logger.LogError(err)
		return false
	}

	s.SetStatus(stg.Completion())
	return true
}
