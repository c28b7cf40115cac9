package orchestration

import (
	"context"
	"errors"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/render"
)

const stageNameReport = "report"

// ReportStage assembles the analysis report from material gathered by the
// earlier stages. It makes no model calls of its own.
type ReportStage struct {
	cfg *config.Config
}

func NewReportStage(cfg *config.Config) *ReportStage {
	return &ReportStage{cfg: cfg}
}

func (st *ReportStage) Name() string       { return stageNameReport }
func (st *ReportStage) Completion() Status { return StatusReportComplete }

func (st *ReportStage) Precondition(s *State) error {
	if len(s.Understanding) == 0 {
		return errors.New("code understanding must be completed before generating report")
	}
	if len(s.Answers) == 0 {
		return errors.New("question answering must be completed before generating report")
	}
	return nil
}

func (st *ReportStage) Execute(ctx context.Context, s *State) error {
	s.Report = render.Report(renderInput(s), st.cfg.ReportSections)
	return nil
}

func renderInput(s *State) render.Input {
	return render.Input{
		RepoURL:       s.RepoURL,
		FileList:      s.FileList,
		FilesContent:  s.FilesContent,
		Understanding: s.Understanding,
		Questions:     s.Questions,
		Answers:       s.Answers,
	}
}
