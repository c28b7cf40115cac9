package orchestration

import (
	"context"
	"errors"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/prompts"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
	"github.com/codeinsight-dev/codeinsight/pkg/render"
	"github.com/codeinsight-dev/codeinsight/pkg/utils"
)

const stageNameDocumentation = "documentation"

// DocumentationStage produces a README, per-component API docs, and a usage
// guide. Most of the output is assembled from earlier analysis; the API docs
// and usage guide additionally ask the model for project-specific material
// and fall back to the plain templates when those calls fail, recording each
// failure on the state.
type DocumentationStage struct {
	cfg    *config.Config
	engine Querier
	logger *utils.Logger
}

func NewDocumentationStage(cfg *config.Config, engine Querier) *DocumentationStage {
	return &DocumentationStage{cfg: cfg, engine: engine, logger: utils.GetLogger()}
}

func (st *DocumentationStage) Name() string       { return stageNameDocumentation }
func (st *DocumentationStage) Completion() Status { return StatusDocumentationComplete }

func (st *DocumentationStage) Precondition(s *State) error {
	if len(s.Understanding) == 0 {
		return errors.New("code understanding must be completed before generating documentation")
	}
	return nil
}

func (st *DocumentationStage) Execute(ctx context.Context, s *State) error {
	in := renderInput(s)
	docs := make(map[string]string)

	if st.cfg.GenerateReadme {
		readme := render.Readme(in)
		docs["readme"] = readme
		if existing, ok := existingReadme(s); ok {
			docs["readme_drift"] = render.Drift(existing, readme)
		}
	}

	if st.cfg.GenerateAPIDocs {
		for name, doc := range render.APIDocs(in) {
			if s.Index != nil {
				answer, err := st.engine.Query(ctx, s.Index, query.Request{
					Text:     prompts.APIDocQuery(name),
					TopK:     st.cfg.QATopK,
					Category: query.CategoryGeneral,
				})
				if err != nil {
					st.logger.Logf("api doc query for %s failed: %v", name, err)
					s.RecordError("documentation: api doc query for %s failed: %v", name, err)
				} else {
					doc += "\n## Notes\n\n" + answer.Text + "\n"
				}
			}
			docs["api/"+name] = doc
		}
	}

	if st.cfg.GenerateUsageGuide {
		var usageText string
		if s.Index != nil {
			answer, err := st.engine.Query(ctx, s.Index, query.Request{
				Text:     prompts.UsageGuideQuery(),
				TopK:     st.cfg.QATopK,
				Category: query.CategoryGeneral,
			})
			if err != nil {
				st.logger.Logf("usage guide query failed, falling back to template: %v", err)
				s.RecordError("documentation: usage guide query failed: %v", err)
			} else {
				usageText = answer.Text
			}
		}
		docs["usage_guide"] = render.UsageGuide(in, usageText)
	}

	s.Documentation = docs
	return nil
}

// existingReadme returns the README that was checked out with the repository,
// if one made it through ingestion.
func existingReadme(s *State) (string, bool) {
	for _, name := range []string{"README.md", "readme.md", "README", "Readme.md"} {
		if content, ok := s.FilesContent[name]; ok {
			return content, true
		}
	}
	return "", false
}
