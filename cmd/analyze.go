package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codeinsight-dev/codeinsight/pkg/config"
	"github.com/codeinsight-dev/codeinsight/pkg/index"
	"github.com/codeinsight-dev/codeinsight/pkg/llm"
	"github.com/codeinsight-dev/codeinsight/pkg/orchestration"
	"github.com/codeinsight-dev/codeinsight/pkg/query"
	"github.com/codeinsight-dev/codeinsight/pkg/render"
	"github.com/codeinsight-dev/codeinsight/pkg/repo"
	"github.com/codeinsight-dev/codeinsight/pkg/utils"
)

var (
	analyzeRepoURL   string
	analyzeOutputDir string
	analyzeModel     string
	analyzeEmbedding string
	analyzeTask      string
	analyzePolicy    string
	analyzeQuestions []string
	analyzeKeep      bool
	analyzeQuiet     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a repository with an LLM",
	Long: `Clone a repository, index its source files with embeddings, and run the
analysis pipeline: code understanding, question answering, report
generation, documentation generation, and refactoring suggestions.

A single task can be selected with --task (understand, qa, report, docs,
refactor); the default runs the full pipeline. With the default best_effort
policy a failed stage is recorded and later stages still get their chance;
fail_fast stops at the first failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		applyFlags(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := utils.GetLogger()
		logger.SetQuiet(cfg.Quiet)

		return runAnalysis(cmd.Context(), cfg)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRepoURL, "repo", "", "URL of the repository to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "./output", "directory for generated reports and documentation")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "generative model as provider:name, e.g. openai:gpt-4-turbo")
	analyzeCmd.Flags().StringVar(&analyzeEmbedding, "embedding-model", "", "embedding model as provider:name")
	analyzeCmd.Flags().StringVar(&analyzeTask, "task", orchestration.TaskAll, "task to run: all, understand, qa, report, docs, refactor")
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "execution policy: best_effort or fail_fast")
	analyzeCmd.Flags().StringArrayVar(&analyzeQuestions, "question", nil, "question to answer about the codebase (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeKeep, "keep-checkout", false, "keep the cloned repository instead of removing it")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "suppress progress output")
	_ = analyzeCmd.MarkFlagRequired("repo")
}

func applyFlags(cfg *config.Config) {
	if analyzeModel != "" {
		cfg.Model = analyzeModel
	}
	if analyzeEmbedding != "" {
		cfg.EmbeddingModel = analyzeEmbedding
	}
	if analyzePolicy != "" {
		cfg.ExecutionPolicy = analyzePolicy
	}
	if analyzeKeep {
		cfg.CleanupCheckout = false
	}
	cfg.Task = analyzeTask
	cfg.Quiet = analyzeQuiet
}

func runAnalysis(ctx context.Context, cfg *config.Config) error {
	logger := utils.GetLogger()

	state := orchestration.NewState(analyzeRepoURL, analyzeOutputDir)
	state.Questions = append(state.Questions, analyzeQuestions...)
	logger.SetCorrelationID(state.RunID)

	client := llm.NewClient(cfg.Model, cfg.EmbeddingModel)
	engine := query.NewEngine(client, client)

	ws := prepare(ctx, cfg, state, client)
	if ws != nil {
		defer ws.Close()
	}

	orch := orchestration.New(orchestration.DefaultStages(cfg, engine), cfg.ExecutionPolicy)
	if cfg.Task == orchestration.TaskAll {
		orch.Run(ctx, state)
	} else {
		if _, err := orch.RunTask(ctx, cfg.Task, state); err != nil {
			return err
		}
	}

	if err := render.WriteOutputs(analyzeOutputDir, render.Outputs{
		Report:        state.Report,
		Documentation: state.Documentation,
		Suggestions:   state.RefactoringSuggestions,
	}); err != nil {
		return err
	}
	if err := state.Save(filepath.Join(analyzeOutputDir, "state.json")); err != nil {
		return err
	}

	printSummary(state)
	return nil
}

// prepare acquires the repository and builds the embedding index. Failures
// are recorded on the state rather than returned, so the summary and saved
// state still describe what happened.
func prepare(ctx context.Context, cfg *config.Config, state *orchestration.State, embedder llm.Embedder) *repo.Workspace {
	logger := utils.GetLogger()
	manager := repo.NewManager(cfg)

	logger.LogProcessStep(fmt.Sprintf("Cloning %s...", state.RepoURL))
	ws, err := manager.Clone(ctx, state.RepoURL)
	if err != nil {
		state.RecordError("repository manager: %v", err)
		state.SetStatus(orchestration.StatusError)
		return nil
	}
	state.RepoPath = ws.Path

	files, err := manager.ListFiles(ws.Path)
	if err != nil {
		state.RecordError("repository manager: %v", err)
		state.SetStatus(orchestration.StatusError)
		return ws
	}
	state.FileList = files

	docs := manager.Ingest(ws.Path, files)
	for _, doc := range docs {
		state.FilesContent[doc.Path] = doc.Text
	}

	logger.LogProcessStep(fmt.Sprintf("Indexing %d files...", len(docs)))
	idx, err := index.Build(ctx, docs, cfg.ChunkSize, cfg.ChunkOverlap, embedder)
	if err != nil {
		state.RecordError("repository manager: %v", err)
		state.SetStatus(orchestration.StatusError)
		return ws
	}
	state.Index = idx

	state.SetStatus(orchestration.StatusRepoCloned)
	logger.Logf("indexed %d chunks from %d files", idx.Len(), len(docs))
	return ws
}

func printSummary(state *orchestration.State) {
	width := 72
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
			width = w
		}
	}
	divider := strings.Repeat("-", width)

	fmt.Println(divider)
	fmt.Printf("Analysis of %s\n", state.RepoURL)
	fmt.Printf("  status:      %s\n", state.Status)
	fmt.Printf("  files:       %d\n", len(state.FileList))
	fmt.Printf("  questions:   %d answered\n", len(state.Answers))
	fmt.Printf("  suggestions: %d\n", len(state.RefactoringSuggestions))
	fmt.Printf("  output:      %s\n", state.OutputDir)
	if len(state.Errors) > 0 {
		fmt.Printf("  errors (%d):\n", len(state.Errors))
		for _, e := range state.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
	fmt.Println(divider)
}
