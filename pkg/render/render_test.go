package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

func sampleInput() Input {
	return Input{
		RepoURL:  "https://github.com/org/sample-project.git",
		FileList: []string{"main.py", "requirements.txt", "pkg/core.py", "README.md"},
		FilesContent: map[string]string{
			"pkg/core.py": "def run():\n    pass\n\nclass Engine:\n    pass\n",
		},
		Understanding: map[string]*query.Answer{
			"architecture": {Text: "A layered architecture with a thin CLI over a core engine."},
			"components":   {Text: `[{"name": "core", "purpose": "main logic", "location": "pkg/core.py"}]`},
			"dependencies": {Text: "Depends on requests and click."},
			"code_quality": {Text: "Generally consistent style.", Confidence: 0.7},
		},
		Questions: []string{"What is the purpose of this project?"},
		Answers: map[string]*query.Answer{
			"What is the purpose of this project?": {
				Text:    "It analyzes repositories. It also generates reports.",
				Sources: []query.Source{{Path: "main.py", Score: 0.9, Excerpt: "..."}},
			},
		},
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://github.com/org/project", want: "project"},
		{url: "https://github.com/org/project.git", want: "project"},
		{url: "https://gitlab.com/group/sub/tool/", want: "tool"},
		{url: "", want: "repository"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RepoName(tt.url), "url %q", tt.url)
	}
}

func TestReportSections(t *testing.T) {
	in := sampleInput()
	report := Report(in, []string{"Overview", "Architecture", "Key Components", "Dependencies", "Code Quality"})

	assert.Contains(t, report, "# Code Analysis Report: sample-project")
	assert.Contains(t, report, "## Overview")
	assert.Contains(t, report, "Total files analyzed: 4")
	assert.Contains(t, report, "A layered architecture")
	assert.Contains(t, report, "Depends on requests and click.")
	assert.Contains(t, report, "Generally consistent style.")
	assert.Contains(t, report, "Q: What is the purpose of this project?")
	assert.Contains(t, report, "- main.py")
	assert.Contains(t, report, "## Conclusion")

	// Deselected sections stay out.
	short := Report(in, []string{"Overview"})
	assert.NotContains(t, short, "## Architecture")
	assert.Contains(t, short, "## Questions and Answers")
}

func TestReadme(t *testing.T) {
	readme := Readme(sampleInput())

	assert.True(t, strings.HasPrefix(readme, "# sample-project"))
	assert.Contains(t, readme, "It analyzes repositories.", "description is the first sentence of the purpose answer")
	assert.NotContains(t, readme, "It also generates reports.")
	assert.Contains(t, readme, "pip install -r requirements.txt")
	assert.Contains(t, readme, "python main.py")
	assert.Contains(t, readme, "- **core**: main logic")
}

func TestReadmeInstallInference(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{name: "python requirements", files: []string{"requirements.txt"}, want: "pip install -r requirements.txt"},
		{name: "python setup", files: []string{"setup.py"}, want: "pip install ."},
		{name: "node", files: []string{"package.json"}, want: "npm install"},
		{name: "go", files: []string{"go.mod"}, want: "go build ./..."},
		{name: "rust", files: []string{"Cargo.toml"}, want: "cargo build"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{RepoURL: "https://github.com/org/x", FileList: tt.files}
			assert.Contains(t, Readme(in), tt.want)
		})
	}
}

func TestAPIDocsFromComponents(t *testing.T) {
	docs := APIDocs(sampleInput())

	require.Contains(t, docs, "core")
	doc := docs["core"]
	assert.Contains(t, doc, "# core API Documentation")
	assert.Contains(t, doc, "main logic")
	assert.Contains(t, doc, "`pkg/core.py`")
	assert.Contains(t, doc, "def run():")
	assert.Contains(t, doc, "class Engine:")
}

func TestAPIDocsFallback(t *testing.T) {
	in := sampleInput()
	in.Understanding["components"] = &query.Answer{Text: "no structured list here"}

	docs := APIDocs(in)
	require.Contains(t, docs, "API Reference")
	assert.Contains(t, docs["API Reference"], "Python Modules")
	assert.Contains(t, docs["API Reference"], "core.py")
}

func TestUsageGuide(t *testing.T) {
	guide := UsageGuide(sampleInput(), "Point the tool at a repository URL.")

	assert.Contains(t, guide, "# sample-project Usage Guide")
	assert.Contains(t, guide, "Point the tool at a repository URL.")
	assert.Contains(t, guide, "pip install -r requirements.txt")

	// Without a model answer the guide still renders.
	plain := UsageGuide(sampleInput(), "")
	assert.Contains(t, plain, "## Basic Usage")
}

func TestDrift(t *testing.T) {
	same := Drift("# project\n\nhello\n", "# project\n\nhello\n")
	assert.Contains(t, same, "matches")

	changed := Drift("# project\n\nold line\n", "# project\n\nnew line\nextra line\n")
	assert.Contains(t, changed, "2 lines added")
	assert.Contains(t, changed, "1 lines removed")
	assert.Contains(t, changed, "+ new line")
	assert.Contains(t, changed, "- old line")
	assert.Contains(t, changed, "```diff")
}

func TestRefactoringDoc(t *testing.T) {
	doc := RefactoringDoc([]query.Suggestion{
		{
			Category:    "code duplication",
			Description: "Extract the repeated validation into a helper.",
			Confidence:  0.7,
			Sources:     []query.Source{{Path: "pkg/a.go"}, {Path: "pkg/b.go"}},
		},
		{
			Category:    "test coverage",
			Description: "The parser package has no tests.",
			Confidence:  0.7,
		},
	})

	assert.Contains(t, doc, "# Refactoring Suggestions")
	assert.Contains(t, doc, "## 1. Code Duplication (confidence 0.70)")
	assert.Contains(t, doc, "## 2. Test Coverage (confidence 0.70)")
	assert.Contains(t, doc, "- `pkg/a.go`")
	assert.Contains(t, doc, "## Implementation Guidance")
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	out := Outputs{
		Report: "# Report\n",
		Documentation: map[string]string{
			"readme":          "# readme\n",
			"usage_guide":     "# guide\n",
			"readme_drift":    "# drift\n",
			"api/core":        "# core api\n",
			"api/http server": "# server api\n",
		},
		Suggestions: []query.Suggestion{{Category: "performance", Description: "d", Confidence: 0.7}},
	}
	require.NoError(t, WriteOutputs(dir, out))

	for _, rel := range []string{
		"report.md",
		"refactoring.md",
		"documentation/README.md",
		"documentation/usage_guide.md",
		"documentation/readme_drift.md",
		"documentation/api/core.md",
		"documentation/api/http_server.md",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoError(t, err, "missing %s", rel)
	}

	data, err := os.ReadFile(filepath.Join(dir, "documentation/README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(data))
}

func TestWriteOutputsSkipsEmptyPieces(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteOutputs(dir, Outputs{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing to write means nothing written")
}
