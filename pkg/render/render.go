// Package render formats analysis results as markdown documents and writes
// them to the output directory.
package render

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

// Input carries the analysis material the renderers format. It is a narrow
// view over the workflow state so this package stays independent of the
// orchestration machinery.
type Input struct {
	RepoURL       string
	FileList      []string
	FilesContent  map[string]string
	Understanding map[string]*query.Answer
	Questions     []string
	Answers       map[string]*query.Answer
}

// RepoName derives a short project name from a clone URL.
func RepoName(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" {
		return "repository"
	}
	return name
}

// purposeAnswer returns the answer to the first question about what the
// project is for, preserving the order questions were asked in.
func (in Input) purposeAnswer() (string, bool) {
	for _, question := range in.Questions {
		lower := strings.ToLower(question)
		if !strings.Contains(lower, "purpose") && !strings.Contains(lower, "what is") && !strings.Contains(lower, "what does") {
			continue
		}
		if answer, ok := in.Answers[question]; ok && answer != nil {
			return answer.Text, true
		}
	}
	return "", false
}

func (in Input) understandingText(key string) (string, bool) {
	if answer, ok := in.Understanding[key]; ok && answer != nil && answer.Text != "" {
		return answer.Text, true
	}
	return "", false
}

func (in Input) hasFile(names ...string) bool {
	return len(in.filesNamed(names...)) > 0
}

func (in Input) filesNamed(names ...string) []string {
	var out []string
	for _, f := range in.FileList {
		base := filepath.Base(f)
		for _, name := range names {
			if base == name {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
