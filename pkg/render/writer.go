package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codeinsight-dev/codeinsight/pkg/query"
)

// Outputs bundles everything a run produces for writing to disk.
type Outputs struct {
	Report        string
	Documentation map[string]string
	Suggestions   []query.Suggestion
}

// WriteOutputs writes the report, documentation set, and refactoring
// suggestions under dir. Missing pieces are skipped so partial runs still
// produce whatever they managed to generate.
func WriteOutputs(dir string, out Outputs) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if out.Report != "" {
		if err := writeFile(filepath.Join(dir, "report.md"), out.Report); err != nil {
			return err
		}
	}

	if err := writeDocumentation(dir, out.Documentation); err != nil {
		return err
	}

	if len(out.Suggestions) > 0 {
		if err := writeFile(filepath.Join(dir, "refactoring.md"), RefactoringDoc(out.Suggestions)); err != nil {
			return err
		}
	}

	return nil
}

func writeDocumentation(dir string, docs map[string]string) error {
	if len(docs) == 0 {
		return nil
	}

	docDir := filepath.Join(dir, "documentation")

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var target string
		switch {
		case name == "readme":
			target = filepath.Join(docDir, "README.md")
		case name == "readme_drift":
			target = filepath.Join(docDir, "readme_drift.md")
		case name == "usage_guide":
			target = filepath.Join(docDir, "usage_guide.md")
		case strings.HasPrefix(name, "api/"):
			target = filepath.Join(docDir, "api", safeFilename(strings.TrimPrefix(name, "api/"))+".md")
		default:
			target = filepath.Join(docDir, safeFilename(name)+".md")
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create documentation directory: %w", err)
		}
		if err := writeFile(target, docs[name]); err != nil {
			return err
		}
	}

	return nil
}

// RefactoringDoc formats the suggestions as a single markdown document.
func RefactoringDoc(suggestions []query.Suggestion) string {
	titler := cases.Title(language.Und)

	var content []string
	content = append(content, "# Refactoring Suggestions\n")
	content = append(content, "This document contains suggestions for improving the codebase.\n")

	for i, suggestion := range suggestions {
		content = append(content, fmt.Sprintf("## %d. %s (confidence %.2f)\n",
			i+1, titler.String(suggestion.Category), suggestion.Confidence))
		content = append(content, suggestion.Description+"\n")
		if len(suggestion.Sources) > 0 {
			content = append(content, "**Affected files:**\n")
			for _, src := range suggestion.Sources {
				content = append(content, fmt.Sprintf("- `%s`", src.Path))
			}
			content = append(content, "")
		}
	}

	content = append(content, "## Implementation Guidance\n")
	content = append(content, "When implementing these suggestions, consider the following steps:\n")
	content = append(content,
		"1. **Prioritize**: Focus on changes that provide the most value with the least risk",
		"2. **Test**: Ensure adequate test coverage before making changes",
		"3. **Incremental**: Make changes incrementally rather than all at once",
		"4. **Review**: Have changes reviewed by peers to catch potential issues\n")

	return strings.Join(content, "\n")
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "component"
	}
	return cleaned
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
