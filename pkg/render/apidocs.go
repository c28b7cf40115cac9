package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codeinsight-dev/codeinsight/pkg/parser"
)

// APIDocs generates per-component API documentation keyed by component name.
// When the components answer cannot be parsed into a structured list, a
// single fallback document is produced under "API Reference".
func APIDocs(in Input) map[string]string {
	docs := make(map[string]string)

	componentsText, ok := in.understandingText("components")
	if ok {
		result := parser.Parse(componentsText)
		for _, item := range result.Items {
			component, isMap := item.(map[string]any)
			if !isMap {
				continue
			}
			name, _ := component["name"].(string)
			if name == "" {
				continue
			}
			docs[name] = componentDoc(in, component)
		}
	}

	if len(docs) == 0 {
		docs["API Reference"] = fallbackAPIDoc(in)
	}
	return docs
}

func componentDoc(in Input, component map[string]any) string {
	name, _ := component["name"].(string)

	var sections []string
	sections = append(sections, fmt.Sprintf("# %s API Documentation\n", name))

	if purpose, ok := component["purpose"].(string); ok && purpose != "" {
		sections = append(sections, "## Purpose\n")
		sections = append(sections, purpose+"\n")
	}

	location, _ := component["location"].(string)
	if location != "" {
		sections = append(sections, "## Location\n")
		sections = append(sections, fmt.Sprintf("This component is located at: `%s`\n", location))
	}

	if deps, ok := component["dependencies"]; ok {
		sections = append(sections, "## Dependencies\n")
		switch v := deps.(type) {
		case []any:
			for _, dep := range v {
				sections = append(sections, fmt.Sprintf("- %v", dep))
			}
			sections = append(sections, "")
		case string:
			sections = append(sections, v+"\n")
		}
	}

	if functionality, ok := component["key_functionality"].(string); ok && functionality != "" {
		sections = append(sections, "## Key Functionality\n")
		sections = append(sections, functionality+"\n")
	}

	sections = append(sections, "## API Reference\n")
	if content, ok := in.FilesContent[location]; ok {
		sections = append(sections, declarationList(content))
	} else {
		sections = append(sections, "Detailed API reference information is not available for this component.\n")
	}

	return strings.Join(sections, "\n")
}

// declarationList extracts top-level function and type declarations from
// source text. This is a line scan, not a real parse, so it covers the
// common declaration shapes across the supported languages.
func declarationList(content string) string {
	var functions, types []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "def "),
			strings.HasPrefix(trimmed, "func "),
			strings.HasPrefix(trimmed, "function "):
			functions = append(functions, trimmed)
		case strings.HasPrefix(trimmed, "class "),
			strings.HasPrefix(trimmed, "type "):
			types = append(types, trimmed)
		}
	}

	var sections []string
	sections = append(sections, "### Functions\n")
	if len(functions) == 0 {
		sections = append(sections, "No functions found in this component.\n")
	} else {
		for _, fn := range functions {
			sections = append(sections, fmt.Sprintf("- `%s`", fn))
		}
		sections = append(sections, "")
	}

	sections = append(sections, "### Types\n")
	if len(types) == 0 {
		sections = append(sections, "No type declarations found in this component.\n")
	} else {
		for _, t := range types {
			sections = append(sections, fmt.Sprintf("- `%s`", t))
		}
		sections = append(sections, "")
	}

	return strings.Join(sections, "\n")
}

func fallbackAPIDoc(in Input) string {
	repoName := RepoName(in.RepoURL)

	var sections []string
	sections = append(sections, fmt.Sprintf("# %s API Documentation\n", repoName))
	sections = append(sections, "This document provides an overview of the API for this codebase.\n")

	byExt := map[string][]string{}
	for _, f := range in.FileList {
		ext := strings.ToLower(filepath.Ext(f))
		switch ext {
		case ".py", ".go", ".js", ".ts":
			byExt[ext] = append(byExt[ext], f)
		}
	}

	headings := []struct {
		ext   string
		title string
	}{
		{".py", "Python Modules"},
		{".go", "Go Packages"},
		{".js", "JavaScript Modules"},
		{".ts", "TypeScript Modules"},
	}

	for _, h := range headings {
		files := byExt[h.ext]
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		if len(files) > 10 {
			files = files[:10]
		}
		sections = append(sections, fmt.Sprintf("## %s\n", h.title))
		for _, f := range files {
			sections = append(sections, fmt.Sprintf("### %s\n", filepath.Base(f)))
			if content, ok := in.FilesContent[f]; ok {
				sections = append(sections, declarationList(content))
			}
		}
	}

	return strings.Join(sections, "\n")
}
