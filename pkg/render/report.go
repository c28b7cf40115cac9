package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Report assembles the analysis report from the understanding sections and
// answered questions. Section order follows the configured list; unknown
// section names are skipped.
func Report(in Input, sections []string) string {
	repoName := RepoName(in.RepoURL)

	var parts []string
	parts = append(parts, fmt.Sprintf("# Code Analysis Report: %s\n", repoName))
	parts = append(parts, "## Introduction\n")
	parts = append(parts, fmt.Sprintf(
		"This report provides an analysis of the codebase at %s. "+
			"It covers the architecture, key components, dependencies, and overall code quality.\n",
		in.RepoURL))

	for _, section := range sections {
		switch section {
		case "Overview":
			parts = append(parts, overviewSection(in))
		case "Architecture":
			parts = append(parts, understandingSection(in, "Architecture", "architecture"))
		case "Key Components":
			parts = append(parts, understandingSection(in, "Key Components", "components"))
		case "Dependencies":
			parts = append(parts, understandingSection(in, "Dependencies", "dependencies"))
		case "Code Quality":
			parts = append(parts, understandingSection(in, "Code Quality", "code_quality"))
		}
	}

	parts = append(parts, qaSection(in))
	parts = append(parts, "## Conclusion\n")
	parts = append(parts,
		"This report provides a comprehensive analysis of the codebase. "+
			"The findings and recommendations should be used to improve code quality "+
			"and to help new developers find their way around.\n")

	return strings.Join(parts, "\n")
}

func overviewSection(in Input) string {
	section := []string{"## Overview\n"}

	if purpose, ok := in.purposeAnswer(); ok {
		section = append(section, purpose+"\n")
	}

	section = append(section, "### File Statistics\n")
	section = append(section, fmt.Sprintf("- Total files analyzed: %d", len(in.FileList)))

	counts := map[string]int{}
	for _, f := range in.FileList {
		if ext := strings.ToLower(filepath.Ext(f)); ext != "" {
			counts[ext]++
		}
	}
	if len(counts) > 0 {
		exts := make([]string, 0, len(counts))
		for ext := range counts {
			exts = append(exts, ext)
		}
		sort.Slice(exts, func(i, j int) bool {
			if counts[exts[i]] != counts[exts[j]] {
				return counts[exts[i]] > counts[exts[j]]
			}
			return exts[i] < exts[j]
		})
		section = append(section, "- File types:")
		for _, ext := range exts {
			section = append(section, fmt.Sprintf("  - %s: %d", ext, counts[ext]))
		}
	}

	return strings.Join(section, "\n")
}

func understandingSection(in Input, title, key string) string {
	section := []string{fmt.Sprintf("## %s\n", title)}
	if text, ok := in.understandingText(key); ok {
		section = append(section, text+"\n")
	}
	return strings.Join(section, "\n")
}

func qaSection(in Input) string {
	section := []string{"## Questions and Answers\n"}

	for _, question := range in.Questions {
		answer, ok := in.Answers[question]
		if !ok || answer == nil {
			continue
		}
		section = append(section, fmt.Sprintf("### Q: %s\n", question))
		section = append(section, answer.Text+"\n")
		if len(answer.Sources) > 0 {
			section = append(section, "**Sources:**\n")
			for _, src := range answer.Sources {
				section = append(section, fmt.Sprintf("- %s", src.Path))
			}
		}
		section = append(section, "")
	}

	return strings.Join(section, "\n")
}
