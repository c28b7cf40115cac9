package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UsageGuide generates a usage guide. modelText, when non-empty, is an
// answer from the query engine describing how the project is used; it is
// placed under Basic Usage ahead of the inferred commands.
func UsageGuide(in Input, modelText string) string {
	repoName := RepoName(in.RepoURL)

	var sections []string
	sections = append(sections, fmt.Sprintf("# %s Usage Guide\n", repoName))
	sections = append(sections, "This guide provides instructions on how to use this software effectively.\n")

	sections = append(sections, "## Table of Contents\n")
	sections = append(sections,
		"- [Installation](#installation)",
		"- [Configuration](#configuration)",
		"- [Basic Usage](#basic-usage)",
		"- [Troubleshooting](#troubleshooting)\n")

	sections = append(sections, "## Installation\n")
	sections = append(sections, "```bash")
	sections = append(sections, fmt.Sprintf("git clone %s", in.RepoURL))
	sections = append(sections, fmt.Sprintf("cd %s", repoName))
	if cmd := installCommand(in); cmd != "" {
		sections = append(sections, cmd)
	}
	sections = append(sections, "```\n")

	sections = append(sections, "## Configuration\n")
	sections = append(sections, configurationSection(in))

	sections = append(sections, "## Basic Usage\n")
	if modelText != "" {
		sections = append(sections, modelText+"\n")
	}
	sections = append(sections, usageExample(in))

	sections = append(sections, "## Troubleshooting\n")
	sections = append(sections, "If you encounter issues not covered in this guide, please:")
	sections = append(sections,
		"- Check the documentation",
		"- Look for similar issues in the project's issue tracker",
		"- Open a new issue if needed\n")

	return strings.Join(sections, "\n")
}

func configurationSection(in Input) string {
	configFiles := in.filesNamed(
		"config.py", "settings.py", "config.json", ".env.example",
		"config.js", "config.yml", "config.yaml")
	if len(configFiles) == 0 {
		return "This software does not require specific configuration files.\n"
	}

	var section []string
	section = append(section, "The software can be configured using the following files:\n")
	for _, f := range configFiles {
		section = append(section, fmt.Sprintf("- `%s`", f))
	}

	// Show a short sample from the first config file we have content for.
	for _, f := range configFiles {
		content, ok := in.FilesContent[f]
		if !ok {
			continue
		}
		lang := strings.TrimPrefix(filepath.Ext(f), ".")
		lines := strings.Split(content, "\n")
		sample := lines
		if len(sample) > 10 {
			sample = sample[:10]
		}
		section = append(section, "\nExample configuration:\n")
		section = append(section, "```"+lang)
		section = append(section, strings.Join(sample, "\n"))
		if len(lines) > 10 {
			section = append(section, "# ... more configuration options ...")
		}
		section = append(section, "```")
		break
	}

	section = append(section, "")
	return strings.Join(section, "\n")
}
