package render

import (
	"fmt"
	"strings"

	"github.com/codeinsight-dev/codeinsight/pkg/parser"
)

// Readme generates a README for the analyzed repository.
func Readme(in Input) string {
	repoName := RepoName(in.RepoURL)

	var sections []string
	sections = append(sections, fmt.Sprintf("# %s\n", repoName))

	description := "A software project."
	if purpose, ok := in.purposeAnswer(); ok {
		if idx := strings.Index(purpose, "."); idx >= 0 {
			description = purpose[:idx+1]
		} else {
			description = purpose
		}
	}
	sections = append(sections, description+"\n")

	sections = append(sections, "## Table of Contents\n")
	sections = append(sections,
		"- [Overview](#overview)",
		"- [Installation](#installation)",
		"- [Usage](#usage)",
		"- [Architecture](#architecture)",
		"- [API Documentation](#api-documentation)",
		"- [Contributing](#contributing)",
		"- [License](#license)\n")

	sections = append(sections, "## Overview\n")
	if arch, ok := in.understandingText("architecture"); ok {
		words := strings.Fields(arch)
		if len(words) > 100 {
			sections = append(sections, strings.Join(words[:100], " ")+"...\n")
		} else {
			sections = append(sections, arch+"\n")
		}
	} else {
		sections = append(sections, "This project provides...\n")
	}

	sections = append(sections, "## Installation\n")
	sections = append(sections, "```bash")
	sections = append(sections, fmt.Sprintf("git clone %s", in.RepoURL))
	sections = append(sections, fmt.Sprintf("cd %s", repoName))
	if cmd := installCommand(in); cmd != "" {
		sections = append(sections, cmd)
	}
	sections = append(sections, "```\n")

	sections = append(sections, "## Usage\n")
	sections = append(sections, "Basic usage instructions:\n")
	sections = append(sections, usageExample(in))

	sections = append(sections, "## Architecture\n")
	if components, ok := in.understandingText("components"); ok {
		sections = append(sections, "The codebase is organized into the following components:\n")
		sections = append(sections, componentList(components))
	} else {
		sections = append(sections, "The project architecture consists of multiple interconnected components.\n")
	}

	sections = append(sections, "## API Documentation\n")
	sections = append(sections, "For detailed API documentation, please refer to the `documentation/api` directory.\n")

	sections = append(sections, "## Contributing\n")
	sections = append(sections, "Contributions are welcome! Please feel free to submit a Pull Request.\n")

	sections = append(sections, "## License\n")
	sections = append(sections, "Please see the LICENSE file for details.\n")

	return strings.Join(sections, "\n")
}

// installCommand infers an install step from the build files present.
func installCommand(in Input) string {
	switch {
	case in.hasFile("requirements.txt"):
		return "pip install -r requirements.txt"
	case in.hasFile("setup.py"):
		return "pip install ."
	case in.hasFile("package.json"):
		return "npm install"
	case in.hasFile("go.mod"):
		return "go build ./..."
	case in.hasFile("Cargo.toml"):
		return "cargo build"
	}
	return ""
}

func usageExample(in Input) string {
	mains := in.filesNamed("main.py", "app.py", "index.js", "server.js", "main.go")
	if len(mains) == 0 {
		return "Please refer to the documentation for detailed usage examples.\n"
	}

	main := mains[0]
	switch {
	case strings.HasSuffix(main, ".py"):
		return fmt.Sprintf("```bash\npython %s\n```\n", main)
	case strings.HasSuffix(main, ".js"):
		return fmt.Sprintf("```bash\nnode %s\n```\n", main)
	case strings.HasSuffix(main, ".go"):
		return fmt.Sprintf("```bash\ngo run %s\n```\n", main)
	}
	return "Please refer to the documentation for detailed usage examples.\n"
}

// componentList formats the components answer as a bullet list. When the
// model returned a JSON array the name and purpose fields are pulled out;
// otherwise the raw text is used.
func componentList(componentsText string) string {
	result := parser.Parse(componentsText)
	if len(result.Items) == 0 {
		return componentsText
	}

	var lines []string
	for _, item := range result.Items {
		component, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := component["name"].(string)
		if name == "" {
			continue
		}
		purpose, _ := component["purpose"].(string)
		lines = append(lines, fmt.Sprintf("- **%s**: %s", name, purpose))
	}
	if len(lines) == 0 {
		return componentsText
	}
	return strings.Join(lines, "\n")
}
