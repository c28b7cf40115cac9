package prompts

import (
	"fmt"
	"strings"

	"github.com/codeinsight-dev/codeinsight/pkg/index"
)

// Synthesis builds the answer-synthesis prompt: the retrieved chunks with
// their source paths, followed by the question. The model is told to ground
// its answer in the provided context only.
func Synthesis(question string, matches []index.Match) string {
	var sb strings.Builder
	sb.WriteString("You are analyzing a software repository. Answer the question using only the code context below.\n")
	sb.WriteString("Cite file paths when relevant. If the context is insufficient, say so.\n\n")
	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("--- Context %d (source: %s) ---\n", i+1, m.Chunk.Path))
		sb.WriteString(m.Chunk.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n")
	return sb.String()
}

// --- Understanding stage queries ---

func ArchitectureQuery() string {
	return `Analyze the overall architecture of this codebase.
Consider:
1. What architectural patterns are used?
2. How is the code organized?
3. What are the main modules and their responsibilities?
4. How do the components interact with each other?

Format your response as a JSON object with the keys:
- patterns: list of architectural patterns identified
- structure: description of the code organization
- modules: object mapping main modules to their responsibilities
- interactions: description of how components interact`
}

func ComponentsQuery() string {
	return `Identify the key components in this codebase.
For each component, provide:
1. Name
2. Purpose
3. Location (file path)
4. Dependencies on other components
5. Key functionality

Focus on the most important components that are essential to understanding the codebase.
Format your response as a JSON list of component objects.`
}

func DependenciesQuery() string {
	return `Extract the dependencies of this codebase.
Consider:
1. External libraries and frameworks used
2. Third-party services integrated
3. Key internal dependencies between components

Format your response as a JSON object with the keys:
- external: list of external dependencies with versions if available
- services: list of third-party services used
- internal: object describing internal component dependencies`
}

func CodeQualityQuery() string {
	return `Analyze the code quality of this codebase.
Consider:
1. Code organization and cleanliness
2. Documentation quality
3. Test coverage
4. Maintainability
5. Potential issues or technical debt

Format your response as a JSON object with the keys:
- overall_score: numerical score from 1-10
- strengths: list of strengths in the codebase
- weaknesses: list of weaknesses or areas for improvement
- recommendations: list of recommendations to improve code quality`
}

// RefactoringQuery is one category of refactoring opportunity to probe for.
type RefactoringQuery struct {
	Category string
	Text     string
}

// DefaultRefactoringQueries returns the categories of refactoring
// opportunities the refactoring stage probes for, in a fixed order.
func DefaultRefactoringQueries() []RefactoringQuery {
	return []RefactoringQuery{
		{Category: "code duplication", Text: "Identify code duplication and suggest ways to reduce redundancy in this codebase"},
		{Category: "complex methods", Text: "Find complex methods or functions that should be simplified or broken down"},
		{Category: "performance", Text: "Identify performance bottlenecks or inefficient code patterns"},
		{Category: "architecture", Text: "Suggest improvements to the code architecture or organization"},
		{Category: "error-prone patterns", Text: "Find potential bugs or error-prone patterns in the code"},
		{Category: "coding standards", Text: "Identify violations of coding standards or best practices"},
		{Category: "error handling and logging", Text: "Suggest improvements to error handling and logging"},
		{Category: "test coverage", Text: "Identify opportunities to improve test coverage or testing approach"},
	}
}

// UsageGuideQuery asks for a usage walkthrough grounded in the entry points.
func UsageGuideQuery() string {
	return `Write a practical usage guide for this project.
Cover how to build or install it, how to run it, the main commands or entry
points, and one or two realistic usage examples. Use Markdown.`
}

// APIDocQuery asks for reference documentation for one component.
func APIDocQuery(component string) string {
	return fmt.Sprintf(`Write API reference documentation for the %q component of this codebase.
Document its public functions or endpoints, their parameters, return values,
and error behavior. Use Markdown.`, component)
}
