package render

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Drift compares the README committed to the repository with the generated
// one and reports the line-level differences as a markdown document.
func Drift(existing, generated string) string {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(existing, generated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var added, removed int
	var body strings.Builder
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		for _, line := range lines {
			if d.Type == diffmatchpatch.DiffInsert {
				added++
				body.WriteString("+ " + line + "\n")
			} else {
				removed++
				body.WriteString("- " + line + "\n")
			}
		}
	}

	if added == 0 && removed == 0 {
		return "# README Drift\n\nThe generated README matches the one in the repository.\n"
	}

	var sb strings.Builder
	sb.WriteString("# README Drift\n\n")
	sb.WriteString(fmt.Sprintf(
		"The generated README differs from the repository README: %d lines added, %d lines removed.\n\n",
		added, removed))
	sb.WriteString("```diff\n")
	sb.WriteString(body.String())
	sb.WriteString("```\n")
	return sb.String()
}
