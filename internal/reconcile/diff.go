package reconcile

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a git-like unified diff between the committed document
// text and the corrected text. Returns an empty string when the texts are
// identical.
func Unified(original, updated string) string {
	if original == updated {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "committed",
		ToFile:   "correct",
		Context:  3,
	})
	if err != nil {
		// difflib only errors on writer failures, which a strings.Builder
		// cannot produce.
		return ""
	}
	return diff
}

// Colorize highlights added lines green and removed lines red for human
// consumption. Color is stripped automatically when output is not a TTY via
// fatih/color's built-in detection.
func Colorize(diff string) string {
	if diff == "" {
		return ""
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers keep their default color.
		case strings.HasPrefix(line, "+"):
			lines[i] = green.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = red.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}
