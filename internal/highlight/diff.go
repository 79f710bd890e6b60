package highlight

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Diff renders a unified diff from oldContent to newContent. It returns an
// empty string when the two are equal.
func (h *Highlighter) Diff(oldName, newName, oldContent, newContent string) string {
	edits := udiff.Strings(oldContent, newContent)
	unified, err := udiff.ToUnifiedDiff(oldName, newName, oldContent, edits, udiff.DefaultContextLines)
	if err != nil {
		return ""
	}
	return h.colorDiff(unified.String())
}

// colorDiff adds ANSI colors to diff output
func (h *Highlighter) colorDiff(diff string) string {
	if diff == "" {
		return ""
	}

	var result strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		body, newline := strings.CutSuffix(line, "\n")
		switch {
		case body == "":
		case strings.HasPrefix(body, "---") || strings.HasPrefix(body, "+++"):
			body = h.diffHeader.Sprint(body)
		case strings.HasPrefix(body, "-"):
			body = h.diffRemoved.Sprint(body)
		case strings.HasPrefix(body, "+"):
			body = h.diffAdded.Sprint(body)
		case strings.HasPrefix(body, "@@"):
			body = h.diffHunk.Sprint(body)
		}
		result.WriteString(body)
		if newline {
			result.WriteByte('\n')
		}
	}
	return result.String()
}
