// Package diff renders line diffs between a mapping's local file and
// its repository copy for display before a sync.
package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	deletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	insertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Render returns a colored line diff from old to new content. Equal
// regions are printed unstyled; an empty string means no difference.
func Render(old, new string) string {
	if old == new {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(deletedStyle.Render(prefixLines("-", d.Text)))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(insertedStyle.Render(prefixLines("+", d.Text)))
		default:
			sb.WriteString(prefixLines(" ", d.Text))
		}
	}
	return sb.String()
}

func prefixLines(sign, text string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		sb.WriteString(sign)
		sb.WriteString(line)
	}
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
