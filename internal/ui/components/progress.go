package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewiz/internal/ui/theme"
)

// StepProgress shows the position in a multi-step flow as a bar of
// segments plus a "Step i of n" caption.
type StepProgress struct {
	Current int
	Total   int
	Width   int
}

// NewStepProgress creates a progress indicator for step current (0-based).
func NewStepProgress(current, total, width int) StepProgress {
	return StepProgress{Current: current, Total: total, Width: width}
}

// View renders the progress indicator.
func (p StepProgress) View() string {
	if p.Total <= 0 {
		return ""
	}
	caption := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Step %d of %d", p.Current+1, p.Total))

	barWidth := p.Width - lipgloss.Width(caption) - 2
	segWidth := barWidth/p.Total - 1
	if segWidth < 2 {
		segWidth = 2
	}

	segments := make([]string, p.Total)
	for i := range segments {
		style := theme.ProgressEmpty
		if i <= p.Current {
			style = theme.ProgressFilled
		}
		segments[i] = style.Render(strings.Repeat(" ", segWidth))
	}

	return strings.Join(segments, " ") + "  " + caption
}
