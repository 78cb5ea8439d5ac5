package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/service"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#50FA7B"))
	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F1FA8C"))
	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// RenderOutcome formats a flow outcome for the terminal.
func RenderOutcome(o *domain.FlowOutcome) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("%s run %s", o.Flow, o.RunID))}

	switch {
	case !o.Aborted():
		lines = append(lines, field("stage", okStyle.Render(string(o.Stage))))
	case errors.Is(o.Err, domain.ErrNoPriorResult):
		lines = append(lines, field("stage", warnStyle.Render(string(o.Stage))))
	default:
		lines = append(lines, field("stage", errStyle.Render(string(o.Stage))))
	}

	if o.Aborted() {
		lines = append(lines, field("failed at", string(o.FailedStage)))
		if o.Err != nil {
			lines = append(lines, field("reason", o.Err.Error()))
		}
	}
	if o.Flow == domain.FlowEvening {
		lines = append(lines, field("inspected", fmt.Sprintf("%d successful call(s)", o.Inspected)))
	}
	if o.CallID != "" {
		lines = append(lines, field("call", o.CallID))
		lines = append(lines, field("status", string(o.CallStatus)))
	}
	if !o.EndedAt.IsZero() && !o.StartedAt.IsZero() {
		lines = append(lines, field("took", o.EndedAt.Sub(o.StartedAt).Round(time.Millisecond).String()))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderInspection formats an inspection for the terminal.
func RenderInspection(in *service.Inspection) string {
	res := in.Resolution
	if !res.Found() {
		lines := []string{
			warnStyle.Render("No morning result found"),
			field("inspected", fmt.Sprintf("%d successful call(s)", res.Inspected)),
		}
		if in.Attempts > 1 {
			lines = append(lines, field("attempts", fmt.Sprintf("%d", in.Attempts)))
		}
		return boxStyle.Render(strings.Join(lines, "\n"))
	}

	lines := []string{
		titleStyle.Render("Latest morning result"),
		field("call", res.Call.ID),
	}
	if ts := res.Call.Timestamp(); ts != nil {
		lines = append(lines, field("ended", ts.Local().Format(time.RFC1123)))
	}
	lines = append(lines, field("inspected", fmt.Sprintf("%d successful call(s)", res.Inspected)))

	if len(in.Goals) > 0 {
		lines = append(lines, "", titleStyle.Render("Goals"))
		for i, goal := range in.Goals {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, goal))
		}
	} else {
		lines = append(lines, "", string(res.Result))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
