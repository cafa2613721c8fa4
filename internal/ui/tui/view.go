package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ec3io/ec3/internal/ui/benchmarks"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	// Header
	renderHeader(&b, m)

	// Progress bar (hidden once a rollback starts)
	if !m.RollingBack {
		renderProgressBar(&b, m)
	}

	// Launch phases
	renderPhases(&b, m)

	// Nodes
	renderNodes(&b, m)

	// Rollback steps
	if m.RollingBack || len(m.Rollback) > 0 {
		renderRollback(&b, m)
	}

	// Footer
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("ec3: %s", m.ClusterName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Running")
	case m.RollingBack:
		status += warningStyle.Render("Rolling back")
	default:
		if current := m.activePhase(); current != "" {
			status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(current)
		} else {
			status += dimStyle.Render("Starting...")
		}
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Launch"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		detail := ""
		if phase.Detail != "" {
			detail = " " + dimStyle.Render(phase.Detail)
		}
		fmt.Fprintf(b, "    %s %-18s%s\n", style(icon), style(phase.Name), detail)
	}
}

func renderNodes(b *strings.Builder, m Model) {
	if len(m.Nodes) == 0 {
		return
	}

	launched := 0
	for _, node := range m.Nodes {
		if node.State == nodeStateLaunched {
			launched++
		}
	}

	b.WriteString(sectionStyle.Render("  Nodes"))
	fmt.Fprintf(b, " %s\n", dimStyle.Render(fmt.Sprintf("%d/%d", launched, len(m.Nodes))))

	for _, node := range m.Nodes {
		icon, style := nodeStateIcon(m, node)

		var extra string
		switch node.State {
		case nodeStatePending:
			extra = dimStyle.Render("pending")
		case nodeStateRetrying:
			extra = warningStyle.Render(fmt.Sprintf("retry %d", node.Attempt))
			if node.Err != nil {
				extra += " " + dimStyle.Render(node.Err.Error())
			}
		case nodeStateFailed:
			extra = failedStyle.Render("failed")
			if node.Err != nil {
				extra += " " + dimStyle.Render(node.Err.Error())
			}
		default:
			extra = style(node.State)
		}

		dur := ""
		if !node.StartedAt.IsZero() {
			end := node.EndedAt
			if end.IsZero() {
				end = time.Now()
			}
			dur = dimStyle.Render(formatDuration(end.Sub(node.StartedAt)))
		}

		fmt.Fprintf(b, "      %s %-18s %s %s\n", style(icon), node.Name, extra, dur)
	}
}

func renderRollback(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Rollback"))
	b.WriteString("\n")

	for _, step := range m.Rollback {
		icon := checkMark
		style := sf(readyStyle)
		if step.Err != nil {
			icon = crossMark
			style = sf(failedStyle)
		}
		line := fmt.Sprintf("%s %s", step.Message, step.Resource)
		if step.Err != nil {
			line += ": " + step.Err.Error()
		}
		fmt.Fprintf(b, "    %s %s\n", style(icon), style(line))
	}

	if m.RollingBack && len(m.Rollback) == 0 {
		fmt.Fprintf(b, "    %s %s\n", activeStyle.Render(currentSpinner(m.SpinnerFrame)), dimStyle.Render("cleaning up"))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	pulse := ""
	if !m.Done && m.Err == nil {
		verb := "launching"
		if m.RollingBack {
			verb = "rolling back"
		}
		pulse = "  |  " + currentSpinner(m.SpinnerFrame) + " " + verb
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s%s  |  q: quit", elapsed, pulse)))
	b.WriteString("\n")
}

// Helper functions

func nodeStateIcon(m Model, node NodeRow) (string, styleFunc) {
	switch node.State {
	case nodeStateLaunched:
		return checkMark, sf(readyStyle)
	case nodeStateFailed:
		return crossMark, sf(failedStyle)
	case nodeStateTerminated:
		return crossMark, sf(dimStyle)
	case nodeStateRetrying:
		return warnMark, sf(warningStyle)
	case nodeStateLaunching:
		return currentSpinner(m.SpinnerFrame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress weighs each phase by its benchmark duration, with
// partial credit for the phase in flight.
func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}

	total := benchmarks.TotalEstimate()
	if total == 0 {
		return 0
	}

	var credit time.Duration
	for _, rec := range m.PhaseHistory {
		secs, ok := benchmarks.DefaultTimings[rec.Phase]
		if !ok {
			continue
		}
		expected := time.Duration(secs) * time.Second
		if rec.Done() {
			credit += expected
			continue
		}
		elapsed := time.Since(rec.StartedAt)
		if elapsed > expected {
			elapsed = expected
		}
		credit += elapsed
	}

	progress := float64(credit) / float64(total)
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
