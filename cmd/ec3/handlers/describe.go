package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ec3io/ec3/internal/cluster"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	statusColorGreen  = lipgloss.Color("#22c55e")
	statusColorRed    = lipgloss.Color("#ef4444")
	statusColorYellow = lipgloss.Color("#eab308")
	statusColorBlue   = lipgloss.Color("#3b82f6")
	statusColorDim    = lipgloss.Color("#6b7280")
	statusColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorWhite)

	statusSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorBlue)

	statusDimStyle = lipgloss.NewStyle().
			Foreground(statusColorDim)

	statusGreenStyle = lipgloss.NewStyle().
				Foreground(statusColorGreen)

	statusYellowStyle = lipgloss.NewStyle().
				Foreground(statusColorYellow)

	statusRedStyle = lipgloss.NewStyle().
			Foreground(statusColorRed)
)

// Describe prints a table of the cluster's nodes and addresses.
func Describe(ctx context.Context, configPath string) error {
	cfg, api, err := loadCluster(ctx, configPath)
	if err != nil {
		return err
	}

	c := newCluster(cfg, api)
	statuses, err := c.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Print(renderStatus(cfg.ClusterName, cfg.Region, statuses))
	return nil
}

// renderStatus produces a lipgloss-styled node table string.
func renderStatus(clusterName, region string, statuses []cluster.NodeStatus) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(statusTitleStyle.Render(fmt.Sprintf("  ec3: %s (%s)", clusterName, region)))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(statusSectionStyle.Render("  Nodes"))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("─", 78)))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render(fmt.Sprintf("  %-14s %-20s %-14s %-16s %-16s",
		"Node", "Instance", "State", "Public IP", "Private IP")))
	b.WriteString("\n")

	running := 0
	for _, st := range statuses {
		if st.State == "running" {
			running++
		}
		fmt.Fprintf(&b, "  %-14s %-20s %s %-16s %-16s\n",
			st.Name,
			orDash(st.InstanceID),
			stateStyle(st.State).Render(fmt.Sprintf("%-14s", st.State)),
			orDash(st.PublicIP),
			orDash(st.PrivateIP),
		)
	}
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("─", 78)))
	b.WriteString("\n\n")

	switch {
	case running == len(statuses):
		b.WriteString(statusGreenStyle.Render(fmt.Sprintf("  %d/%d nodes running", running, len(statuses))))
	case running == 0:
		b.WriteString(statusDimStyle.Render("  cluster is down"))
	default:
		b.WriteString(statusYellowStyle.Render(fmt.Sprintf("  %d/%d nodes running", running, len(statuses))))
	}
	b.WriteString("\n")

	return b.String()
}

// stateStyle picks the color for an instance state.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return statusGreenStyle
	case "pending":
		return statusYellowStyle
	case "absent":
		return statusDimStyle
	default:
		return statusRedStyle
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
