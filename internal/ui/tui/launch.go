package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ec3io/ec3/internal/cluster"
)

// RunLaunchTUI drives a cluster launch behind the Bubble Tea dashboard.
// launchFn runs the launch itself, reporting progress through the
// observer it is handed. The returned error is the launch's own, never
// the rendering's.
func RunLaunchTUI(clusterName, region string, nodeNames []string, placementGroup bool, launchFn func(cluster.Observer) error) error {
	m := NewLaunchModel(clusterName, region, nodeNames, placementGroup)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Run the launch in a background goroutine, forwarding observer
	// events into the program. Every event is forwarded before the
	// final error or done message so the last frame is complete.
	go func() {
		ch := make(chan cluster.Event, 16)
		done := make(chan error, 1)
		go func() {
			defer close(ch)
			done <- launchFn(cluster.ChannelObserver(ch))
		}()

		for event := range ch {
			p.Send(ProgressMsg{Event: event})
		}

		if err := <-done; err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
