package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ec3io/ec3/internal/cluster"
	"github.com/ec3io/ec3/internal/ui/benchmarks"
)

// LaunchPhase represents one launch phase row for display.
type LaunchPhase struct {
	Name   string
	Key    string
	Detail string
	Done   bool
	Active bool
	Err    error
}

// NodeRow tracks one node's launch progress for display.
type NodeRow struct {
	Name      string
	State     string
	Attempt   int
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// Node display states.
const (
	nodeStatePending    = ""
	nodeStateLaunching  = "launching"
	nodeStateRetrying   = "retrying"
	nodeStateLaunched   = "launched"
	nodeStateFailed     = "failed"
	nodeStateTerminated = "terminated"
)

// RollbackStep records one best-effort cleanup action after a failure.
type RollbackStep struct {
	Resource string
	Message  string
	Err      error
}

// Model is the Bubble Tea model for the launch dashboard.
type Model struct {
	// Cluster info
	ClusterName string
	Region      string

	// Launch state
	Phases      []LaunchPhase
	Nodes       []NodeRow
	RollingBack bool
	Rollback    []RollbackStep

	PhaseHistory []benchmarks.PhaseRecord

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewLaunchModel creates a model for the create command dashboard. The
// placement group row is only shown when the launch includes one.
func NewLaunchModel(clusterName, region string, nodeNames []string, placementGroup bool) Model {
	phases := []LaunchPhase{
		{Name: "Security Group", Key: cluster.PhaseSecurityGroup},
	}
	if placementGroup {
		phases = append(phases, LaunchPhase{Name: "Placement Group", Key: cluster.PhasePlacementGroup})
	}
	phases = append(phases,
		LaunchPhase{Name: "Launch Nodes", Key: cluster.PhaseNodes},
		LaunchPhase{Name: "Wait Running", Key: cluster.PhaseWaitRunning},
	)

	nodes := make([]NodeRow, 0, len(nodeNames))
	for _, name := range nodeNames {
		nodes = append(nodes, NodeRow{Name: name})
	}

	return Model{
		ClusterName:      clusterName,
		Region:           region,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
		Phases:           phases,
		Nodes:            nodes,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ProgressMsg:
		m.applyEvent(msg.Event)

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e cluster.Event) {
	switch e.Type {
	case cluster.EventPhaseStarted:
		if e.Phase == cluster.PhaseRollback {
			m.RollingBack = true
			return
		}
		m.startPhase(e.Phase)

	case cluster.EventPhaseCompleted:
		if e.Phase == cluster.PhaseRollback {
			return
		}
		m.endPhase(e.Phase, nil)

	case cluster.EventPhaseFailed:
		if e.Resource != "" && (e.Phase == cluster.PhaseNodes || e.Phase == cluster.PhaseWaitRunning) {
			m.setNode(e.Resource, nodeStateFailed, 0, e.Err)
		}
		m.endPhase(e.Phase, e.Err)

	case cluster.EventResourceCreated:
		m.setPhaseDetail(e.Phase, e.Resource)

	case cluster.EventResourceExists:
		m.setPhaseDetail(e.Phase, e.Resource+" (reused)")

	case cluster.EventNodeLaunching:
		m.setNode(e.Resource, nodeStateLaunching, 0, nil)

	case cluster.EventNodeRetrying:
		m.setNode(e.Resource, nodeStateRetrying, e.Attempt, e.Err)

	case cluster.EventNodeLaunched:
		m.setNode(e.Resource, nodeStateLaunched, 0, nil)

	case cluster.EventNodeTerminated:
		m.setNode(e.Resource, nodeStateTerminated, 0, nil)

	case cluster.EventRollbackStep:
		m.Rollback = append(m.Rollback, RollbackStep{Resource: e.Resource, Message: e.Message, Err: e.Err})
	}
}

func (m *Model) phaseIndex(key string) int {
	for i, phase := range m.Phases {
		if phase.Key == key {
			return i
		}
	}
	return -1
}

func (m *Model) startPhase(key string) {
	idx := m.phaseIndex(key)
	if idx < 0 {
		return
	}

	// A later phase starting closes out everything before it, including
	// phases the launch skipped.
	for i := 0; i < idx; i++ {
		if !m.Phases[i].Done {
			m.Phases[i].Done = true
			m.Phases[i].Active = false
			m.closeRecord(m.Phases[i].Key)
		}
	}

	m.Phases[idx].Active = true
	m.openRecord(key)
}

func (m *Model) endPhase(key string, err error) {
	m.closeRecord(key)

	idx := m.phaseIndex(key)
	if idx < 0 {
		return
	}
	m.Phases[idx].Active = false
	if err != nil {
		m.Phases[idx].Err = err
		return
	}
	m.Phases[idx].Done = true
}

func (m *Model) setPhaseDetail(key, detail string) {
	if idx := m.phaseIndex(key); idx >= 0 {
		m.Phases[idx].Detail = detail
	}
}

func (m *Model) openRecord(phase string) {
	for _, rec := range m.PhaseHistory {
		if rec.Phase == phase && !rec.Done() {
			return
		}
	}
	m.PhaseHistory = append(m.PhaseHistory, benchmarks.PhaseRecord{Phase: phase, StartedAt: time.Now()})
}

func (m *Model) closeRecord(phase string) {
	for i, rec := range m.PhaseHistory {
		if rec.Phase == phase && !rec.Done() {
			m.PhaseHistory[i].EndedAt = time.Now()
			return
		}
	}
}

func (m *Model) setNode(name, state string, attempt int, err error) {
	idx := -1
	for i := range m.Nodes {
		if m.Nodes[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Events for nodes outside the configured list still get a row.
		m.Nodes = append(m.Nodes, NodeRow{Name: name})
		idx = len(m.Nodes) - 1
	}

	now := time.Now()
	if m.Nodes[idx].StartedAt.IsZero() {
		m.Nodes[idx].StartedAt = now
	}
	switch state {
	case nodeStateLaunched, nodeStateFailed, nodeStateTerminated:
		m.Nodes[idx].EndedAt = now
	default:
		m.Nodes[idx].EndedAt = time.Time{}
	}

	m.Nodes[idx].State = state
	m.Nodes[idx].Attempt = attempt
	m.Nodes[idx].Err = err
}

// activePhase returns the key of the phase currently in flight, or "".
func (m Model) activePhase() string {
	for _, phase := range m.Phases {
		if phase.Active && !phase.Done && phase.Err == nil {
			return phase.Key
		}
	}
	return ""
}

func (m *Model) updateETA() {
	current := m.activePhase()
	if current == "" || m.Done || m.RollingBack {
		m.EstimatedRemaining = 0
		return
	}

	var phaseElapsed time.Duration
	for _, rec := range m.PhaseHistory {
		if !rec.Done() && rec.Phase == current {
			phaseElapsed = time.Since(rec.StartedAt)
			break
		}
	}

	m.PerformanceScale = benchmarks.PerformanceScale(current, phaseElapsed, m.PhaseHistory)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(current, phaseElapsed, m.PhaseHistory, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
