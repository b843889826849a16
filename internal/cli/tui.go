package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ArrangeModel - Interactive running order editing
// =============================================================================

// ArrangeModel is the bubbletea model behind "lineup arrange". It shows the
// current running order; acts can be moved and locked, and the scheduler
// refills every unlocked slot on request.
//
// Metrics always describe the order on screen: after a manual move the
// order is re-evaluated with every act held in place.
type ArrangeModel struct {
	ctx    context.Context
	roster *roster.Roster
	policy schedule.Policy

	Order    []string
	Locked   map[string]bool
	Result   *schedule.Result
	Cursor   int
	Accepted bool
	Err      error

	Height int
	Offset int
}

// NewArrangeModel schedules r with the given pins and returns a model
// showing the result. Pinned acts start locked.
func NewArrangeModel(ctx context.Context, r *roster.Roster, policy schedule.Policy, overrides []schedule.Override) (ArrangeModel, error) {
	m := ArrangeModel{
		ctx:    ctx,
		roster: r,
		policy: policy,
		Locked: make(map[string]bool, len(overrides)),
		Height: 20,
	}
	for _, o := range overrides {
		m.Locked[o.Act] = true
	}
	res, err := schedule.Schedule(ctx, r, policy, overrides)
	if err != nil {
		return m, err
	}
	m.Result = res
	m.Order = append([]string(nil), res.Order...)
	return m, nil
}

// Overrides returns the locked acts at their current positions.
func (m ArrangeModel) Overrides() []schedule.Override {
	var out []schedule.Override
	for i, name := range m.Order {
		if m.Locked[name] {
			out = append(out, schedule.Override{Round: i, Act: name})
		}
	}
	return out
}

// Policy returns the policy used for rescheduling.
func (m ArrangeModel) Policy() schedule.Policy { return m.policy }

func (m ArrangeModel) Init() tea.Cmd {
	return nil
}

func (m ArrangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.Accepted = true
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "shift+up", "K":
			m.swap(-1)
		case "shift+down", "J":
			m.swap(1)
		case " ", "l":
			if len(m.Order) > 0 {
				name := m.Order[m.Cursor]
				m.Locked[name] = !m.Locked[name]
			}
		case "r":
			m.reschedule()
		case "p":
			m.policy = otherPolicy(m.policy)
			m.reschedule()
		case "c":
			clear(m.Locked)
			m.reschedule()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m *ArrangeModel) moveCursor(d int) {
	next := m.Cursor + d
	if next < 0 || next >= len(m.Order) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// swap moves the act under the cursor by d and locks it there.
func (m *ArrangeModel) swap(d int) {
	next := m.Cursor + d
	if next < 0 || next >= len(m.Order) {
		return
	}
	m.Order[m.Cursor], m.Order[next] = m.Order[next], m.Order[m.Cursor]
	m.Locked[m.Order[next]] = true
	m.moveCursor(d)
	m.evaluate()
}

// evaluate recomputes metrics for the order exactly as shown.
func (m *ArrangeModel) evaluate() {
	all := make([]schedule.Override, len(m.Order))
	for i, name := range m.Order {
		all[i] = schedule.Override{Round: i, Act: name}
	}
	res, err := schedule.Schedule(m.ctx, m.roster, m.policy, all)
	if err != nil {
		m.Err = err
		return
	}
	m.Result = res
}

// reschedule keeps locked acts where they are and lets the scheduler place
// the rest.
func (m *ArrangeModel) reschedule() {
	res, err := schedule.Schedule(m.ctx, m.roster, m.policy, m.Overrides())
	if err != nil {
		m.Err = err
		return
	}
	m.Result = res
	m.Order = append(m.Order[:0], res.Order...)
}

func otherPolicy(p schedule.Policy) schedule.Policy {
	if p == schedule.MinimizeRisk {
		return schedule.MaximizeRest
	}
	return schedule.MinimizeRisk
}

func (m ArrangeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Arrange Running Order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  K/J move  space lock  r reschedule  p policy  c unlock all  ⏎ accept  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Order))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		name := m.Order[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		lock := ""
		if m.Locked[name] {
			lock = iconLocked
		}
		cast := ""
		if a, ok := m.roster.Act(name); ok {
			cast = strconv.Itoa(len(a.Performers))
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i + 1), name, cast, lock, m.restNote(i)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Act", "Cast", "Lock", "Rest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if col == 5 && m.Result != nil && idx < len(m.Result.Rounds) {
				switch r := m.Result.Rounds[idx]; {
				case len(r.Instant) > 0:
					return StyleDanger
				case len(r.Quick) > 0:
					return StyleWarning
				}
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if m.Result != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %d quick changes · %d instant conflicts",
			m.policy, m.Result.Metrics.QuickChanges, m.Result.Metrics.InstantConflicts)))
	}
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleDanger.Render("  " + lerrors.UserMessage(m.Err)))
	}
	return b.String()
}

// restNote names the performers in round i who had little or no rest.
func (m ArrangeModel) restNote(i int) string {
	if m.Result == nil || i >= len(m.Result.Rounds) {
		return ""
	}
	r := m.Result.Rounds[i]
	switch {
	case len(r.Instant) > 0:
		return "again: " + strings.Join(r.Instant, ", ")
	case len(r.Quick) > 0:
		return "quick: " + strings.Join(r.Quick, ", ")
	}
	return ""
}
