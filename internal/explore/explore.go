// Package explore is an interactive terminal browser for the rendered report.
package explore

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salesinsight/salesinsight/internal/report"
)

// LoadFunc produces the report sections shown by the browser.
type LoadFunc func(ctx context.Context) ([]report.Section, error)

type loadedMsg struct {
	sections []report.Section
	err      error
}

// Model is the bubbletea model for browsing report sections.
type Model struct {
	ctx      context.Context
	load     LoadFunc
	loading  bool
	spinner  spinner.Model
	sections []report.Section
	err      error

	cursor  int
	viewing bool
	offset  int // first visible line of the open section

	width  int
	height int
}

// New creates a browser that calls load on start.
func New(ctx context.Context, load LoadFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctx:     ctx,
		load:    load,
		loading: true,
		spinner: s,
		width:   100,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		sections, err := load(ctx)
		return loadedMsg{sections: sections, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.sections = msg.sections
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		if m.viewing {
			return m.updateSection(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sections)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		if len(m.sections) > 0 {
			m.cursor = len(m.sections) - 1
		}
	case "enter":
		if len(m.sections) > 0 {
			m.viewing = true
			m.offset = 0
		}
	}
	return m, nil
}

func (m Model) updateSection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.viewing = false
	case "up", "k":
		m.offset--
	case "down", "j":
		m.offset++
	case "pgup", "b":
		m.offset -= m.bodyHeight()
	case "pgdown", " ", "f":
		m.offset += m.bodyHeight()
	case "home", "g":
		m.offset = 0
	case "end", "G":
		m.offset = len(m.lines())
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
			m.offset = 0
		}
	case "right", "l":
		if m.cursor < len(m.sections)-1 {
			m.cursor++
			m.offset = 0
		}
	}
	m.clampOffset()
	return m, nil
}

// bodyHeight is the number of report lines that fit under the header and footer.
func (m Model) bodyHeight() int {
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) lines() []string {
	if m.cursor >= len(m.sections) {
		return nil
	}
	body := strings.Trim(m.sections[m.cursor].Body, "\n")
	return strings.Split(body, "\n")
}

func (m *Model) clampOffset() {
	limit := len(m.lines()) - m.bodyHeight()
	if m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(titleStyle.Render("Relatório de Vendas") + "\n\n")
		b.WriteString(fmt.Sprintf("  %s Carregando dados e calculando análises...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString(titleStyle.Render("Relatório de Vendas") + "\n\n")
		b.WriteString(errStyle.Render("  Erro: "+m.err.Error()) + "\n\n")
		b.WriteString(dimStyle.Render("  q para sair") + "\n")
	case m.viewing:
		m.viewSection(&b)
	default:
		m.viewList(&b)
	}

	return b.String()
}

func (m Model) viewList(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Relatório de Vendas") + "\n\n")
	if len(m.sections) == 0 {
		b.WriteString(dimStyle.Render("  Nenhuma seção gerada") + "\n")
	}
	for i, s := range m.sections {
		if i == m.cursor {
			b.WriteString(highlightStyle.Render(fmt.Sprintf("> %2d. %s", i+1, s.Title)) + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  %2d. %s\n", i+1, s.Title))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navegar • enter abrir • q sair") + "\n")
}

func (m Model) viewSection(b *strings.Builder) {
	s := m.sections[m.cursor]
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d/%d)", s.Title, m.cursor+1, len(m.sections))) + "\n")

	lines := m.lines()
	end := m.offset + m.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[m.offset:end] {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  linhas %d-%d de %d • ↑/↓ rolar • ←/→ seção • esc voltar • q sair",
		m.offset+1, end, len(lines))) + "\n")
}

// Err returns the load error, if any.
func (m Model) Err() error {
	return m.err
}

// Run opens the browser in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, load LoadFunc) error {
	p := tea.NewProgram(New(ctx, load), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running report browser: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).BorderStyle(lipgloss.DoubleBorder()).BorderBottom(true).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
