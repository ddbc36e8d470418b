package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gachadeck/internal/bank"
	"github.com/abhisek/gachadeck/internal/ui/theme"
)

// MultiChoice is a lettered option selector. Options can be picked by
// moving the cursor and pressing enter, or directly by letter or number.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.submit(m.Selected)
	default:
		if i, ok := m.directIndex(k); ok {
			m.Selected = i
			m.submit(i)
		}
	}

	return m, nil
}

// directIndex maps "a".."z" and "1".."9" to an option index.
func (m MultiChoice) directIndex(k string) (int, bool) {
	i := -1
	if n, err := strconv.Atoi(k); err == nil {
		i = n - 1
	} else if len(k) == 1 && k[0] >= 'a' && k[0] <= 'z' {
		i = int(k[0] - 'a')
	}
	if i < 0 || i >= len(m.Options) {
		return 0, false
	}
	return i, true
}

func (m *MultiChoice) submit(i int) {
	if len(m.Options) == 0 {
		return
	}
	m.Submitted = true
	m.ChosenIndex = i
}

// View renders the options. Once submitted the correct option is green and
// a wrong pick red.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, bank.OptionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = theme.Correct
		case m.Submitted && i == m.ChosenIndex:
			style = theme.Incorrect
		case m.Submitted:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
