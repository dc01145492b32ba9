package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/ui/theme"
)

// Choice is an option selector. In single mode enter picks the
// highlighted option; in multi mode space toggles and enter confirms.
type Choice struct {
	Options   []string
	Multi     bool
	Cursor    int
	Checked   map[int]bool
	Submitted bool
}

// NewChoice creates a selector over options.
func NewChoice(options []string, multi bool) Choice {
	return Choice{Options: options, Multi: multi, Checked: map[int]bool{}}
}

// Update handles keyboard navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Multi {
			c.Checked[c.Cursor] = !c.Checked[c.Cursor]
		}
	case "enter":
		if c.Multi && len(c.Selected()) == 0 {
			return c, nil
		}
		c.Submitted = true
	default:
		// Number keys jump to an option.
		var n int
		if _, err := fmt.Sscanf(key, "%d", &n); err == nil && n >= 1 && n <= len(c.Options) {
			c.Cursor = n - 1
		}
	}
	return c, nil
}

// Selected returns the chosen option texts in option order.
func (c Choice) Selected() []string {
	if !c.Multi {
		if c.Cursor < 0 || c.Cursor >= len(c.Options) {
			return nil
		}
		return []string{c.Options[c.Cursor]}
	}
	var out []string
	for i, opt := range c.Options {
		if c.Checked[i] {
			out = append(out, opt)
		}
	}
	return out
}

// View renders the option list.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Submitted {
			prefix = "▸ "
		}
		mark := ""
		if c.Multi {
			mark = "[ ] "
			if c.Checked[i] {
				mark = "[x] "
			}
		}
		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, mark, opt)

		style := theme.Unselected
		switch {
		case c.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
