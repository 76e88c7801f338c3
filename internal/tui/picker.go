// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Liblift.
// This file contains the interactive curation picker shown after a bundle
// has been staged: a checkbox list over the extracted dynamic libraries
// where the operator selects which ones to keep.
package tui // import "github.com/liblift/liblift/internal/tui"

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/liblift/liblift/internal/curate"
	"github.com/liblift/liblift/internal/i18n"
	"github.com/liblift/liblift/internal/model"
)

// pickerModel holds the state for the curation picker. The keep set itself
// lives on the session; the model only tracks presentation state.
type pickerModel struct {
	session   *curate.Session
	libraries []model.Artifact
	cursor    int
	status    string
	confirmed bool
	done      bool
	ready     bool
	vp        viewport.Model
	width     int
	height    int
}

// newPickerModel creates a picker over the session's libraries.
func newPickerModel(s *curate.Session) pickerModel {
	return pickerModel{
		session:   s,
		libraries: s.Libraries(),
	}
}

// Init initializes the model.
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model's state.
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - chromeLines(m.headerView())
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = bodyHeight
		}
		m.refreshBody()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.status = ""
		case "down", "j":
			if m.cursor < len(m.libraries)-1 {
				m.cursor++
			}
			m.status = ""
		case " ":
			if m.cursor < len(m.libraries) {
				m.session.Toggle(m.libraries[m.cursor].ID)
			}
			m.status = ""
		case "a":
			m.session.SelectAll()
			m.status = ""
		case "n":
			m.session.DeselectAll()
			m.status = ""
		case "enter":
			if m.session.KeptCount() == 0 {
				m.status = i18n.T("tui.curate_empty_keep")
				break
			}
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
		m.refreshBody()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// refreshBody re-renders the list into the viewport and keeps the cursor
// line visible.
func (m *pickerModel) refreshBody() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, lib := range m.libraries {
		mark := "[ ]"
		if m.session.IsKept(lib.ID) {
			mark = keptMarkStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  (%s)", mark, lib.Name, formatSize(lib.SizeBytes))
		if i == m.cursor {
			line = selectedItemStyle.Render("> " + line)
		} else {
			line = itemStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	m.vp.SetContent(b.String())

	// Scroll so the cursor stays inside the visible window.
	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	} else if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

// headerView renders the title and selection summary above the list.
func (m pickerModel) headerView() string {
	title := titleStyle.Render(i18n.T("tui.curate_title", m.session.DisplayName()))
	summary := helpStyle.Render(fmt.Sprintf("%d/%d", m.session.KeptCount(), len(m.libraries)))
	return title + "\n" + summary
}

// View renders the picker.
func (m pickerModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.vp.View())
	} else {
		m.refreshBodyless(&b)
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(i18n.T("tui.curate_help")))
	return docStyle.Render(b.String())
}

// refreshBodyless renders the list directly, used before the first
// WindowSizeMsg arrives.
func (m pickerModel) refreshBodyless(b *strings.Builder) {
	for i, lib := range m.libraries {
		mark := "[ ]"
		if m.session.IsKept(lib.ID) {
			mark = keptMarkStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  (%s)", mark, lib.Name, formatSize(lib.SizeBytes))
		if i == m.cursor {
			line = selectedItemStyle.Render("> " + line)
		} else {
			line = itemStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// chromeLines counts the lines View adds around the viewport body.
func chromeLines(header string) int {
	// header lines + blank + status/help area
	return strings.Count(header, "\n") + 1 + 2
}

// formatSize renders a byte count for the list view.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// RunCurationPicker runs the interactive picker over the session. It returns
// true when the operator confirmed the current keep set, false when they
// cancelled. The caller remains responsible for committing or aborting the
// session.
func RunCurationPicker(s *curate.Session) (bool, error) {
	p := tea.NewProgram(newPickerModel(s), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("curation picker failed: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok {
		return false, fmt.Errorf("curation picker returned unexpected model %T", final)
	}
	return m.confirmed, nil
}
