package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/minhlq/curmap/pkg/dataset"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// levelCycle is the order the level key steps through.
var levelCycle = []dataset.Level{
	dataset.LevelIntroduce,
	dataset.LevelReinforce,
	dataset.LevelMaster,
	dataset.LevelAssess,
}

func nextLevel(l dataset.Level) dataset.Level {
	for i, c := range levelCycle {
		if c == l {
			return levelCycle[(i+1)%len(levelCycle)]
		}
	}
	return dataset.LevelIntroduce
}

// =============================================================================
// RelationListModel - Interactive relation editing
// =============================================================================

// RelationListModel is the bubbletea model for browsing and editing the
// outcome-course relations of a dataset. Edits apply to the dataset
// directly; Changes counts them so the command can report and persist.
type RelationListModel struct {
	ds        *dataset.Dataset
	relations []dataset.Relation
	Cursor    int
	Height    int
	Offset    int
	Changes   int
	status    string
}

// NewRelationListModel creates a relation editing model over ds.
func NewRelationListModel(ds *dataset.Dataset) RelationListModel {
	return RelationListModel{
		ds:        ds,
		relations: ds.Relations(),
		Height:    15,
	}
}

func (m RelationListModel) Init() tea.Cmd {
	return nil
}

func (m RelationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.relations)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "l", "enter":
			m = m.cycleLevel()
		case "d", "delete":
			m = m.deleteCurrent()
		case "u":
			m = m.undo()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// cycleLevel advances the selected relation's level one step.
func (m RelationListModel) cycleLevel() RelationListModel {
	if len(m.relations) == 0 {
		return m
	}
	rel := m.relations[m.Cursor]
	level := nextLevel(rel.Level)
	if err := m.ds.UpdateRelationLevel(rel.Key(), level); err != nil {
		m.status = err.Error()
		return m
	}
	m.Changes++
	m.status = fmt.Sprintf("%s %s %s set to %s", rel.Outcome, iconArrow, rel.CourseID, level)
	m.relations = m.ds.Relations()
	return m
}

// deleteCurrent removes the selected relation. The deletion lands on the
// undo stack.
func (m RelationListModel) deleteCurrent() RelationListModel {
	if len(m.relations) == 0 {
		return m
	}
	rel := m.relations[m.Cursor]
	if err := m.ds.DeleteRelation(rel.Key()); err != nil {
		m.status = err.Error()
		return m
	}
	m.Changes++
	m.status = fmt.Sprintf("deleted %s %s %s (u to undo)", rel.Outcome, iconArrow, rel.CourseID)
	m.relations = m.ds.Relations()
	if m.Cursor >= len(m.relations) && m.Cursor > 0 {
		m.Cursor--
	}
	return m
}

// undo restores the most recently deleted relation.
func (m RelationListModel) undo() RelationListModel {
	rel, err := m.ds.UndoDelete()
	if err != nil {
		m.status = "nothing to undo"
		return m
	}
	m.Changes++
	m.status = fmt.Sprintf("restored %s %s %s (%s)", rel.Outcome, iconArrow, rel.CourseID, rel.Level)
	m.relations = m.ds.Relations()
	return m
}

func (m RelationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit Relations"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  l cycle level  d delete  u undo  q quit"))
	b.WriteString("\n\n")

	if len(m.relations) == 0 {
		b.WriteString(listDimStyle.Render("  no relations"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.relations) {
		end = len(m.relations)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.relations[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		course := r.CourseID
		name := ""
		if c, ok := m.ds.Courses.Get(r.CourseID); ok {
			if c.Label != "" {
				course = c.Label
			}
			name = c.FullName
		}
		rows = append(rows, []string{cursor, r.Outcome, course, name, string(r.Level)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Outcome", "Course", "Name", "Level").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.relations) {
				return lipgloss.NewStyle()
			}
			r := m.relations[actualIdx]
			base := lipgloss.NewStyle()
			if col == 4 {
				if s, ok := levelStyles[r.Level]; ok {
					base = s
				}
			}
			if actualIdx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.relations))))
	if m.Changes > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d change(s)", m.Changes)))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  " + m.status))
	}

	return b.String()
}
