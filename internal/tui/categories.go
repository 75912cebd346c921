package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/lifelog/internal/model"
	"github.com/sadopc/lifelog/internal/tracker"
)

type categoriesModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	categories []model.Category
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formName        *string
	formColor       *string
	formIcon        *string
	formDescription *string

	editing model.Category
}

func newCategoriesModel(t *tracker.Tracker) categoriesModel {
	name, color, icon, desc := "", model.PresetColors[0], "", ""
	return categoriesModel{
		tracker:         t,
		formName:        &name,
		formColor:       &color,
		formIcon:        &icon,
		formDescription: &desc,
	}
}

func (c *categoriesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type categoriesDataMsg struct {
	categories []model.Category
}

func (c categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		cats, err := c.tracker.Categories()
		if err != nil {
			return errStatus("Load categories", err)
		}
		return categoriesDataMsg{categories: cats}
	}
}

func (c categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoriesDataMsg:
		c.categories = msg.categories
		if c.cursor >= len(c.categories) {
			c.cursor = max(0, len(c.categories)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.categories)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showNewForm()
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(c.categories) > 0 {
				return c.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(c.categories) > 0 {
				return c, c.deleteCategory(c.categories[c.cursor])
			}
		}
	}
	return c, nil
}

func colorOptions(current string) []huh.Option[string] {
	colors := model.PresetColors
	if current != "" && !slices.Contains(colors, current) {
		colors = append([]string{current}, colors...)
	}
	opts := make([]huh.Option[string], len(colors))
	for i, col := range colors {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", colorDot(col), col), col)
	}
	return opts
}

func validCategoryName(s string) error {
	return model.ValidateCategory(s, model.PresetColors[0])
}

func (c categoriesModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").CharLimit(model.CategoryNameMaxLength).
				Validate(validCategoryName).Value(c.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions(*c.formColor)...).Value(c.formColor),
			huh.NewInput().Title("Icon (emoji)").Value(c.formIcon),
			huh.NewInput().Title("Description").Value(c.formDescription),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (c categoriesModel) showNewForm() (categoriesModel, tea.Cmd) {
	*c.formName = ""
	*c.formColor = model.PresetColors[len(c.categories)%len(model.PresetColors)]
	*c.formIcon = ""
	*c.formDescription = ""
	c.formType = "new"

	c.form = c.buildForm()
	c.formActive = true
	return c, c.form.Init()
}

func (c categoriesModel) showEditForm() (categoriesModel, tea.Cmd) {
	cat := c.categories[c.cursor]
	*c.formName = cat.Name
	*c.formColor = cat.Color
	*c.formIcon = cat.Icon
	*c.formDescription = cat.Description
	c.formType = "edit"
	c.editing = cat

	c.form = c.buildForm()
	c.formActive = true
	return c, c.form.Init()
}

func (c categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		c.form = nil
		return c, c.save()
	}
	return c, cmd
}

// save writes the submitted form and reloads the list.
func (c categoriesModel) save() tea.Cmd {
	name := strings.TrimSpace(*c.formName)
	var err error
	switch c.formType {
	case "new":
		_, err = c.tracker.Store().CreateCategory(name, *c.formColor, *c.formIcon, *c.formDescription)
	case "edit":
		cat := c.editing
		cat.Name, cat.Color, cat.Icon, cat.Description = name, *c.formColor, *c.formIcon, *c.formDescription
		err = c.tracker.Store().UpdateCategory(cat)
	}
	if err != nil {
		return func() tea.Msg { return errStatus("Save category", err) }
	}
	return tea.Batch(c.refresh(), func() tea.Msg { return statusMsg{text: "Category saved"} })
}

func (c categoriesModel) deleteCategory(cat model.Category) tea.Cmd {
	if err := c.tracker.Store().DeleteCategory(cat.ID); err != nil {
		return func() tea.Msg { return errStatus("Delete "+cat.Name, err) }
	}
	return tea.Batch(c.refresh(), func() tea.Msg { return statusMsg{text: "Deleted " + cat.Name} })
}

func (c categoriesModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Category")
		if c.formType == "edit" {
			title = titleStyle.Render("Edit Category")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Categories")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %s %s %s", "", pad("Name", 24), pad("Color", 10), "Preset")))

	for i, cat := range c.categories {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		preset := ""
		if cat.IsDefault {
			preset = "✓"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s %s %s", cursor, colorDot(cat.Color),
			pad(cat.Icon+" "+cat.Name, 24), pad(cat.Color, 10), preset)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete (custom and unused only)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
