package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/wavelink/internal/model"
)

// ErrNoSelection is returned when the picker is closed without choosing.
var ErrNoSelection = errors.New("nothing selected")

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)
)

type pickItem struct {
	id    string
	title string
	desc  string
}

func (i pickItem) Title() string       { return i.title }
func (i pickItem) Description() string { return i.desc }
func (i pickItem) FilterValue() string { return i.title }

// PickerModel is a filterable list that returns the id of the chosen entry.
type PickerModel struct {
	list     list.Model
	selected string
	quitting bool
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		// keys typed into the filter belong to the list
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(pickItem); ok {
				m.selected = i.id
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

// Selected returns the chosen id.
func (m PickerModel) Selected() (string, bool) {
	return m.selected, m.selected != ""
}

func newPicker(title string, items []list.Item) PickerModel {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return PickerModel{list: l}
}

// NewDevicePicker lists devices in roster order.
func NewDevicePicker(devices []model.Device) PickerModel {
	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = pickItem{
			id:    d.ID,
			title: d.Name,
			desc:  fmt.Sprintf("%s@%s (%s) | %d task(s)", d.User, d.Host, d.IP, d.TaskCount),
		}
	}

	return newPicker("Devices", items)
}

// NewTaskPicker lists the tasks of one device in sequence order.
func NewTaskPicker(device model.Device) PickerModel {
	items := make([]list.Item, len(device.Tasks))
	for i, t := range device.Tasks {
		audio := "no audio"
		if t.HasAudio() {
			audio = "audio"
		}

		items[i] = pickItem{
			id:    t.ID,
			title: fmt.Sprintf("#%d %s", t.Number, t.Name),
			desc:  fmt.Sprintf("%s | %s | %s", t.Time, audio, t.Description),
		}
	}

	return newPicker("Tasks on "+device.Name, items)
}

// Pick runs the picker on the terminal and returns the chosen id.
func Pick(m PickerModel) (string, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}

	id, ok := final.(PickerModel).Selected()
	if !ok {
		return "", ErrNoSelection
	}

	return id, nil
}
