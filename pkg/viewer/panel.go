package viewer

import "fmt"

// Panel is the settings panel: a model selector and a wireframe toggle.
// The host draws it at the top right of the container from Lines.
type Panel struct {
	models    []string
	selected  int
	wireframe bool

	onSelect    func(filename string)
	onWireframe func(value bool)
}

func newPanel(models []string, onSelect func(string), onWireframe func(bool)) *Panel {
	return &Panel{
		models:      models,
		onSelect:    onSelect,
		onWireframe: onWireframe,
	}
}

// Models returns the selectable filenames.
func (p *Panel) Models() []string {
	return p.models
}

// SelectedModel returns the selected filename, or "" when there are no
// models.
func (p *Panel) SelectedModel() string {
	if len(p.models) == 0 {
		return ""
	}
	return p.models[p.selected]
}

// Select picks filename and loads it. Unknown names are ignored.
func (p *Panel) Select(filename string) bool {
	for i, m := range p.models {
		if m == filename {
			p.selected = i
			p.onSelect(m)
			return true
		}
	}
	return false
}

// Cycle moves the selection by delta, wrapping around, and loads the
// newly selected model.
func (p *Panel) Cycle(delta int) {
	n := len(p.models)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
	p.onSelect(p.models[p.selected])
}

// Wireframe returns the toggle's value.
func (p *Panel) Wireframe() bool {
	return p.wireframe
}

// SetWireframe changes the toggle and applies it.
func (p *Panel) SetWireframe(v bool) {
	p.wireframe = v
	p.onWireframe(v)
}

// ToggleWireframe flips the toggle.
func (p *Panel) ToggleWireframe() {
	p.SetWireframe(!p.wireframe)
}

// Lines returns the panel rows as text.
func (p *Panel) Lines() []string {
	check := " "
	if p.wireframe {
		check = "x"
	}
	return []string{
		fmt.Sprintf("Select Model  %s", p.SelectedModel()),
		fmt.Sprintf("Wireframe     [%s]", check),
	}
}
