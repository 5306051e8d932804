package main

import (
	"maps"
	"slices"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/vitrine/pkg/viewer"
)

// termDocument resolves the one container the terminal provides.
type termDocument struct {
	id        string
	container *termContainer
}

func (d termDocument) Container(id string) (viewer.Container, bool) {
	if id != d.id || d.container == nil {
		return nil, false
	}
	return d.container, true
}

// termContainer is the viewer's mount point inside the terminal. Sizes are
// in framebuffer pixels: a cell is one pixel wide and two pixels tall,
// drawn with the upper half block.
type termContainer struct {
	cols, rows int

	// Box set by SetSize. Zero follows the terminal.
	width, height int

	subs map[int]func()
	next int
}

func newTermContainer(cols, rows int) *termContainer {
	return &termContainer{cols: cols, rows: rows, subs: make(map[int]func())}
}

func (c *termContainer) Size() (width, height int) {
	width, height = c.cols, c.rows*2
	if c.width > 0 {
		width = c.width
	}
	if c.height > 0 {
		height = c.height
	}
	return width, height
}

func (c *termContainer) SetSize(width, height int) {
	c.width, c.height = width, height
}

// Resize records a new terminal size and notifies subscribers in the order
// they subscribed.
func (c *termContainer) Resize(cols, rows int) {
	c.cols, c.rows = cols, rows
	for _, id := range slices.Sorted(maps.Keys(c.subs)) {
		c.subs[id]()
	}
}

func (c *termContainer) OnResize(fn func()) viewer.Subscription {
	id := c.next
	c.next++
	c.subs[id] = fn
	return unsubscribe(func() { delete(c.subs, id) })
}

// Area returns the cells the container covers, clipped to the terminal.
func (c *termContainer) Area() uv.Rectangle {
	w, h := c.Size()
	return uv.Rect(0, 0, min(w, c.cols), min((h+1)/2, c.rows))
}

type unsubscribe func()

func (u unsubscribe) Close() { u() }
