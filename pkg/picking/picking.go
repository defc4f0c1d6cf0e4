// Package picking turns raw pointer events on pin markers into semantic
// hover and select events. It does no geometric work itself; positions
// are forwarded from the route model's precomputed pins.
package picking

import (
	"sync"

	"globed/pkg/geom"
	"globed/pkg/route"
)

// SelectEvent carries a confirmed pin selection. ScreenX/ScreenY are the
// pointer's screen coordinates, passed through for tooltip placement and
// never used geometrically.
type SelectEvent struct {
	Name     string
	Position geom.Vec3
	ScreenX  float64
	ScreenY  float64
}

// HoverFunc receives hover changes. An empty name means no pin is
// hovered.
type HoverFunc func(name string, screenX, screenY float64)

// SelectFunc receives confirmed selections.
type SelectFunc func(ev SelectEvent)

// Controller fans pointer events out to registered listeners. Hover
// state is exclusive: entering a pin implicitly unhovers the previous
// one.
type Controller struct {
	mu       sync.Mutex
	pins     map[string]geom.Vec3
	hovered  string
	onHover  []HoverFunc
	onSelect []SelectFunc
}

// New creates a controller over the scene's pins.
func New(scene *route.Scene) *Controller {
	c := &Controller{}
	c.SetScene(scene)
	return c
}

// SetScene replaces the pin positions after a scene rebuild.
func (c *Controller) SetScene(scene *route.Scene) {
	pins := make(map[string]geom.Vec3, len(scene.Pins))
	for _, p := range scene.Pins {
		pins[p.Name] = p.Position
	}
	c.mu.Lock()
	c.pins = pins
	c.mu.Unlock()
}

// OnHover registers a hover listener.
func (c *Controller) OnHover(fn HoverFunc) {
	c.mu.Lock()
	c.onHover = append(c.onHover, fn)
	c.mu.Unlock()
}

// OnSelect registers a selection listener.
func (c *Controller) OnSelect(fn SelectFunc) {
	c.mu.Lock()
	c.onSelect = append(c.onSelect, fn)
	c.mu.Unlock()
}

// HoverEnter reports the pointer entering a pin marker. Unknown names
// are ignored; hovering the already-hovered pin is a no-op.
func (c *Controller) HoverEnter(name string, screenX, screenY float64) {
	c.mu.Lock()
	if _, ok := c.pins[name]; !ok || c.hovered == name {
		c.mu.Unlock()
		return
	}
	c.hovered = name
	listeners := append([]HoverFunc(nil), c.onHover...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(name, screenX, screenY)
	}
}

// HoverExit reports the pointer leaving the hovered pin.
func (c *Controller) HoverExit() {
	c.mu.Lock()
	if c.hovered == "" {
		c.mu.Unlock()
		return
	}
	c.hovered = ""
	listeners := append([]HoverFunc(nil), c.onHover...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn("", 0, 0)
	}
}

// Hovered returns the currently hovered pin name, or empty.
func (c *Controller) Hovered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// Click reports a click on a pin marker and emits a selection with the
// pin's precomputed position. Unknown names are ignored.
func (c *Controller) Click(name string, screenX, screenY float64) {
	c.mu.Lock()
	pos, ok := c.pins[name]
	listeners := append([]SelectFunc(nil), c.onSelect...)
	c.mu.Unlock()
	if !ok {
		return
	}

	ev := SelectEvent{Name: name, Position: pos, ScreenX: screenX, ScreenY: screenY}
	for _, fn := range listeners {
		fn(ev)
	}
}
