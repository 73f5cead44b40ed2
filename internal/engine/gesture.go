/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package engine

import (
	"errors"

	"log/slog"

	"layoutsmith/internal/domain"
	"layoutsmith/internal/geom"
)

// GestureKind distinguishes drag from resize.
type GestureKind int

const (
	GestureDrag GestureKind = iota
	GestureResize
)

// Edge is a bitmask of resize handles; resizing works from any edge or
// corner.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Gesture is one continuous drag or resize operation. The engine tracks a
// cumulative translation offset separate from the element's committed
// left/top so every frame is a cheap transform of the start rect rather than
// a relayout.
type Gesture struct {
	el   *Element
	kind GestureKind
	edge Edge

	start  geom.Rect // container-relative bounds at gesture start
	dx, dy float32   // cumulative pointer offset since start
	frame  geom.Rect // current frame rect after snapping/clamping
}

// Element returns the element under gesture.
func (g *Gesture) Element() *Element { return g.el }

// Frame returns the current container-relative rect for rendering.
func (g *Gesture) Frame() geom.Rect { return g.frame }

// StartDrag begins a drag gesture on an active element. Only one gesture can
// be in flight per engine.
func (e *Engine) StartDrag(el *Element) (*Gesture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startGesture(el, GestureDrag, 0)
}

// StartResize begins a resize gesture from the given edge(s).
func (e *Engine) StartResize(el *Element, edge Edge) (*Gesture, error) {
	if edge == 0 {
		return nil, errors.New("resize requires at least one edge")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startGesture(el, GestureResize, edge)
}

func (e *Engine) startGesture(el *Element, kind GestureKind, edge Edge) (*Gesture, error) {
	if e.mode != ModeActive {
		return nil, errors.New("customization mode is off")
	}
	if el == nil || el.state != StateActive {
		return nil, errors.New("element is not active")
	}
	if e.gesture != nil {
		return nil, errors.New("another gesture is in flight")
	}
	g := &Gesture{
		el:    el,
		kind:  kind,
		edge:  edge,
		start: el.Node.BoundsIn(el.container.Node),
	}
	g.frame = g.start
	e.gesture = g
	return g, nil
}

// MoveGesture advances the in-flight gesture to the cumulative pointer offset
// (dx, dy) from the gesture start. It applies grid snapping within the snap
// threshold, advisory container clamping, and recomputes alignment guides
// against sibling elements.
func (e *Engine) MoveGesture(dx, dy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.gesture
	if g == nil {
		return
	}
	g.dx, g.dy = dx, dy

	cell := float32(e.cfg.Grid.CellSize)
	content := g.el.container.ContentBounds()

	var r geom.Rect
	switch g.kind {
	case GestureDrag:
		r = g.start.Translate(dx, dy)
		r = geom.SnapRectPosition(r, cell, e.cfg.SnapThreshold)
		// advisory while the pointer moves; enforced strictly on release
		r = r.ClampInto(content)
	case GestureResize:
		r = resizeRect(g.start, g.edge, dx, dy)
		r = geom.SnapRectSize(r, cell, e.cfg.SnapThreshold)
		r = clampResize(g.start, r, g.edge, e.cfg.MinSize, geom.Size{W: content.W, H: content.H})
	}
	g.frame = r

	// Mirror the frame into the node's measured bounds so the renderer and
	// the commit path agree on what is on screen.
	cb := g.el.container.Node.Bounds()
	g.el.Node.SetBounds(geom.R(cb.X+r.X, cb.Y+r.Y, r.W, r.H))

	e.updateGuides(g)
	if e.cfg.Callbacks.OnFrame != nil {
		e.cfg.Callbacks.OnFrame(g.el, r)
	}
}

// EndGesture commits the in-flight gesture: it reads the element's actual
// rendered bounds (not the accumulated delta, to avoid drift), clamps them
// strictly into the container, writes committed container-relative geometry,
// clears the transient state and guides, and persists. Afterwards any
// elements still queued on the container are re-checked, since visibility
// may have changed as a side effect.
func (e *Engine) EndGesture() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endGesture()
}

func (e *Engine) endGesture() {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil

	el := g.el
	c := el.container
	content := c.ContentBounds()

	r := el.Node.BoundsIn(c.Node)
	r = r.ClampSize(e.cfg.MinSize, geom.Size{W: content.W, H: content.H})
	r = r.ClampInto(content)

	el.Node.Inline.Left = domain.Px(float64(r.X))
	el.Node.Inline.Top = domain.Px(float64(r.Y))
	el.Node.Inline.Width = domain.Px(float64(r.W))
	el.Node.Inline.Height = domain.Px(float64(r.H))
	el.Node.SetPositioned(true)
	cb := c.Node.Bounds()
	el.Node.SetBounds(geom.R(cb.X+r.X, cb.Y+r.Y, r.W, r.H))

	c.overlay.Clear()
	if e.cfg.Callbacks.OnGuides != nil {
		e.cfg.Callbacks.OnGuides(c, nil)
	}

	if err := e.save(); err != nil {
		e.log.Error("save after gesture failed", slog.Any("err", err))
	}
	e.log.Debug("gesture committed",
		slog.String("id", el.ID()),
		slog.Float64("left", float64(r.X)), slog.Float64("top", float64(r.Y)),
		slog.Float64("width", float64(r.W)), slog.Float64("height", float64(r.H)))

	e.drainIfVisible(c)
}

// Gesture returns the in-flight gesture, if any.
func (e *Engine) Gesture() *Gesture {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture
}

// updateGuides recomputes alignment guides for the gesture frame against all
// other active elements in the same container. Guides indicate alignment
// only; they never move the element.
func (e *Engine) updateGuides(g *Gesture) {
	c := g.el.container
	var siblings []geom.Rect
	for _, other := range c.elements {
		if other == g.el || other.state != StateActive {
			continue
		}
		siblings = append(siblings, other.Node.BoundsIn(c.Node))
	}
	guides := geom.AlignmentGuides(g.frame, siblings, e.cfg.SnapThreshold)
	c.overlay.SetGuides(guides)
	if e.cfg.Callbacks.OnGuides != nil {
		e.cfg.Callbacks.OnGuides(c, guides)
	}
}

// resizeRect applies the pointer offset to the edges being dragged.
func resizeRect(start geom.Rect, edge Edge, dx, dy float32) geom.Rect {
	r := start
	if edge&EdgeLeft != 0 {
		r.X += dx
		r.W -= dx
	}
	if edge&EdgeRight != 0 {
		r.W += dx
	}
	if edge&EdgeTop != 0 {
		r.Y += dy
		r.H -= dy
	}
	if edge&EdgeBottom != 0 {
		r.H += dy
	}
	return r
}

// clampResize bounds the resized rect between minS and maxS while keeping the
// opposite edge anchored, so clamping a left-edge resize does not slide the
// right edge.
func clampResize(start, r geom.Rect, edge Edge, minS, maxS geom.Size) geom.Rect {
	clamped := r.ClampSize(minS, maxS)
	if clamped.W != r.W && edge&EdgeLeft != 0 {
		clamped.X = start.X + start.W - clamped.W
	}
	if clamped.H != r.H && edge&EdgeTop != 0 {
		clamped.Y = start.Y + start.H - clamped.H
	}
	return clamped
}
