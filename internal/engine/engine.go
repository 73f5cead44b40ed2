/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package engine implements the customization mode controller: element
// selection, container preparation, deferred activation for invisible
// regions, drag/resize interaction with grid and guide snapping, and
// persistence of the resulting geometry. One Engine serves one interface
// instance; nothing here is process-global, so several engines can run side
// by side without interference.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"layoutsmith/internal/domain"
	"layoutsmith/internal/geom"
	applog "layoutsmith/internal/log"
	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
	"layoutsmith/internal/telemetry"
)

// Callbacks let the frontend surface engine events. All fields are optional.
type Callbacks struct {
	// ShowHint presents the persistent "customization on" hint.
	ShowHint func(msg string)
	// HideHint removes it.
	HideHint func()
	// Failure reports a user-visible failure (capability load failed, ...).
	Failure func(msg string)
	// OnFrame fires on every gesture move frame with the element's current
	// container-relative rect, for the renderer's cheap visual transform.
	OnFrame func(el *Element, frame geom.Rect)
	// OnGuides fires whenever a container's guide overlay changes.
	OnGuides func(c *Container, guides []geom.GuideLine)
}

// Config assembles an engine.
type Config struct {
	Store    *storage.Store
	Notifier scene.Notifier
	Provider CapabilityProvider
	Grid     domain.GridConfig

	// SnapThreshold defaults to domain.SnapThreshold.
	SnapThreshold float32
	// MinSize defaults to domain.MinElementWidth x domain.MinElementHeight.
	MinSize geom.Size
	// AcquireTimeout bounds capability acquisition; defaults to 10s. The
	// provider may otherwise never settle.
	AcquireTimeout time.Duration
	// Schedule defers the initial visibility recheck that runs shortly after
	// queuing, guarding against a container that was already visible before
	// the first change notification. It returns a cancel func. The default
	// uses time.AfterFunc, which fires fn on a timer goroutine; the engine
	// serializes its own state, but frontends with an event loop should
	// marshal fn onto it so activation touches their widgets on the right
	// thread. Tests inject a manual one.
	Schedule func(fn func()) (cancel func())

	Callbacks Callbacks
}

// Engine owns the customization session state for one interface instance.
type Engine struct {
	cfg Config
	log *slog.Logger

	// mu serializes every entry point. The default recheck scheduler fires
	// on a timer goroutine, so session state cannot assume a single caller
	// thread.
	mu sync.Mutex

	mode Mode
	root *scene.Node

	capability InteractionCapability
	containers map[*scene.Node]*Container
	elements   []*Element

	pending     map[*Container][]*Element
	unsubscribe map[*Container]func()
	recheck     map[*Container]func() // cancel funcs for scheduled rechecks

	gesture *Gesture
}

// New builds an engine; root is the rendered tree it manages.
func New(root *scene.Node, cfg Config) (*Engine, error) {
	if root == nil {
		return nil, errors.New("engine requires a scene root")
	}
	if cfg.Store == nil {
		return nil, errors.New("engine requires a geometry store")
	}
	if cfg.Provider == nil {
		return nil, errors.New("engine requires a capability provider")
	}
	if cfg.SnapThreshold <= 0 {
		cfg.SnapThreshold = domain.SnapThreshold
	}
	if cfg.MinSize.W <= 0 {
		cfg.MinSize.W = domain.MinElementWidth
	}
	if cfg.MinSize.H <= 0 {
		cfg.MinSize.H = domain.MinElementHeight
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = 10 * time.Second
	}
	if cfg.Schedule == nil {
		cfg.Schedule = func(fn func()) func() {
			t := time.AfterFunc(50*time.Millisecond, fn)
			return func() { t.Stop() }
		}
	}
	cfg.Grid = cfg.Grid.Normalize()
	return &Engine{
		cfg:         cfg,
		log:         applog.WithComponent("engine"),
		root:        root,
		containers:  map[*scene.Node]*Container{},
		pending:     map[*Container][]*Element{},
		unsubscribe: map[*Container]func(){},
		recheck:     map[*Container]func(){},
	}, nil
}

// Mode returns the current customization mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Grid returns the active grid configuration.
func (e *Engine) Grid() domain.GridConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Grid
}

// SetGrid updates the snapping cell size; values below the minimum clamp.
func (e *Engine) SetGrid(g domain.GridConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Grid = g.Normalize()
}

// Store exposes the geometry store (for the settings surface's reset hook).
func (e *Engine) Store() *storage.Store { return e.cfg.Store }

// Root returns the managed scene root.
func (e *Engine) Root() *scene.Node { return e.root }

// Elements returns every element under management, pending or active.
func (e *Engine) Elements() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Element(nil), e.elements...)
}

// SetCustomizationMode turns customization on or off. Enabling acquires the
// pointer-interaction capability (which may suspend and may fail), then runs
// selection, container setup, persisted-layout application, and deferred or
// immediate activation. Disabling finalizes any in-flight gesture, saves, and
// detaches everything while leaving committed geometry in place.
func (e *Engine) SetCustomizationMode(ctx context.Context, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled {
		return e.enable(ctx)
	}
	e.disable()
	return nil
}

func (e *Engine) enable(ctx context.Context) error {
	if e.mode != ModeOff {
		return nil
	}
	e.mode = ModeLoading
	e.log.Info("customization loading")

	if e.capability == nil {
		acqCtx, cancel := context.WithTimeout(ctx, e.cfg.AcquireTimeout)
		defer cancel()
		ic, err := e.cfg.Provider.Acquire(acqCtx)
		if err != nil {
			e.mode = ModeOff
			e.log.Error("capability acquisition failed", slog.Any("err", err))
			if e.cfg.Callbacks.Failure != nil {
				e.cfg.Callbacks.Failure("Customization is unavailable: the interaction component failed to load.")
			}
			return fmt.Errorf("acquire interaction capability: %w", err)
		}
		e.capability = ic
	}

	// Working set and containers first.
	selected := scene.Select(e.root)
	for _, n := range selected {
		c := e.containerFor(n)
		el := &Element{Node: n, container: c, state: StatePending}
		c.elements[el.ID()] = el
		e.elements = append(e.elements, el)
	}

	// Apply persisted geometry before any interaction attaches, so a resumed
	// session never flashes default positions.
	doc := e.cfg.Store.Load()
	if n := e.cfg.Store.Apply(e.root, doc); n > 0 {
		e.log.Info("persisted layout applied", slog.Int("entries", n))
	}

	// Activate what is visible, queue the rest.
	for _, el := range e.elements {
		if el.container.Node.Visible() {
			e.activate(el)
		} else {
			e.enqueue(el)
		}
	}

	e.mode = ModeActive
	telemetry.Event("customize_on", map[string]any{"elements": len(e.elements)})
	if e.cfg.Callbacks.ShowHint != nil {
		e.cfg.Callbacks.ShowHint("Customization on: drag to move, pull edges to resize.")
	}
	e.log.Info("customization active", slog.Int("elements", len(e.elements)))
	return nil
}

func (e *Engine) disable() {
	if e.mode != ModeActive {
		e.mode = ModeOff
		return
	}
	// Never let a dangling gesture write geometry after teardown.
	if e.gesture != nil {
		e.endGesture()
	}

	// Defensive double-save: geometry produced this session persists even
	// without an explicit drag-end.
	if err := e.cfg.Store.Save(e.persistable()); err != nil {
		e.log.Error("save on disable failed", slog.Any("err", err))
	}

	for _, el := range e.elements {
		if el.state == StateActive {
			e.capability.Detach(el)
		}
	}
	for _, c := range e.containers {
		c.overlay.Clear()
		if e.cfg.Callbacks.OnGuides != nil {
			e.cfg.Callbacks.OnGuides(c, nil)
		}
		// forcedPositioned is deliberately left in place: reverting the
		// positioning context would shift committed children.
	}
	for c, cancel := range e.recheck {
		cancel()
		delete(e.recheck, c)
	}
	for c, unsub := range e.unsubscribe {
		unsub()
		delete(e.unsubscribe, c)
	}
	e.pending = map[*Container][]*Element{}
	e.containers = map[*scene.Node]*Container{}
	e.elements = nil

	e.mode = ModeOff
	telemetry.Event("customize_off", nil)
	if e.cfg.Callbacks.HideHint != nil {
		e.cfg.Callbacks.HideHint()
	}
	e.log.Info("customization off")
}

// activate attaches interaction to an element. Re-activation is a no-op, and
// elements removed from the tree are silently dropped.
func (e *Engine) activate(el *Element) {
	if el.state == StateActive {
		return
	}
	if el.Node.Detached() {
		return
	}
	e.cfg.Store.SnapshotOriginal(el.Node)
	if err := e.capability.Attach(el); err != nil {
		e.log.Warn("attach failed", slog.String("id", el.ID()), slog.Any("err", err))
		return
	}
	el.state = StateActive
	e.log.Debug("element activated", slog.String("id", el.ID()))
}

// enqueue defers activation until the element's container becomes visible.
// One observer per container; an initial recheck is scheduled shortly after
// queuing to catch containers that were already visible at queue time.
func (e *Engine) enqueue(el *Element) {
	c := el.container
	e.pending[c] = append(e.pending[c], el)

	if _, ok := e.unsubscribe[c]; !ok && e.cfg.Notifier != nil {
		c := c
		e.unsubscribe[c] = e.cfg.Notifier.Subscribe(c.ID(), func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.drainIfVisible(c)
		})
	}
	if _, ok := e.recheck[c]; !ok {
		c := c
		e.recheck[c] = e.cfg.Schedule(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.recheck, c)
			e.drainIfVisible(c)
		})
	}
}

// drainIfVisible activates every queued element of the container once it has
// become visible, then tears the observer down.
func (e *Engine) drainIfVisible(c *Container) {
	if e.mode != ModeActive && e.mode != ModeLoading {
		return
	}
	if !c.Node.Visible() {
		return
	}
	queued := e.pending[c]
	delete(e.pending, c)
	if cancel, ok := e.recheck[c]; ok {
		cancel()
		delete(e.recheck, c)
	}
	if unsub, ok := e.unsubscribe[c]; ok {
		unsub()
		delete(e.unsubscribe, c)
	}
	for _, el := range queued {
		e.activate(el)
	}
	if len(queued) > 0 {
		e.log.Debug("pending queue drained", slog.String("container", c.ID()), slog.Int("count", len(queued)))
	}
}

// PendingCount reports how many elements await activation.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, q := range e.pending {
		n += len(q)
	}
	return n
}

// persistable returns every active element plus queued ones that already
// carry inline geometry, so a persisted entry for a region the user never
// opened survives the next full-document save.
func (e *Engine) persistable() []*scene.Node {
	var out []*scene.Node
	for _, el := range e.elements {
		if el.state == StateActive || !el.Node.Inline.Empty() {
			out = append(out, el.Node)
		}
	}
	return out
}

// Save persists the current arrangement: every active element, plus queued
// elements whose saved geometry was applied but never activated.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save()
}

func (e *Engine) save() error {
	if err := e.cfg.Store.Save(e.persistable()); err != nil {
		return err
	}
	telemetry.Event("layout_save", nil)
	return nil
}

// Reset clears the persisted layout after user confirmation, restores
// original geometry, and triggers an interface reload through the callback.
// The reload callback runs outside the engine lock.
func (e *Engine) Reset(confirmed bool, reload func()) error {
	if !confirmed {
		return nil
	}
	e.mu.Lock()
	if e.gesture != nil {
		e.endGesture()
	}
	e.mu.Unlock()
	telemetry.Event("layout_reset", nil)
	return e.cfg.Store.Reset(e.root, true, reload)
}
