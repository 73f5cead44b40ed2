//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"layoutsmith/internal/config"
	"layoutsmith/internal/crash"
	"layoutsmith/internal/domain"
	"layoutsmith/internal/engine"
	"layoutsmith/internal/export"
	"layoutsmith/internal/geom"
	applog "layoutsmith/internal/log"
	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// Run starts the Fyne-based workbench: a demo interface whose regions and
// elements are wired to the customization engine.
func Run(workspaceDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	if workspaceDir == "" {
		workspaceDir = "."
	}
	ws, err := storage.InitWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	defer func() { crash.Recover(ws) }()

	journal, err := storage.OpenJournal(ws.Root)
	if err != nil {
		l.Warn("save journal unavailable", slog.Any("err", err))
		journal = nil
	}
	if journal != nil {
		defer func() { _ = journal.Close() }()
	}
	store := storage.NewStore(ws, journal)

	fyneApp := app.NewWithID("layoutsmith")
	w := fyneApp.NewWindow("Layoutsmith")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	wb := newWorkbench(store, cfg, w)
	w.SetContent(wb.build())
	w.ShowAndRun()

	// Leave customization cleanly so a final save runs.
	_ = wb.eng.SetCustomizationMode(context.Background(), false)
	l.Info("UI closed")
	return nil
}

// workbench owns the demo scene, the widgets mirroring it, and the engine.
type workbench struct {
	log    *slog.Logger
	window fyne.Window
	cfg    config.AppConfig

	root *scene.Node
	bus  *scene.Bus
	eng  *engine.Engine

	boxes    map[string]*elementBox
	defaults map[string]geom.Rect
	guides   map[string]*fyne.Container // container node id -> guide overlay

	status *widget.Label
}

func newWorkbench(store *storage.Store, cfg config.AppConfig, w fyne.Window) *workbench {
	wb := &workbench{
		log:      applog.WithComponent("workbench"),
		window:   w,
		cfg:      cfg,
		bus:      scene.NewBus(),
		boxes:    map[string]*elementBox{},
		defaults: map[string]geom.Rect{},
		guides:   map[string]*fyne.Container{},
		status:   widget.NewLabel("Ready"),
	}
	wb.buildScene()

	eng, err := engine.New(wb.root, engine.Config{
		Store:         store,
		Notifier:      wb.bus,
		Provider:      engine.SyncProvider{Capability: &fyneCapability{wb: wb}},
		Grid:          cfg.Customize.Grid(),
		SnapThreshold: float32(cfg.Customize.SnapThreshold),
		// Visibility rechecks fire from a timer goroutine; marshal them onto
		// the Fyne event thread so activation touches widgets there.
		Schedule: func(fn func()) func() {
			t := time.AfterFunc(50*time.Millisecond, func() { fyne.Do(fn) })
			return func() { t.Stop() }
		},
		Callbacks: engine.Callbacks{
			ShowHint: func(msg string) {
				if cfg.Customize.ShowHint {
					wb.status.SetText(msg)
				}
			},
			HideHint: func() { wb.status.SetText("Ready") },
			Failure: func(msg string) {
				dialog.ShowInformation("Customization unavailable", msg, wb.window)
			},
			OnFrame:  wb.onFrame,
			OnGuides: wb.onGuides,
		},
	})
	if err != nil {
		// Config is validated above; this only trips on programming errors.
		panic(err)
	}
	wb.eng = eng
	return wb
}

// buildScene assembles the demo tree: an overview panel with two cards and a
// table, and a dashboard grid with three tiles. The dashboard starts hidden
// (its tab is not selected), which exercises deferred activation.
func (wb *workbench) buildScene() {
	wb.root = scene.NewNode(domain.RoleContentRoot)
	wb.root.SetBounds(geom.R(0, 0, 960, 600))

	panel := wb.root.AddChild(scene.NewNode(domain.RolePanel))
	panel.SetID("overview")
	panel.SetBounds(geom.R(0, 0, 960, 600))

	wb.addElement(panel, domain.RoleCard, "card-summary", geom.R(20, 20, 280, 160), "Summary")
	wb.addElement(panel, domain.RoleCard, "card-activity", geom.R(20, 200, 280, 160), "Activity")
	wb.addElement(panel, domain.RoleDataTable, "table-records", geom.R(330, 20, 380, 340), "Records")

	grid := wb.root.AddChild(scene.NewNode(domain.RoleDashboardGrid))
	grid.SetID("dashboard")
	grid.SetBounds(geom.R(0, 0, 960, 600))
	grid.SetDisplayed(false)

	wb.addElement(grid, domain.RoleGridItem, "tile-queue", geom.R(20, 20, 220, 140), "Queue")
	wb.addElement(grid, domain.RoleChartPlaceholder, "tile-chart", geom.R(260, 20, 220, 140), "Chart")
	wb.addElement(grid, domain.RoleTimerDisplay, "tile-timer", geom.R(500, 20, 220, 140), "Timer")
}

func (wb *workbench) addElement(parent *scene.Node, role domain.Role, id string, r geom.Rect, title string) {
	n := parent.AddChild(scene.NewNode(role))
	n.SetID(id)
	n.SetBounds(r)
	box := newElementBox(wb, n, title)
	wb.boxes[id] = box
	wb.defaults[id] = r
}

func (wb *workbench) build() fyne.CanvasObject {
	overview := wb.regionLayer("overview")
	dashboard := wb.regionLayer("dashboard")

	tabs := container.NewAppTabs(
		container.NewTabItem("Overview", overview),
		container.NewTabItem("Dashboard", dashboard),
	)
	tabs.OnSelected = func(item *container.TabItem) {
		showDash := item.Text == "Dashboard"
		wb.root.Find("overview").SetDisplayed(!showDash)
		wb.root.Find("dashboard").SetDisplayed(showDash)
		// Visibility may have changed for queued elements.
		wb.bus.Publish("overview")
		wb.bus.Publish("dashboard")
	}

	return container.NewBorder(wb.toolbar(), wb.status, nil, nil, tabs)
}

// regionLayer builds the absolute-position layer for one container node and
// stacks the guide overlay above it.
func (wb *workbench) regionLayer(containerID string) fyne.CanvasObject {
	layer := container.NewWithoutLayout()
	for id, box := range wb.boxes {
		if scene.ResolveContainer(box.node).ID() != containerID {
			continue
		}
		r := wb.defaults[id]
		box.Resize(fyne.NewSize(r.W, r.H))
		box.Move(fyne.NewPos(r.X, r.Y))
		layer.Add(box)
	}
	guideLayer := container.NewWithoutLayout()
	wb.guides[containerID] = guideLayer
	return container.NewStack(layer, guideLayer)
}

func (wb *workbench) toolbar() fyne.CanvasObject {
	customize := widget.NewCheck("Customize", nil)
	customize.OnChanged = func(on bool) {
		if err := wb.eng.SetCustomizationMode(context.Background(), on); err != nil {
			wb.log.Error("customization toggle failed", slog.Any("err", err))
			customize.SetChecked(false)
			return
		}
		if on {
			wb.placeFromCommitted()
		}
	}

	gridEntry := widget.NewEntry()
	gridEntry.SetText(strconv.Itoa(wb.eng.Grid().CellSize))
	gridEntry.OnSubmitted = func(s string) {
		n, err := strconv.Atoi(s)
		if err != nil {
			wb.status.SetText("Grid size must be a number")
			return
		}
		g := domain.GridConfig{CellSize: n}.Normalize()
		wb.eng.SetGrid(g)
		gridEntry.SetText(strconv.Itoa(g.CellSize))
		if err := config.SaveGridSize(g.CellSize); err != nil {
			wb.log.Warn("grid size not persisted", slog.Any("err", err))
		}
	}

	reset := widget.NewButton("Reset layout", func() {
		dialog.ShowConfirm("Reset layout",
			"Discard all saved positions and sizes and restore the default arrangement?",
			func(ok bool) {
				if !ok {
					return
				}
				if err := wb.eng.Reset(true, wb.reload); err != nil {
					wb.log.Error("reset failed", slog.Any("err", err))
				}
			}, wb.window)
	})

	sheet := widget.NewButton("Export sheet", func() {
		opt := export.SheetOptions{IncludeGrid: true, GridSize: wb.eng.Grid().CellSize, Labels: true}
		if err := export.ExportSheetPDF(wb.eng.Store().Workspace(), wb.root, "layout-sheet.pdf", opt); err != nil {
			dialog.ShowError(err, wb.window)
			return
		}
		wb.status.SetText("Layout sheet exported")
	})

	return container.NewHBox(customize, widget.NewLabel("Grid:"), gridEntry, reset, sheet)
}

// placeFromCommitted moves widgets to the committed geometry the engine
// applied on enable.
func (wb *workbench) placeFromCommitted() {
	for id, box := range wb.boxes {
		in := box.node.Inline
		if in.Empty() {
			continue
		}
		r := wb.defaults[id]
		cb := scene.ResolveContainer(box.node).Bounds()
		if v, ok := domain.ParsePx(in.Left); ok {
			r.X = float32(v)
		}
		if v, ok := domain.ParsePx(in.Top); ok {
			r.Y = float32(v)
		}
		if v, ok := domain.ParsePx(in.Width); ok {
			r.W = float32(v)
		}
		if v, ok := domain.ParsePx(in.Height); ok {
			r.H = float32(v)
		}
		box.node.SetBounds(geom.R(cb.X+r.X, cb.Y+r.Y, r.W, r.H))
		box.Move(fyne.NewPos(r.X, r.Y))
		box.Resize(fyne.NewSize(r.W, r.H))
	}
}

// reload restores the default arrangement after a reset.
func (wb *workbench) reload() {
	for id, box := range wb.boxes {
		r := wb.defaults[id]
		box.node.SetBounds(r)
		box.Move(fyne.NewPos(r.X, r.Y))
		box.Resize(fyne.NewSize(r.W, r.H))
	}
	wb.status.SetText("Layout reset")
}

func (wb *workbench) onFrame(el *engine.Element, frame geom.Rect) {
	box, ok := wb.boxes[el.ID()]
	if !ok {
		return
	}
	box.Move(fyne.NewPos(frame.X, frame.Y))
	box.Resize(fyne.NewSize(frame.W, frame.H))
}

func (wb *workbench) onGuides(c *engine.Container, guides []geom.GuideLine) {
	layer, ok := wb.guides[c.ID()]
	if !ok {
		return
	}
	layer.RemoveAll()
	for _, g := range guides {
		line := canvas.NewLine(color.NRGBA{R: 66, G: 133, B: 244, A: 255})
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(g.From.X, g.From.Y)
		line.Position2 = fyne.NewPos(g.To.X, g.To.Y)
		layer.Add(line)
	}
	layer.Refresh()
}

// fyneCapability bridges engine activation to the widgets: attaching an
// element arms its drag/resize handling and highlight.
type fyneCapability struct{ wb *workbench }

func (c *fyneCapability) Attach(el *engine.Element) error {
	box, ok := c.wb.boxes[el.ID()]
	if !ok {
		return fmt.Errorf("no widget for element %s", el.ID())
	}
	box.setInteractive(el, true)
	return nil
}

func (c *fyneCapability) Detach(el *engine.Element) {
	if box, ok := c.wb.boxes[el.ID()]; ok {
		box.setInteractive(nil, false)
	}
}

// resizeMargin is the border band (in px) that starts a resize instead of a
// drag.
const resizeMargin = 8

// edgeAt maps a pointer position within the widget to the resize edge(s) it
// falls on, or 0 for the drag area.
func edgeAt(p fyne.Position, size fyne.Size) engine.Edge {
	var e engine.Edge
	if p.X <= resizeMargin {
		e |= engine.EdgeLeft
	}
	if p.X >= size.Width-resizeMargin {
		e |= engine.EdgeRight
	}
	if p.Y <= resizeMargin {
		e |= engine.EdgeTop
	}
	if p.Y >= size.Height-resizeMargin {
		e |= engine.EdgeBottom
	}
	return e
}

// elementBox is the widget for one customizable element. While its element is
// attached it translates pointer drags into engine gestures; otherwise it is
// inert content.
type elementBox struct {
	widget.BaseWidget

	wb    *workbench
	node  *scene.Node
	title string

	bg    *canvas.Rectangle
	label *widget.Label

	el         *engine.Element // non-nil while attached
	dragging   bool
	sumX, sumY float32
}

func newElementBox(wb *workbench, n *scene.Node, title string) *elementBox {
	b := &elementBox{
		wb:    wb,
		node:  n,
		title: title,
		bg:    canvas.NewRectangle(color.NRGBA{R: 245, G: 247, B: 250, A: 255}),
		label: widget.NewLabel(title),
	}
	b.bg.StrokeColor = color.NRGBA{R: 180, G: 185, B: 190, A: 255}
	b.bg.StrokeWidth = 1
	b.ExtendBaseWidget(b)
	return b
}

func (b *elementBox) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.bg, b.label))
}

func (b *elementBox) setInteractive(el *engine.Element, on bool) {
	b.el = el
	if on {
		b.bg.StrokeColor = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
		b.bg.StrokeWidth = 2
	} else {
		b.bg.StrokeColor = color.NRGBA{R: 180, G: 185, B: 190, A: 255}
		b.bg.StrokeWidth = 1
	}
	b.bg.Refresh()
}

// Dragged implements fyne.Draggable. The first event decides between drag and
// resize based on where inside the widget the pointer went down.
func (b *elementBox) Dragged(ev *fyne.DragEvent) {
	if b.el == nil {
		return
	}
	if !b.dragging {
		var err error
		if edge := edgeAt(ev.Position, b.Size()); edge != 0 {
			_, err = b.wb.eng.StartResize(b.el, edge)
		} else {
			_, err = b.wb.eng.StartDrag(b.el)
		}
		if err != nil {
			b.wb.log.Debug("gesture not started", slog.Any("err", err))
			return
		}
		b.dragging = true
		b.sumX, b.sumY = 0, 0
	}
	b.sumX += ev.Dragged.DX
	b.sumY += ev.Dragged.DY
	b.wb.eng.MoveGesture(b.sumX, b.sumY)
}

// DragEnd commits the gesture.
func (b *elementBox) DragEnd() {
	if !b.dragging {
		return
	}
	b.dragging = false
	b.wb.eng.EndGesture()
}
