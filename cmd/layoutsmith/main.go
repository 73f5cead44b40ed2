/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"layoutsmith/internal/crash"
	"layoutsmith/internal/domain"
	"layoutsmith/internal/export"
	"layoutsmith/internal/geom"
	applog "layoutsmith/internal/log"
	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
	"layoutsmith/internal/ui"
	"layoutsmith/internal/version"
)

// sceneFromDocument rebuilds a minimal scene from a saved layout so a sheet
// can be rendered without the live interface: every entry becomes a card in a
// single panel sized to fit.
func sceneFromDocument(doc domain.LayoutDocument) *scene.Node {
	root := scene.NewNode(domain.RoleContentRoot)
	panel := root.AddChild(scene.NewNode(domain.RolePanel))
	panel.SetID("saved-layout")

	const margin = 20
	var maxX, maxY float64
	for _, e := range doc.Items {
		n := panel.AddChild(scene.NewNode(domain.RoleCard))
		n.SetID(e.ID)
		n.Inline = scene.InlineGeometry{Left: e.Left, Top: e.Top, Width: e.Width, Height: e.Height}
		x, _ := domain.ParsePx(e.Left)
		y, _ := domain.ParsePx(e.Top)
		w, ok := domain.ParsePx(e.Width)
		if !ok {
			w = 120
		}
		h, ok := domain.ParsePx(e.Height)
		if !ok {
			h = 60
		}
		n.SetBounds(geom.R(float32(x+margin), float32(y+margin), float32(w), float32(h)))
		if x+w > maxX {
			maxX = x + w
		}
		if y+h > maxY {
			maxY = y + h
		}
	}
	size := geom.R(0, 0, float32(maxX+2*margin), float32(maxY+2*margin))
	root.SetBounds(size)
	panel.SetBounds(size)
	return root
}

func usage() {
	fmt.Println("Layoutsmith — interactive layout customization")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  layoutsmith version|-v|--version     Show version")
	fmt.Println("  layoutsmith init <dir>               Create a layout workspace at <dir>")
	fmt.Println("  layoutsmith inspect <dir>            Print the saved layout of a workspace")
	fmt.Println("  layoutsmith journal <dir>            List recent save/reset journal entries")
	fmt.Println("  layoutsmith reset <dir>              Clear the saved layout (keeps a backup)")
	fmt.Println("  layoutsmith export <dir> [out]       Render the saved layout as a sheet (.pdf, .svg, or .png)")
	fmt.Println("  layoutsmith ui [<dir>]               Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ws *storage.WorkspaceHandle
	defer func() { crash.Recover(ws) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Layoutsmith — interactive layout customization")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("init workspace", slog.String("root", abs))
			h, err := storage.InitWorkspace(abs)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Println("Created workspace at", abs)
			return
		case "inspect":
			if len(args) < 3 {
				fmt.Println("inspect requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.OpenWorkspace(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			doc := storage.ReadDocument(h)
			fmt.Println("Workspace:", h.Root)
			fmt.Printf("Entries: %d\n", len(doc.Items))
			for _, e := range doc.Items {
				fmt.Printf("  %-24s left=%-8s top=%-8s width=%-8s height=%-8s\n", e.ID, e.Left, e.Top, e.Width, e.Height)
			}
			return
		case "journal":
			if len(args) < 3 {
				fmt.Println("journal requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.OpenWorkspace(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			db, err := storage.OpenJournal(abs)
			if err != nil {
				l.Error("journal open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer func() { _ = db.Close() }()
			entries, err := storage.JournalEntries(db, 20)
			if err != nil {
				l.Error("journal read failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, e := range entries {
				fmt.Printf("  %s  %-6s items=%d\n", e.At.Format("2006-01-02 15:04:05"), e.Kind, e.ItemCount)
			}
			if len(entries) == 0 {
				fmt.Println("  (no journal entries)")
			}
			return
		case "reset":
			if len(args) < 3 {
				fmt.Println("reset requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.OpenWorkspace(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			store := storage.NewStore(h, nil)
			if err := store.Reset(nil, true, nil); err != nil {
				l.Error("reset failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Cleared saved layout (previous document backed up).")
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.OpenWorkspace(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			out := "layout-sheet.pdf"
			if len(args) >= 4 {
				out = args[3]
			}
			doc := storage.ReadDocument(h)
			if len(doc.Items) == 0 {
				fmt.Println("Workspace has no saved layout to export.")
				os.Exit(1)
			}
			root := sceneFromDocument(doc)
			opt := export.SheetOptions{IncludeGrid: true, Labels: true}
			switch filepath.Ext(out) {
			case ".svg":
				err = export.ExportSheetSVG(h, root, out, opt)
			case ".png":
				err = export.ExportSheetPNG(h, root, out, opt)
			default:
				err = export.ExportSheetPDF(h, root, out, opt)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported layout sheet:", out)
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
