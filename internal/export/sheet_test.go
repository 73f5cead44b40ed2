/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"layoutsmith/internal/domain"
	"layoutsmith/internal/geom"
	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// sampleScene is a small workbench: a panel holding a card and a table, the
// card carrying committed geometry.
func sampleScene() *scene.Node {
	root := scene.NewNode(domain.RoleContentRoot)
	root.SetBounds(geom.R(0, 0, 640, 480))

	panel := root.AddChild(scene.NewNode(domain.RolePanel))
	panel.SetID("panel")
	panel.SetBounds(geom.R(10, 10, 400, 400))

	card := panel.AddChild(scene.NewNode(domain.RoleCard))
	card.SetID("card-a")
	card.SetBounds(geom.R(30, 30, 200, 100))
	card.Inline = scene.InlineGeometry{Left: "20px", Top: "20px", Width: "200px", Height: "100px"}

	table := panel.AddChild(scene.NewNode(domain.RoleDataTable))
	table.SetID("table-a")
	table.SetBounds(geom.R(30, 150, 300, 150))

	return root
}

func TestBuildSheet(t *testing.T) {
	sheet := BuildSheet(sampleScene())
	if sheet.W != 640 || sheet.H != 480 {
		t.Fatalf("sheet size = %gx%g, want 640x480", sheet.W, sheet.H)
	}
	if len(sheet.Containers) != 1 || sheet.Containers[0].ID != "panel" {
		t.Fatalf("containers = %#v, want the panel only", sheet.Containers)
	}
	if len(sheet.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(sheet.Elements))
	}
	var card SheetRect
	for _, e := range sheet.Elements {
		if e.ID == "card-a" {
			card = e
		}
	}
	if !card.Customized {
		t.Fatalf("card with committed geometry must be marked customized")
	}
}

func TestExportSheetSVG(t *testing.T) {
	ws, err := storage.InitWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	if err := ExportSheetSVG(ws, sampleScene(), "sheet.svg", SheetOptions{IncludeGrid: true, GridSize: 8, Labels: true}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	path := filepath.Join(ws.Root, "exports", "sheet.svg")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "card-a") || !strings.Contains(s, "table-a") {
		t.Fatalf("svg misses element labels")
	}
	if !strings.Contains(s, "card-a *") {
		t.Fatalf("customized element not marked in svg")
	}
	if !strings.Contains(s, "stroke-dasharray") {
		t.Fatalf("container outline missing from svg")
	}
}

func TestExportSheetPDF(t *testing.T) {
	ws, err := storage.InitWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	out := filepath.Join(ws.Root, "exports", "sheet.pdf")
	if err := ExportSheetPDF(ws, sampleScene(), out, SheetOptions{IncludeGrid: true, Labels: true}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("pdf file empty")
	}
}

func TestExportSheetPNG(t *testing.T) {
	ws, err := storage.InitWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	if err := ExportSheetPNG(ws, sampleScene(), "sheet.png", SheetOptions{IncludeGrid: true, GridSize: 16, Labels: true}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	path := filepath.Join(ws.Root, "exports", "sheet.png")
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("png empty")
	}
}

func TestExportRequiresMeasuredScene(t *testing.T) {
	ws, err := storage.InitWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}
	root := scene.NewNode(domain.RoleContentRoot) // zero bounds
	if err := ExportSheetPDF(ws, root, "empty.pdf", SheetOptions{}); err == nil {
		t.Fatalf("expected error for unmeasured scene")
	}
	if err := ExportSheetPNG(ws, root, "empty.png", SheetOptions{}); err == nil {
		t.Fatalf("expected error for unmeasured scene")
	}
}
