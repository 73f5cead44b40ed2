/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a customized arrangement as a "layout sheet": a
// diagram of the containers and customizable elements with their identifiers,
// for review or printing. Sheets can be written as SVG, PDF, or PNG.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// Color is an 8-bit RGBA sheet color.
type Color struct {
	R, G, B, A uint8
}

// Stroke pairs a color with a line width in sheet units.
type Stroke struct {
	Color Color
	Width float64
}

// SheetOptions controls sheet rendering.
// - IncludeGrid draws the snapping grid behind the layout.
// - GridSize is the grid cell in sheet units; ignored unless IncludeGrid.
// - Labels annotates each element rect with its identifier.
// - Styles control colors and stroke widths; reasonable defaults are applied
//   for zero values.
type SheetOptions struct {
	IncludeGrid     bool
	GridSize        int
	Labels          bool
	GridColor       Color
	ContainerStroke Stroke
	ElementStroke   Stroke
	ElementFill     Color
}

func (opt SheetOptions) withDefaults() SheetOptions {
	if opt.GridColor == (Color{}) {
		opt.GridColor = Color{R: 220, G: 220, B: 220, A: 255}
	}
	if opt.ContainerStroke.Width == 0 {
		opt.ContainerStroke = Stroke{Color: Color{R: 120, G: 120, B: 120, A: 255}, Width: 1}
	}
	if opt.ElementStroke.Width == 0 {
		opt.ElementStroke = Stroke{Color: Color{A: 255}, Width: 1}
	}
	if opt.ElementFill == (Color{}) {
		opt.ElementFill = Color{R: 235, G: 242, B: 250, A: 255}
	}
	if opt.GridSize <= 0 {
		opt.GridSize = 8
	}
	return opt
}

// SheetRect is one drawable region of the sheet.
type SheetRect struct {
	ID         string
	Role       string
	X, Y, W, H float64
	// Customized marks elements that carry committed geometry.
	Customized bool
}

// Sheet is the renderer-independent model every output format draws from.
type Sheet struct {
	W, H       float64
	Containers []SheetRect
	Elements   []SheetRect
}

// BuildSheet derives the sheet model from a scene: the customizable elements
// with their measured bounds and the containers governing them. Coordinates
// are root-relative sheet units.
func BuildSheet(root *scene.Node) Sheet {
	rb := root.Bounds()
	sheet := Sheet{W: float64(rb.W), H: float64(rb.H)}

	seen := map[*scene.Node]bool{}
	for _, n := range scene.Select(root) {
		c := scene.ResolveContainer(n)
		if !seen[c] && c != root {
			seen[c] = true
			cb := c.Bounds()
			sheet.Containers = append(sheet.Containers, SheetRect{
				ID:   c.EnsureID(),
				Role: string(c.Role),
				X:    float64(cb.X), Y: float64(cb.Y), W: float64(cb.W), H: float64(cb.H),
			})
		}
		nb := n.Bounds()
		sheet.Elements = append(sheet.Elements, SheetRect{
			ID:   n.EnsureID(),
			Role: string(n.Role),
			X:    float64(nb.X), Y: float64(nb.Y), W: float64(nb.W), H: float64(nb.H),
			Customized: !n.Inline.Empty(),
		})
	}
	return sheet
}

// resolveOut places relative paths under the workspace exports folder and
// ensures the parent directory exists.
func resolveOut(ws *storage.WorkspaceHandle, outPath string) (string, error) {
	if ws == nil {
		return "", fmt.Errorf("workspace handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ws.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	return outPath, nil
}
