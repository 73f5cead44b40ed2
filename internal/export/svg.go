/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"

	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// ExportSheetSVG writes the layout sheet as a single SVG file. The coordinate
// system matches the scene (sheet units); a viewBox is provided to scale.
func ExportSheetSVG(ws *storage.WorkspaceHandle, root *scene.Node, outPath string, opt SheetOptions) error {
	if root == nil {
		return fmt.Errorf("scene root is nil")
	}
	opt = opt.withDefaults()
	sheet := BuildSheet(root)

	outPath, err := resolveOut(ws, outPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", sheet.W, sheet.H, sheet.W, sheet.H)
	// Background white
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", sheet.W, sheet.H)

	if opt.IncludeGrid {
		gc := svgColor(opt.GridColor)
		cell := float64(opt.GridSize)
		for x := cell; x < sheet.W; x += cell {
			wf("  <line x1=\"%g\" y1=\"0\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"0.2\"/>\n", x, x, sheet.H, gc)
		}
		for y := cell; y < sheet.H; y += cell {
			wf("  <line x1=\"0\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"0.2\"/>\n", y, sheet.W, y, gc)
		}
	}

	cc := svgColor(opt.ContainerStroke.Color)
	for _, c := range sheet.Containers {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" stroke-dasharray=\"4 2\"/>\n", c.X, c.Y, c.W, c.H, cc, opt.ContainerStroke.Width)
		if opt.Labels {
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"9\" fill=\"%s\">%s</text>\n", c.X+2, c.Y-2, cc, escText(c.ID))
		}
	}

	ec := svgColor(opt.ElementStroke.Color)
	ef := svgColor(opt.ElementFill)
	for _, e := range sheet.Elements {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n", e.X, e.Y, e.W, e.H, ef, ec, opt.ElementStroke.Width)
		if opt.Labels {
			label := e.ID
			if e.Customized {
				label += " *"
			}
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" fill=\"#000\">%s</text>\n", e.X+4, e.Y+14, escText(label))
		}
	}

	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
