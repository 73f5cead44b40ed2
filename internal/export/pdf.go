/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// ExportSheetPDF writes the layout sheet as a single-page PDF at outPath.
// Sheet units map 1:1 to points; built-in Helvetica keeps labels vector
// without embedding.
func ExportSheetPDF(ws *storage.WorkspaceHandle, root *scene.Node, outPath string, opt SheetOptions) error {
	if root == nil {
		return fmt.Errorf("scene root is nil")
	}
	opt = opt.withDefaults()
	sheet := BuildSheet(root)
	if sheet.W <= 0 || sheet.H <= 0 {
		return fmt.Errorf("scene has no measured bounds")
	}

	outPath, err := resolveOut(ws, outPath)
	if err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: sheet.W, Ht: sheet.H},
		OrientationStr: "",
	})
	pdf.SetTitle("Layout Sheet", false)
	pdf.SetAuthor("Layoutsmith", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: sheet.W, Ht: sheet.H})

	if opt.IncludeGrid {
		setDrawColor(pdf, opt.GridColor)
		pdf.SetLineWidth(0.2)
		cell := float64(opt.GridSize)
		for x := cell; x < sheet.W; x += cell {
			pdf.Line(x, 0, x, sheet.H)
		}
		for y := cell; y < sheet.H; y += cell {
			pdf.Line(0, y, sheet.W, y)
		}
	}

	setDrawColor(pdf, opt.ContainerStroke.Color)
	pdf.SetLineWidth(opt.ContainerStroke.Width)
	pdf.SetDashPattern([]float64{4, 2}, 0)
	for _, c := range sheet.Containers {
		pdf.Rect(c.X, c.Y, c.W, c.H, "D")
		if opt.Labels {
			pdf.SetFont("Helvetica", "", 7)
			pdf.Text(c.X+2, c.Y-2, c.ID)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)

	setFillColor(pdf, opt.ElementFill)
	setDrawColor(pdf, opt.ElementStroke.Color)
	pdf.SetLineWidth(opt.ElementStroke.Width)
	for _, e := range sheet.Elements {
		pdf.Rect(e.X, e.Y, e.W, e.H, "FD")
		if opt.Labels {
			label := e.ID
			if e.Customized {
				label += " *"
			}
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(e.X+4, e.Y+12, label)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
