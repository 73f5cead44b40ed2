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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"layoutsmith/internal/scene"
	"layoutsmith/internal/storage"
)

// ExportSheetPNG rasterizes the layout sheet to a PNG file. One sheet unit
// maps to one pixel; labels use the bundled bitmap face.
func ExportSheetPNG(ws *storage.WorkspaceHandle, root *scene.Node, outPath string, opt SheetOptions) error {
	if root == nil {
		return fmt.Errorf("scene root is nil")
	}
	opt = opt.withDefaults()
	sheet := BuildSheet(root)

	pixW := int(math.Round(sheet.W))
	pixH := int(math.Round(sheet.H))
	if pixW <= 0 || pixH <= 0 {
		return fmt.Errorf("scene has no measured bounds")
	}

	outPath, err := resolveOut(ws, outPath)
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	// Background white
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	if opt.IncludeGrid {
		gc := toRGBA(opt.GridColor)
		for x := opt.GridSize; x < pixW; x += opt.GridSize {
			for y := 0; y < pixH; y++ {
				img.SetRGBA(x, y, gc)
			}
		}
		for y := opt.GridSize; y < pixH; y += opt.GridSize {
			for x := 0; x < pixW; x++ {
				img.SetRGBA(x, y, gc)
			}
		}
	}

	cc := toRGBA(opt.ContainerStroke.Color)
	for _, c := range sheet.Containers {
		strokeRect(img, int(c.X), int(c.Y), int(c.X+c.W)-1, int(c.Y+c.H)-1, cc)
	}

	ec := toRGBA(opt.ElementStroke.Color)
	ef := toRGBA(opt.ElementFill)
	for _, e := range sheet.Elements {
		x0, y0 := int(e.X), int(e.Y)
		x1, y1 := int(e.X+e.W)-1, int(e.Y+e.H)-1
		fillRect(img, x0, y0, x1, y1, ef)
		strokeRect(img, x0, y0, x1, y1, ec)
		if opt.Labels {
			label := e.ID
			if e.Customized {
				label += " *"
			}
			drawLabel(img, x0+4, y0+14, label, color.RGBA{A: 255})
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// drawLabel renders s at the baseline (x, y) using the fixed 7x13 face.
func drawLabel(img *image.RGBA, x, y int, s string, col color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
