/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Basic 2D geometry plus the grid-snapping and clamping rules used while an
// element is dragged or resized. Float values use float32 for compactness and
// to align with many UI libs. Everything here is deterministic and UI-agnostic
// so the interaction rules can be unit tested without a frontend.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float32 }

// Size is a width/height pair.
type Size struct{ W, H float32 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float32
	W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Overlaps reports whether the two rectangles share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate returns the rect shifted by dx,dy.
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// ClampInto moves r so that it lies fully inside bounds. When r is larger than
// bounds on an axis, it is pinned to the bounds origin on that axis; the result
// is never an inverted rectangle.
func (r Rect) ClampInto(bounds Rect) Rect {
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.X+r.W > bounds.X+bounds.W {
		r.X = bounds.X + bounds.W - r.W
	}
	if r.Y+r.H > bounds.Y+bounds.H {
		r.Y = bounds.Y + bounds.H - r.H
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}

// ClampSize bounds the rect's size between the given minimum and maximum.
// Zero or negative maximums on an axis leave that axis unbounded above.
func (r Rect) ClampSize(minS, maxS Size) Rect {
	if r.W < minS.W {
		r.W = minS.W
	}
	if r.H < minS.H {
		r.H = minS.H
	}
	if maxS.W > 0 && r.W > maxS.W {
		r.W = maxS.W
	}
	if maxS.H > 0 && r.H > maxS.H {
		r.H = maxS.H
	}
	return r
}

// SnapAxis rounds v to the nearest multiple of cell when the distance to that
// multiple is within threshold; otherwise v is returned unchanged. A cell of
// zero or less disables snapping.
func SnapAxis(v, cell, threshold float32) float32 {
	if cell <= 0 {
		return v
	}
	nearest := float32(math.Round(float64(v/cell))) * cell
	if float32(math.Abs(float64(v-nearest))) <= threshold {
		return FloatRound(nearest, 3)
	}
	return v
}

// SnapRectPosition snaps the rect's min corner to the grid.
func SnapRectPosition(r Rect, cell, threshold float32) Rect {
	r.X = SnapAxis(r.X, cell, threshold)
	r.Y = SnapAxis(r.Y, cell, threshold)
	return r
}

// SnapRectSize snaps the rect's width and height to the grid.
func SnapRectSize(r Rect, cell, threshold float32) Rect {
	r.W = SnapAxis(r.W, cell, threshold)
	r.H = SnapAxis(r.H, cell, threshold)
	return r
}

func min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float32, places int) float32 {
	if places < 0 {
		return v
	}
	pow := float32(math.Pow(10, float64(places)))
	return float32(math.Round(float64(v*pow))) / pow
}
