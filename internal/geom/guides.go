/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Alignment guides for interactive drag/resize. A guide is drawn whenever an
// edge or center line of the moving rect comes within the threshold of the
// corresponding line of a sibling rect. Guides are a visual aid only: unlike
// grid snapping they never move the element. They are recomputed every move
// frame and discarded when the gesture ends.

import "math"

// GuideLine describes one ephemeral alignment line.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate, in the same
// container-relative space as the rects it was computed from. From and To give
// the extents for rendering. Values are rounded to 3 decimal places for
// deterministic output.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float32
	From        Pt
	To          Pt
}

const (
	Vertical   = "vertical"
	Horizontal = "horizontal"
)

// AlignmentGuides compares moving against every sibling and returns a guide at
// the sibling's coordinate for every matching pair: left/right/center-x yield
// vertical guides, top/bottom/center-y horizontal ones. Duplicate lines at the
// same coordinate are collapsed.
func AlignmentGuides(moving Rect, siblings []Rect, threshold float32) []GuideLine {
	if threshold <= 0 {
		threshold = 6
	}
	var guides []GuideLine
	seen := map[[2]float32]bool{} // orientation (0=v,1=h) + position

	add := func(g GuideLine) {
		axis := float32(0)
		if g.Orientation == Horizontal {
			axis = 1
		}
		key := [2]float32{axis, g.Position}
		if seen[key] {
			return
		}
		seen[key] = true
		guides = append(guides, g)
	}

	mL, mR := moving.X, moving.X+moving.W
	mT, mB := moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, s := range siblings {
		sL, sR := s.X, s.X+s.W
		sT, sB := s.Y, s.Y+s.H
		sCX, sCY := s.X+s.W/2, s.Y+s.H/2

		if within(mL, sL, threshold) {
			add(verticalGuide(sL, moving, s, "edge"))
		}
		if within(mR, sR, threshold) {
			add(verticalGuide(sR, moving, s, "edge"))
		}
		if within(mCX, sCX, threshold) {
			add(verticalGuide(sCX, moving, s, "center"))
		}
		if within(mT, sT, threshold) {
			add(horizontalGuide(sT, moving, s, "edge"))
		}
		if within(mB, sB, threshold) {
			add(horizontalGuide(sB, moving, s, "edge"))
		}
		if within(mCY, sCY, threshold) {
			add(horizontalGuide(sCY, moving, s, "center"))
		}
	}
	return guides
}

func within(a, b, threshold float32) bool {
	return float32(math.Abs(float64(a-b))) <= threshold
}

func verticalGuide(x float32, a, b Rect, kind string) GuideLine {
	minY := min(a.Y, b.Y)
	maxY := max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: Vertical,
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func horizontalGuide(y float32, a, b Rect, kind string) GuideLine {
	minX := min(a.X, b.X)
	maxX := max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: Horizontal,
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
