/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for customizable layouts: the durable
// layout document, per-element geometry entries, and the element role taxonomy
// the selector and the geometry store agree on.

import "strings"

// Role classifies a node of the rendered tree. Specific roles come first in
// the selector's pattern order; composite roles group other elements and are
// never repositioned as a block once their children carry saved geometry.
type Role string

const (
	RoleCard             Role = "card"
	RoleFormGroup        Role = "formGroup"
	RoleChartPlaceholder Role = "chartPlaceholder"
	RoleDataTable        Role = "dataTable"
	RoleNotificationList Role = "notificationList"
	RoleGridItem         Role = "gridItem"
	RoleTimerDisplay     Role = "timerDisplay"
	RolePanel            Role = "panel"
	RoleContentRoot      Role = "contentRoot"
	RoleDashboardGrid    Role = "dashboardGrid"
	RoleHeading          Role = "heading"
	RoleModal            Role = "modal"
	RoleGeneric          Role = ""
)

// IsComposite reports whether the role denotes a container-like grouping that
// may hold further customizable elements. Saved geometry is never applied to
// composites; doing so would displace all children as a block.
func (r Role) IsComposite() bool {
	switch r {
	case RolePanel, RoleContentRoot, RoleDashboardGrid:
		return true
	}
	return false
}

// LayoutEntry records one element's committed geometry. Fields hold authored,
// unit-qualified strings (e.g. "120px") or are empty, meaning "unset, do not
// override". An entry with all four geometry fields empty is meaningless and
// must never be persisted.
type LayoutEntry struct {
	ID     string `json:"id"`
	Left   string `json:"left"`
	Top    string `json:"top"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Empty reports whether the entry carries no geometry at all.
func (e LayoutEntry) Empty() bool {
	return strings.TrimSpace(e.Left) == "" &&
		strings.TrimSpace(e.Top) == "" &&
		strings.TrimSpace(e.Width) == "" &&
		strings.TrimSpace(e.Height) == ""
}

// LayoutDocument is the full persisted arrangement, keyed by element
// identifier. It is rebuilt in full on every save; insertion order carries no
// meaning.
type LayoutDocument struct {
	Items []LayoutEntry `json:"items"`
}

// Entry returns the entry for id, if present.
func (d LayoutDocument) Entry(id string) (LayoutEntry, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LayoutEntry{}, false
}

// Grid configuration bounds. The cell size is persisted independently of the
// layout document.
const (
	GridSizeMin     = 4
	GridSizeDefault = 8
)

// GridConfig holds the snapping cell size in pixels.
type GridConfig struct {
	CellSize int `json:"cellSize" yaml:"cell_size"`
}

// Normalize clamps the cell size to the allowed minimum, substituting the
// default for unset values.
func (g GridConfig) Normalize() GridConfig {
	if g.CellSize == 0 {
		g.CellSize = GridSizeDefault
	}
	if g.CellSize < GridSizeMin {
		g.CellSize = GridSizeMin
	}
	return g
}

// Interaction limits shared by the engine and the frontend.
const (
	// SnapThreshold is the maximum distance at which grid lines and sibling
	// guides attract a dragged edge.
	SnapThreshold = 10
	// MinElementWidth and MinElementHeight bound resizing.
	MinElementWidth  = 80
	MinElementHeight = 40
)
