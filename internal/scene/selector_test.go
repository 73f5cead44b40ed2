/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"layoutsmith/internal/domain"
)

// buildWorkbench assembles a small rendered tree covering the pattern list:
//
//	contentRoot
//	├── heading
//	├── panel
//	│   ├── card (contains a nested formGroup)
//	│   └── dataTable
//	├── dashboardGrid
//	│   ├── gridItem
//	│   └── gridItem (chartPlaceholder)
//	└── modal
//	    └── card
func buildWorkbench() *Node {
	root := NewNode(domain.RoleContentRoot)

	root.AddChild(NewNode(domain.RoleHeading))

	panel := root.AddChild(NewNode(domain.RolePanel))
	card := panel.AddChild(NewNode(domain.RoleCard))
	card.AddChild(NewNode(domain.RoleFormGroup))
	panel.AddChild(NewNode(domain.RoleDataTable))

	grid := root.AddChild(NewNode(domain.RoleDashboardGrid))
	grid.AddChild(NewNode(domain.RoleGridItem))
	chart := NewNode(domain.RoleChartPlaceholder)
	grid.AddChild(chart)

	modal := root.AddChild(NewNode(domain.RoleModal))
	modal.AddChild(NewNode(domain.RoleCard))

	return root
}

func TestSelect_NoAncestorDescendantPairs(t *testing.T) {
	got := Select(buildWorkbench())
	if len(got) == 0 {
		t.Fatalf("expected a non-empty selection")
	}
	for _, a := range got {
		for _, b := range got {
			if a != b && a.IsAncestorOf(b) {
				t.Fatalf("selection contains ancestor/descendant pair: %s > %s", a, b)
			}
		}
	}
}

func TestSelect_SpecificBeatsGeneric(t *testing.T) {
	root := buildWorkbench()
	got := Select(root)

	var haveCard, haveNestedFormGroup bool
	for _, n := range got {
		if n.Role == domain.RoleCard {
			haveCard = true
		}
		if n.Role == domain.RoleFormGroup {
			haveNestedFormGroup = true
		}
	}
	if !haveCard {
		t.Fatalf("card should be selected")
	}
	// the formGroup sits inside the already-selected card and must be skipped
	if haveNestedFormGroup {
		t.Fatalf("descendant of a selected element must not also be selected")
	}
}

func TestSelect_ModalContentExcluded(t *testing.T) {
	root := buildWorkbench()
	for _, n := range Select(root) {
		if n.InModal() {
			t.Fatalf("element inside modal selected: %s", n)
		}
	}
}

func TestSelect_Idempotent(t *testing.T) {
	root := buildWorkbench()
	first := Select(root)
	second := Select(root)
	if len(first) != len(second) {
		t.Fatalf("selection size changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID() != second[i].ID() {
			t.Fatalf("selection order/ids changed at %d: %s vs %s", i, first[i].ID(), second[i].ID())
		}
	}
}

func TestSelect_AssignsStableIDs(t *testing.T) {
	root := buildWorkbench()
	got := Select(root)
	seen := map[string]bool{}
	for _, n := range got {
		id := n.ID()
		if id == "" {
			t.Fatalf("selected element without identifier: %s", n)
		}
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true
	}
}

func TestSelect_ContainerDoesNotSwallowSelectedChildren(t *testing.T) {
	// A generic panel child that is an ancestor of an already selected card
	// must be skipped even though the generic pattern matches it.
	root := NewNode(domain.RoleContentRoot)
	panel := root.AddChild(NewNode(domain.RolePanel))
	wrapper := panel.AddChild(NewNode(domain.RoleGeneric)) // direct panel child
	wrapper.AddChild(NewNode(domain.RoleCard))

	got := Select(root)
	for _, n := range got {
		if n == wrapper {
			t.Fatalf("wrapper containing a selected card must not be selected")
		}
	}
	var haveCard bool
	for _, n := range got {
		if n.Role == domain.RoleCard {
			haveCard = true
		}
	}
	if !haveCard {
		t.Fatalf("nested card should still be selected")
	}
}

func TestSelect_GridChildrenSelectedPerItem(t *testing.T) {
	root := NewNode(domain.RoleContentRoot)
	grid := root.AddChild(NewNode(domain.RoleDashboardGrid))
	a := grid.AddChild(NewNode(domain.RoleGeneric))
	b := grid.AddChild(NewNode(domain.RoleGeneric))

	got := Select(root)
	found := map[*Node]bool{}
	for _, n := range got {
		found[n] = true
	}
	if !found[a] || !found[b] {
		t.Fatalf("each direct child of the dashboard grid should be selected")
	}
	if found[grid] {
		t.Fatalf("the grid itself must not be selected once its items are")
	}
}
