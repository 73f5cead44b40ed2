/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "layoutsmith/internal/domain"

// The element selector evaluates a fixed, priority-ordered list of structural
// patterns against the rendered tree and returns the deduplicated set of
// customizable elements. Specific patterns run before generic ones, so the
// most specific match claims an element and its subtree first. The resulting
// set never contains an ancestor/descendant pair.

// Pattern matches candidate nodes for one selection rule.
type Pattern struct {
	Name  string
	Match func(n *Node) bool
}

// DefaultPatterns is the selection order, most specific first.
func DefaultPatterns() []Pattern {
	roleIs := func(r domain.Role) func(*Node) bool {
		return func(n *Node) bool { return n.Role == r }
	}
	return []Pattern{
		{Name: "card", Match: roleIs(domain.RoleCard)},
		{Name: "form-group", Match: roleIs(domain.RoleFormGroup)},
		{Name: "chart-placeholder", Match: roleIs(domain.RoleChartPlaceholder)},
		{Name: "data-table", Match: roleIs(domain.RoleDataTable)},
		{Name: "notification-list", Match: roleIs(domain.RoleNotificationList)},
		{Name: "grid-item", Match: func(n *Node) bool {
			return n.parent != nil && n.parent.Role == domain.RoleDashboardGrid
		}},
		{Name: "timer-display", Match: roleIs(domain.RoleTimerDisplay)},
		{Name: "panel-child", Match: func(n *Node) bool {
			if n.parent == nil {
				return false
			}
			if n.parent.Role != domain.RolePanel && n.parent.Role != domain.RoleContentRoot {
				return false
			}
			return n.Role != domain.RoleHeading
		}},
	}
}

// Select runs the default patterns over the tree rooted at root and returns
// the customizable elements in selection order. Every returned node has a
// stable identifier assigned. The returned set is free of ancestor/descendant
// pairs: an element already claimed (or claimed through a more specific
// descendant) is skipped, and a broad container never swallows elements that
// were already selected inside it.
func Select(root *Node) []*Node {
	return SelectWith(root, DefaultPatterns())
}

// SelectWith is Select with an explicit pattern list.
func SelectWith(root *Node, patterns []Pattern) []*Node {
	var selected []*Node
	chosen := map[*Node]bool{}

	for _, p := range patterns {
		root.Walk(func(n *Node) bool {
			if n == root || !p.Match(n) {
				return true
			}
			if n.InModal() {
				return true
			}
			if chosen[n] {
				return true
			}
			for _, s := range selected {
				if s.IsAncestorOf(n) || n.IsAncestorOf(s) {
					return true
				}
			}
			n.EnsureID()
			chosen[n] = true
			selected = append(selected, n)
			return true
		})
	}
	return selected
}
