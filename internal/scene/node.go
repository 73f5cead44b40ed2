/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene models the rendered tree the customization engine operates on.
// It is deliberately renderer-agnostic: the Fyne frontend builds a scene from
// its widget hierarchy, tests build one by hand. The engine never talks to a
// concrete UI toolkit, only to nodes and visibility events.
package scene

import (
	"fmt"
	"strings"

	"layoutsmith/internal/domain"
	"layoutsmith/internal/geom"
)

// InlineGeometry mirrors the authored per-element geometry as strings, each
// either unit-qualified ("120px") or empty meaning "not set by the author".
type InlineGeometry struct {
	Left, Top, Width, Height string
}

// Empty reports whether no inline geometry is authored.
func (g InlineGeometry) Empty() bool {
	return g.Left == "" && g.Top == "" && g.Width == "" && g.Height == ""
}

// Node is one element of the rendered tree.
type Node struct {
	id       string
	Role     domain.Role
	parent   *Node
	children []*Node

	// Inline is the authored geometry currently applied to the node. The
	// engine writes committed positions here; the renderer reads them back.
	Inline InlineGeometry

	bounds     geom.Rect // measured rendered bounds, root-relative
	displayed  bool
	positioned bool // node establishes a coordinate origin for its children
	detached   bool

	idSeq int // used on the root only, for generated identifiers
}

// NewNode creates a displayed node with the given role.
func NewNode(role domain.Role) *Node {
	return &Node{Role: role, displayed: true}
}

// AddChild appends child to n and returns the child for chaining.
func (n *Node) AddChild(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Remove detaches n from its parent. A detached node keeps its id and
// geometry but will never be activated by the engine.
func (n *Node) Remove() {
	n.detached = true
	if n.parent == nil {
		return
	}
	kids := n.parent.children
	for i, c := range kids {
		if c == n {
			n.parent.children = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Detached reports whether the node has been removed from the tree.
func (n *Node) Detached() bool { return n.detached }

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// ID returns the node's stable identifier, or "" if none was assigned yet.
func (n *Node) ID() string { return n.id }

// SetID assigns an explicit identifier.
func (n *Node) SetID(id string) { n.id = id }

// EnsureID assigns a stable generated identifier if the node has none. The
// sequence lives on the tree's root so identifiers stay unique per tree even
// when nodes are added after the first selection pass.
func (n *Node) EnsureID() string {
	if n.id != "" {
		return n.id
	}
	root := n.Root()
	root.idSeq++
	n.id = fmt.Sprintf("lsm-el-%d", root.idSeq)
	return n.id
}

// Bounds returns the measured rendered bounds, root-relative.
func (n *Node) Bounds() geom.Rect { return n.bounds }

// SetBounds records the measured rendered bounds. Renderers call this after
// layout; tests call it directly.
func (n *Node) SetBounds(r geom.Rect) { n.bounds = r }

// BoundsIn converts the node's measured bounds into container-relative
// coordinates.
func (n *Node) BoundsIn(container *Node) geom.Rect {
	if container == nil {
		return n.bounds
	}
	cb := container.bounds
	return geom.R(n.bounds.X-cb.X, n.bounds.Y-cb.Y, n.bounds.W, n.bounds.H)
}

// SetDisplayed toggles whether the node is rendered at all.
func (n *Node) SetDisplayed(v bool) { n.displayed = v }

// Visible reports whether the node is displayed with a non-zero rendered
// size, taking ancestors into account: a node inside a hidden subtree is not
// visible no matter its own state.
func (n *Node) Visible() bool {
	if n.detached {
		return false
	}
	for p := n; p != nil; p = p.parent {
		if !p.displayed {
			return false
		}
	}
	return n.bounds.W > 0 && n.bounds.H > 0
}

// Positioned reports whether the node establishes a coordinate origin.
func (n *Node) Positioned() bool { return n.positioned }

// SetPositioned forces or clears the explicit-positioning flag.
func (n *Node) SetPositioned(v bool) { n.positioned = v }

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// InModal reports whether the node lies inside a modal/dialog overlay region.
// Such regions are never customizable.
func (n *Node) InModal() bool {
	for p := n; p != nil; p = p.parent {
		if p.Role == domain.RoleModal {
			return true
		}
	}
	return false
}

// Walk visits n and every descendant in document order. Returning false from
// fn prunes the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in document order whose id matches, or nil.
func (n *Node) Find(id string) *Node {
	var hit *Node
	n.Walk(func(c *Node) bool {
		if hit != nil {
			return false
		}
		if c.id == id {
			hit = c
			return false
		}
		return true
	})
	return hit
}

// ResolveContainer returns the node's governing container: the nearest
// enclosing panel-like region, falling back to the nearest positioned
// ancestor, falling back to the root.
func ResolveContainer(n *Node) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Role.IsComposite() {
			return p
		}
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.positioned {
			return p
		}
	}
	return n.Root()
}

// String aids debugging and log output.
func (n *Node) String() string {
	role := string(n.Role)
	if role == "" {
		role = "generic"
	}
	var b strings.Builder
	b.WriteString(role)
	if n.id != "" {
		b.WriteString("#")
		b.WriteString(n.id)
	}
	return b.String()
}
