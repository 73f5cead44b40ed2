/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package engine

import (
	"layoutsmith/internal/geom"
	"layoutsmith/internal/scene"
)

// Container is a grouping region that establishes the coordinate origin for
// the customizable elements inside it. It exists only while at least one
// element references it or its overlay is attached; disabling customization
// removes it.
type Container struct {
	Node *scene.Node

	// forcedPositioned records that prepare made the positioning mode
	// explicit. Teardown leaves it as-is; reverting it would shift every
	// committed child.
	forcedPositioned bool

	overlay  *Overlay
	elements map[string]*Element
}

// ID returns the container node's identifier.
func (c *Container) ID() string { return c.Node.EnsureID() }

// ContentBounds returns the container's content rectangle in its own
// coordinate space (origin at 0,0).
func (c *Container) ContentBounds() geom.Rect {
	b := c.Node.Bounds()
	return geom.R(0, 0, b.W, b.H)
}

// Overlay returns the guide overlay layer.
func (c *Container) Overlay() *Overlay { return c.overlay }

// Elements returns the elements currently registered with the container.
func (c *Container) Elements() []*Element {
	out := make([]*Element, 0, len(c.elements))
	for _, el := range c.elements {
		out = append(out, el)
	}
	return out
}

// Overlay is the non-interactive layer stacked above a container's content,
// used only for ephemeral alignment guide lines.
type Overlay struct {
	guides []geom.GuideLine
}

// SetGuides replaces the guides drawn this frame.
func (o *Overlay) SetGuides(guides []geom.GuideLine) { o.guides = guides }

// Clear removes all guides.
func (o *Overlay) Clear() { o.guides = nil }

// Guides returns the current frame's guide lines.
func (o *Overlay) Guides() []geom.GuideLine { return o.guides }

// containerFor resolves and prepares the governing container for a node,
// reusing an existing registration when the same region governs several
// elements.
func (e *Engine) containerFor(n *scene.Node) *Container {
	cn := scene.ResolveContainer(n)
	if c, ok := e.containers[cn]; ok {
		return c
	}
	c := &Container{
		Node:     cn,
		overlay:  &Overlay{},
		elements: map[string]*Element{},
	}
	if !cn.Positioned() {
		cn.SetPositioned(true)
		c.forcedPositioned = true
	}
	e.containers[cn] = c
	return c
}

// Containers lists the currently registered containers.
func (e *Engine) Containers() []*Container {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Container, 0, len(e.containers))
	for _, c := range e.containers {
		out = append(out, c)
	}
	return out
}
