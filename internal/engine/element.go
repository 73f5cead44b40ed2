/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package engine

import "layoutsmith/internal/scene"

// ElementState tracks an element's activation lifecycle.
type ElementState int

const (
	// StatePending means the element was discovered but its container is not
	// visible yet; interaction is deferred.
	StatePending ElementState = iota
	// StateActive means drag/resize interaction is attached.
	StateActive
)

// Element is one customizable element under engine management. It wraps the
// scene node and carries the activation state; the durable pieces (identifier,
// committed inline geometry, original snapshot) live on the node and in the
// geometry store, so they survive the Element being discarded on mode-off.
type Element struct {
	Node *scene.Node

	container *Container
	state     ElementState
}

// ID returns the element's stable identifier.
func (el *Element) ID() string { return el.Node.EnsureID() }

// Container returns the element's governing container.
func (el *Element) Container() *Container { return el.container }

// State returns the activation state.
func (el *Element) State() ElementState { return el.state }
