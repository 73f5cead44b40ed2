/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Visibility change notification. Rather than watching the tree for
// mutations, the rendering layer emits an explicit "something about this
// container changed" event; the engine subscribes per container and
// unsubscribes once its pending queue drains.

// Notifier is the subscription surface the engine consumes.
type Notifier interface {
	// Subscribe registers fn for change events on the container with the
	// given id and returns a cancel func. Cancel is idempotent.
	Subscribe(containerID string, fn func()) (cancel func())
}

// Bus is a minimal in-process Notifier any renderer can publish into. It is
// not safe for concurrent use; the engine model is single-threaded and
// event-driven.
type Bus struct {
	nextToken int
	subs      map[string]map[int]func()
}

// NewBus returns an empty notifier bus.
func NewBus() *Bus {
	return &Bus{subs: map[string]map[int]func(){}}
}

// Subscribe implements Notifier.
func (b *Bus) Subscribe(containerID string, fn func()) func() {
	if b.subs[containerID] == nil {
		b.subs[containerID] = map[int]func(){}
	}
	b.nextToken++
	token := b.nextToken
	b.subs[containerID][token] = fn
	return func() {
		delete(b.subs[containerID], token)
		if len(b.subs[containerID]) == 0 {
			delete(b.subs, containerID)
		}
	}
}

// Publish invokes every subscriber registered for the container. Renderers
// call this after any attribute-level change that may affect visibility
// (display toggles, size changes, tab switches).
func (b *Bus) Publish(containerID string) {
	fns := make([]func(), 0, len(b.subs[containerID]))
	for _, fn := range b.subs[containerID] {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// Subscribers reports how many subscriptions a container currently has.
func (b *Bus) Subscribers(containerID string) int { return len(b.subs[containerID]) }
