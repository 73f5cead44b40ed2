/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package engine

import "context"

// Mode is the customization state machine. Loading is transient while the
// pointer-interaction capability is acquired.
type Mode int

const (
	ModeOff Mode = iota
	ModeLoading
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeActive:
		return "active"
	default:
		return "off"
	}
}

// InteractionCapability is the pointer-interaction facility the frontend
// supplies: it wires drag/resize gestures on a concrete widget to the
// engine's gesture methods. Attach is called once per element; the engine
// guarantees it never attaches twice.
type InteractionCapability interface {
	Attach(el *Element) error
	Detach(el *Element)
}

// CapabilityProvider acquires the interaction capability. Acquisition may
// suspend (an asynchronous load) and may fail; the engine applies a bounded
// timeout through ctx.
type CapabilityProvider interface {
	Acquire(ctx context.Context) (InteractionCapability, error)
}

// SyncProvider wraps an already-available capability for environments where
// it is bundled ahead of time.
type SyncProvider struct{ Capability InteractionCapability }

func (p SyncProvider) Acquire(context.Context) (InteractionCapability, error) {
	return p.Capability, nil
}

// NopCapability attaches nothing; useful for headless operation and tests
// that drive gestures through the engine directly.
type NopCapability struct{}

func (NopCapability) Attach(*Element) error { return nil }
func (NopCapability) Detach(*Element)       {}
