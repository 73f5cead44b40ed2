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
	"layoutsmith/internal/geom"
)

func TestResolveContainer_PrefersPanelLikeAncestor(t *testing.T) {
	root := NewNode(domain.RoleContentRoot)
	panel := root.AddChild(NewNode(domain.RolePanel))
	wrapper := panel.AddChild(NewNode(domain.RoleGeneric))
	wrapper.SetPositioned(true)
	card := wrapper.AddChild(NewNode(domain.RoleCard))

	if got := ResolveContainer(card); got != panel {
		t.Fatalf("expected nearest panel-like region, got %s", got)
	}
}

func TestResolveContainer_FallsBackToPositionedThenRoot(t *testing.T) {
	root := NewNode(domain.RoleGeneric)
	wrapper := root.AddChild(NewNode(domain.RoleGeneric))
	card := wrapper.AddChild(NewNode(domain.RoleCard))

	if got := ResolveContainer(card); got != root {
		t.Fatalf("with no panel or positioned ancestor, expected root, got %s", got)
	}

	wrapper.SetPositioned(true)
	if got := ResolveContainer(card); got != wrapper {
		t.Fatalf("expected nearest positioned ancestor, got %s", got)
	}
}

func TestVisible_RequiresDisplayedAncestorsAndSize(t *testing.T) {
	root := NewNode(domain.RoleContentRoot)
	panel := root.AddChild(NewNode(domain.RolePanel))
	card := panel.AddChild(NewNode(domain.RoleCard))
	card.SetBounds(geom.R(0, 0, 100, 50))

	if !card.Visible() {
		t.Fatalf("displayed node with size should be visible")
	}
	panel.SetDisplayed(false)
	if card.Visible() {
		t.Fatalf("node under a hidden ancestor must not be visible")
	}
	panel.SetDisplayed(true)
	card.SetBounds(geom.R(0, 0, 0, 0))
	if card.Visible() {
		t.Fatalf("zero-size node must not be visible")
	}
}

func TestBoundsIn_ConvertsToContainerRelative(t *testing.T) {
	root := NewNode(domain.RoleContentRoot)
	panel := root.AddChild(NewNode(domain.RolePanel))
	panel.SetBounds(geom.R(100, 50, 400, 300))
	card := panel.AddChild(NewNode(domain.RoleCard))
	card.SetBounds(geom.R(140, 90, 80, 40))

	rel := card.BoundsIn(panel)
	if rel.X != 40 || rel.Y != 40 {
		t.Fatalf("expected container-relative 40,40, got %v,%v", rel.X, rel.Y)
	}
}

func TestRemove_DetachesNode(t *testing.T) {
	root := NewNode(domain.RoleContentRoot)
	card := root.AddChild(NewNode(domain.RoleCard))
	card.SetBounds(geom.R(0, 0, 10, 10))
	card.Remove()
	if !card.Detached() || card.Visible() {
		t.Fatalf("removed node should be detached and invisible")
	}
	if len(root.Children()) != 0 {
		t.Fatalf("parent should no longer list the removed child")
	}
}

func TestBus_SubscribePublishCancel(t *testing.T) {
	bus := NewBus()
	var calls int
	cancel := bus.Subscribe("c1", func() { calls++ })
	bus.Publish("c1")
	bus.Publish("c2")
	if calls != 1 {
		t.Fatalf("expected one callback, got %d", calls)
	}
	cancel()
	cancel() // idempotent
	bus.Publish("c1")
	if calls != 1 {
		t.Fatalf("cancelled subscriber must not fire, got %d", calls)
	}
	if bus.Subscribers("c1") != 0 {
		t.Fatalf("expected no remaining subscribers")
	}
}
