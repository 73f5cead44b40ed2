/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"database/sql"
	"errors"

	"log/slog"

	"layoutsmith/internal/domain"
	applog "layoutsmith/internal/log"
	"layoutsmith/internal/scene"
)

// Store is the geometry store: it owns the durable layout document across
// customization sessions and the side-table of original geometry snapshots
// used by Reset. One Store serves one workspace.
type Store struct {
	ws      *WorkspaceHandle
	journal *sql.DB // optional save journal; nil disables journaling
	log     *slog.Logger

	// originals maps element id to the inline geometry the element carried
	// before the first saved entry was applied to it. Snapshot-once.
	originals map[string]scene.InlineGeometry
}

// NewStore creates a geometry store for the workspace. journal may be nil.
func NewStore(ws *WorkspaceHandle, journal *sql.DB) *Store {
	return &Store{
		ws:        ws,
		journal:   journal,
		log:       applog.WithComponent("store"),
		originals: map[string]scene.InlineGeometry{},
	}
}

// Save rebuilds the full layout document from the given elements and replaces
// the persisted one. Entries with no geometry at all are not persisted.
func (s *Store) Save(elements []*scene.Node) error {
	if s.ws == nil {
		return errors.New("store has no workspace")
	}
	doc := domain.LayoutDocument{Items: []domain.LayoutEntry{}}
	for _, n := range elements {
		if n == nil || n.Detached() {
			continue
		}
		e := domain.LayoutEntry{
			ID:     n.EnsureID(),
			Left:   n.Inline.Left,
			Top:    n.Inline.Top,
			Width:  n.Inline.Width,
			Height: n.Inline.Height,
		}
		if e.Empty() {
			continue
		}
		doc.Items = append(doc.Items, e)
	}
	if err := WriteDocument(s.ws, doc); err != nil {
		return err
	}
	if s.journal != nil {
		if err := RecordSave(s.journal, len(doc.Items)); err != nil {
			s.log.Warn("journal save entry failed", slog.Any("err", err))
		}
	}
	s.log.Debug("layout saved", slog.Int("items", len(doc.Items)))
	return nil
}

// Load reads and parses the persisted layout document. Missing or malformed
// documents yield an empty one.
func (s *Store) Load() domain.LayoutDocument {
	return ReadDocument(s.ws)
}

// Apply places saved geometry onto live elements of the tree rooted at root.
// Per entry it skips: identifiers with no resolvable element, composite-role
// elements that contain further customizable descendants, and entries with
// all geometry fields empty. For everything else it ensures the governing
// container is an explicit coordinate origin, snapshots the element's
// pre-existing inline geometry once, forces the element into explicit
// positioning, and writes each non-empty field. Apply never attaches
// interaction behavior; it only places elements. It returns the number of
// entries applied.
func (s *Store) Apply(root *scene.Node, doc domain.LayoutDocument) int {
	if root == nil {
		return 0
	}
	applied := 0
	for _, e := range doc.Items {
		n := root.Find(e.ID)
		if n == nil {
			// element may have been removed since the layout was saved
			continue
		}
		if n.Role.IsComposite() && len(scene.Select(n)) > 0 {
			s.log.Debug("skip composite with customizable descendants", slog.String("id", e.ID))
			continue
		}
		if e.Empty() {
			continue
		}
		container := scene.ResolveContainer(n)
		if !container.Positioned() {
			container.SetPositioned(true)
		}
		s.SnapshotOriginal(n)
		n.SetPositioned(true)
		if e.Left != "" {
			n.Inline.Left = e.Left
		}
		if e.Top != "" {
			n.Inline.Top = e.Top
		}
		if e.Width != "" {
			n.Inline.Width = e.Width
		}
		if e.Height != "" {
			n.Inline.Height = e.Height
		}
		applied++
	}
	return applied
}

// SnapshotOriginal captures the element's current inline geometry the first
// time it is seen; later calls are no-ops so the stored original always
// reflects the pre-customization state.
func (s *Store) SnapshotOriginal(n *scene.Node) {
	id := n.EnsureID()
	if _, ok := s.originals[id]; ok {
		return
	}
	s.originals[id] = n.Inline
}

// HasOriginal reports whether an original snapshot exists for the id.
func (s *Store) HasOriginal(id string) bool {
	_, ok := s.originals[id]
	return ok
}

// Reset clears the persisted document, restores every element with a stored
// original-geometry snapshot, clears the snapshots, and asks the interface to
// reload via the callback. It does nothing without confirmation.
func (s *Store) Reset(root *scene.Node, confirmed bool, reload func()) error {
	if !confirmed {
		return nil
	}
	if err := WriteDocument(s.ws, domain.LayoutDocument{Items: []domain.LayoutEntry{}}); err != nil {
		return err
	}
	if root != nil {
		for id, orig := range s.originals {
			if n := root.Find(id); n != nil {
				n.Inline = orig
			}
		}
	}
	s.originals = map[string]scene.InlineGeometry{}
	if s.journal != nil {
		if err := RecordReset(s.journal); err != nil {
			s.log.Warn("journal reset entry failed", slog.Any("err", err))
		}
	}
	s.log.Info("layout reset")
	if reload != nil {
		reload()
	}
	return nil
}

// Workspace exposes the underlying handle (for crash reporting and export).
func (s *Store) Workspace() *WorkspaceHandle { return s.ws }
