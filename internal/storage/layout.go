/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists the layout document and its save journal for a
// workspace directory. The document is always replaced wholesale, never
// patched, so concurrent saves are last-write-wins with no partial state.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"log/slog"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"layoutsmith/internal/domain"
	applog "layoutsmith/internal/log"
)

const (
	LayoutFileName = "layout.json"
	BackupsDirName = "backups"
)

// layoutSchema validates a persisted document on load. Anything that does not
// conform is treated as empty rather than applied partially.
const layoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "left": {"type": "string"},
          "top": {"type": "string"},
          "width": {"type": "string"},
          "height": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// WorkspaceHandle tracks the workspace directory a layout document lives in.
type WorkspaceHandle struct {
	Root       string
	LayoutPath string
}

// InitWorkspace creates the workspace directory (and its backups folder) and
// writes an empty layout document if none exists yet.
func InitWorkspace(root string) (*WorkspaceHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create backups dir: %w", err)
	}
	ws := &WorkspaceHandle{Root: root, LayoutPath: filepath.Join(root, LayoutFileName)}
	if _, err := os.Stat(ws.LayoutPath); errors.Is(err, os.ErrNotExist) {
		if err := WriteDocument(ws, domain.LayoutDocument{Items: []domain.LayoutEntry{}}); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// OpenWorkspace returns a handle for an existing workspace directory.
func OpenWorkspace(root string) (*WorkspaceHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}
	return &WorkspaceHandle{Root: root, LayoutPath: filepath.Join(root, LayoutFileName)}, nil
}

// ReadDocument loads and validates the persisted layout document. A missing,
// malformed, or non-conforming document yields an empty one; the caller never
// sees a partial parse.
func ReadDocument(ws *WorkspaceHandle) domain.LayoutDocument {
	empty := domain.LayoutDocument{Items: []domain.LayoutEntry{}}
	if ws == nil {
		return empty
	}
	l := applog.WithComponent("storage")
	data, err := os.ReadFile(ws.LayoutPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.Warn("read layout failed, starting empty", slog.Any("err", err))
		}
		return empty
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(layoutSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil || !result.Valid() {
		l.Warn("layout document malformed, starting empty", slog.String("path", ws.LayoutPath))
		return empty
	}
	var doc domain.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		l.Warn("layout document unparsable, starting empty", slog.Any("err", err))
		return empty
	}
	if doc.Items == nil {
		doc.Items = []domain.LayoutEntry{}
	}
	return doc
}

// WriteDocument replaces the persisted layout document with transactional
// semantics and a timestamped backup of the previous file (if present).
func WriteDocument(ws *WorkspaceHandle, doc domain.LayoutDocument) error {
	if ws == nil {
		return errors.New("nil WorkspaceHandle")
	}
	if ws.Root == "" || ws.LayoutPath == "" {
		return errors.New("invalid WorkspaceHandle: missing paths")
	}
	if doc.Items == nil {
		doc.Items = []domain.LayoutEntry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ws.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(ws.LayoutPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", LayoutFileName, stamp)
		if cerr := copyFile(ws.LayoutPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current layout: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename.
	dir := filepath.Dir(ws.LayoutPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", LayoutFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp layout: %w", werr)
	}
	// On Windows, replace by removing destination first if needed.
	if _, err := os.Stat(ws.LayoutPath); err == nil {
		_ = os.Remove(ws.LayoutPath)
	}
	if rerr := os.Rename(temp, ws.LayoutPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace layout: %w", rerr)
	}
	return nil
}

// LatestBackup returns the most recent timestamped layout backup, if any.
func LatestBackup(ws *WorkspaceHandle) (string, bool) {
	bdir := filepath.Join(ws.Root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return "", false
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, LayoutFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	return candidates[len(candidates)-1], true
}

// AutosaveCrashSnapshot writes the current document next to the backups so a
// crash never loses the last arrangement.
func AutosaveCrashSnapshot(ws *WorkspaceHandle) (string, error) {
	if ws == nil {
		return "", errors.New("nil WorkspaceHandle")
	}
	doc := ReadDocument(ws)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(ws.Root, BackupsDirName, fmt.Sprintf("layout-crash-%s.json", stamp))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := writeFileSync(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}
