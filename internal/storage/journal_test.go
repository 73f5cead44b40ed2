/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"testing"
)

func TestJournalRecordsSavesAndResets(t *testing.T) {
	root := t.TempDir()
	db, err := OpenJournal(root)
	if err != nil {
		t.Fatalf("OpenJournal error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(JournalPath(root)); err != nil {
		t.Fatalf("journal file missing: %v", err)
	}

	if err := RecordSave(db, 3); err != nil {
		t.Fatalf("RecordSave error: %v", err)
	}
	if err := RecordSave(db, 5); err != nil {
		t.Fatalf("RecordSave error: %v", err)
	}
	if err := RecordReset(db); err != nil {
		t.Fatalf("RecordReset error: %v", err)
	}

	entries, err := JournalEntries(db, 0)
	if err != nil {
		t.Fatalf("JournalEntries error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// newest first
	if entries[0].Kind != "reset" {
		t.Fatalf("expected newest entry to be the reset, got %q", entries[0].Kind)
	}
	if entries[1].Kind != "save" || entries[1].ItemCount != 5 {
		t.Fatalf("unexpected entry order: %+v", entries[1])
	}
	if entries[0].At.IsZero() {
		t.Fatalf("entry timestamp should parse")
	}
}

func TestJournalReopenKeepsEntries(t *testing.T) {
	root := t.TempDir()
	db, err := OpenJournal(root)
	if err != nil {
		t.Fatalf("OpenJournal error: %v", err)
	}
	if err := RecordSave(db, 1); err != nil {
		t.Fatalf("RecordSave error: %v", err)
	}
	_ = db.Close()

	db2, err := OpenJournal(root)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer func() { _ = db2.Close() }()
	entries, err := JournalEntries(db2, 10)
	if err != nil {
		t.Fatalf("JournalEntries error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected persisted entry after reopen, got %d", len(entries))
	}
}
