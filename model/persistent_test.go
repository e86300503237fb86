/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import (
	"context"
	"testing"
)

func TestNewGuidUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		guid := NewGuid()
		if guid == "" {
			t.Fatal("guid should not be empty")
		}
		if seen[guid] {
			t.Fatalf("duplicate guid %s", guid)
		}
		seen[guid] = true
	}
}

func TestPersistentEquals(t *testing.T) {
	a, b := NewPersistent(), NewPersistent()
	a.SetGuid("same")
	b.SetGuid("same")
	if !a.Equals(&b) {
		t.Fatal("entities with the same guid should be equal")
	}

	b.SetGuid("other")
	if a.Equals(&b) {
		t.Fatal("entities with different guids should not be equal")
	}

	var empty Persistent
	var other Persistent
	if empty.Equals(&other) {
		t.Fatal("entities without a guid are never equal")
	}
	if a.Equals(nil) {
		t.Fatal("nil is never equal")
	}
}

func TestPersistentAccessors(t *testing.T) {
	p := NewPersistent()
	if p.IsPersisted() {
		t.Fatal("new entity should not be persisted")
	}
	p.SetGuid("g")
	p.SetVersion(3)
	p.SetPersisted(true)
	if p.GetGuid() != "g" || p.GetVersion() != 3 || !p.IsPersisted() {
		t.Fatalf("accessors = (%s, %d, %v)", p.GetGuid(), p.GetVersion(), p.IsPersisted())
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := PrincipalFrom(ctx); ok {
		t.Fatal("empty context should carry no principal")
	}

	ctx = WithPrincipal(ctx, "alice")
	name, ok := PrincipalFrom(ctx)
	if !ok || name != "alice" {
		t.Fatalf("principal = (%q, %v), want alice", name, ok)
	}

	if _, ok := PrincipalFrom(WithPrincipal(context.Background(), "")); ok {
		t.Fatal("blank principal should not be carried")
	}
}
