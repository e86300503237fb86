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
	"time"

	"github.com/uptrace/bun"
)

// PersistentTraceable extends Persistent with audit attribution. The
// fields are stamped automatically by a Bun model hook: creation values
// are written exactly once, on first persist; modification values are
// refreshed on every insert and update, so immediately after creation
// both pairs are identical.
type PersistentTraceable struct {
	Persistent

	CreationDate     time.Time `bun:"creation_date,nullzero" json:"creationDate"`
	CreationUser     string    `bun:"creation_user,nullzero" json:"creationUser"`
	ModificationDate time.Time `bun:"modification_date,nullzero" json:"modificationDate"`
	ModificationUser string    `bun:"modification_user,nullzero" json:"modificationUser"`
}

var _ bun.BeforeAppendModelHook = (*PersistentTraceable)(nil)

// BeforeAppendModel stamps the audit fields before the entity is appended
// to an insert or update statement. The acting user is taken from the
// context principal; without one the user fields stay empty.
func (t *PersistentTraceable) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		t.CreationDate = now
		t.ModificationDate = now
		if name, ok := PrincipalFrom(ctx); ok {
			t.CreationUser = name
			t.ModificationUser = name
		}
	case *bun.UpdateQuery:
		t.ModificationDate = time.Now()
		if name, ok := PrincipalFrom(ctx); ok {
			t.ModificationUser = name
		}
	}
	return nil
}
