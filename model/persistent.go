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
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Persistable is implemented by every entity that embeds Persistent. The
// repository relies on it to manage identity, the optimistic lock counter,
// and the transient persisted flag.
type Persistable interface {
	GetGuid() string
	SetGuid(guid string)
	GetVersion() int64
	SetVersion(version int64)
	IsPersisted() bool
	SetPersisted(persisted bool)
}

// NamedEntity overrides the display name derived from the entity type.
type NamedEntity interface {
	EntityName() string
}

// Persistent is the base model for entities identified by a string guid
// with an optimistic lock version counter. Embed it in Bun models:
//
//	type Product struct {
//	    bun.BaseModel `bun:"table:product"`
//	    model.Persistent
//	    Name string `bun:"name"`
//	}
type Persistent struct {
	// Guid is the surrogate key, generated on first persist when empty.
	Guid string `bun:"guid,pk" json:"guid"`

	// Version detects concurrent modification conflicts. It is bumped by
	// the repository on every committed update; a stale value rejects the
	// update instead of silently overwriting.
	Version int64 `bun:"version" json:"version"`

	// Persisted is true once the record has been loaded, inserted, or
	// refreshed from storage. Never written to the database.
	Persisted bool `bun:"-" json:"-"`
}

var _ bun.AfterScanRowHook = (*Persistent)(nil)

// NewPersistent returns a base with a freshly generated guid.
func NewPersistent() Persistent {
	return Persistent{Guid: NewGuid()}
}

// NewGuid generates a new entity identifier.
func NewGuid() string {
	return uuid.NewString()
}

// AfterScanRow marks the entity as persisted after it has been read from
// storage.
func (p *Persistent) AfterScanRow(ctx context.Context) error {
	p.Persisted = true
	return nil
}

func (p *Persistent) GetGuid() string { return p.Guid }

func (p *Persistent) SetGuid(guid string) { p.Guid = guid }

func (p *Persistent) GetVersion() int64 { return p.Version }

func (p *Persistent) SetVersion(version int64) { p.Version = version }

func (p *Persistent) IsPersisted() bool { return p.Persisted }

func (p *Persistent) SetPersisted(persisted bool) { p.Persisted = persisted }

// Equals reports identifier-based equality: two entities are equal when
// both guids are set and identical, regardless of any other field values.
func (p *Persistent) Equals(other Persistable) bool {
	if other == nil {
		return false
	}
	if p.Guid == "" {
		return false
	}
	return p.Guid == other.GetGuid()
}

func (p *Persistent) String() string {
	return fmt.Sprintf("Persistent:%s", p.Guid)
}
