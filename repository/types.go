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

package repository

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/osprey/types"
)

// EntityFinder reads entities without touching their relations.
type EntityFinder[T any] interface {
	// FindAll returns every entity of the repository's type.
	FindAll(ctx context.Context) ([]*T, error)

	// FindByGuid returns the entity with the given guid, or nil when the
	// guid is empty or no row matches.
	FindByGuid(ctx context.Context, guid string) (*T, error)

	// FindByGuids returns the entities whose guids are in the given set.
	// An empty set yields an empty result without querying.
	FindByGuids(ctx context.Context, guids []string) ([]*T, error)

	// Find returns a window of the full result set. from is the index of
	// the first returned row and count caps how many rows come back; a nil
	// value leaves the corresponding bound open.
	Find(ctx context.Context, from, count *int) ([]*T, error)

	// FindQuery runs an ad hoc filter fragment against the entity's table.
	// A fragment without a leading FROM clause is treated as a bare WHERE
	// condition. Named bind variables (":name") are resolved from params.
	FindQuery(ctx context.Context, fragment string, params *types.QueryParams) ([]*T, error)

	// Page returns one page of entities plus the total match count.
	Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error)
}

// EntityLoader reads entities together with the relations named by the
// entity's registered load graph ("<entityName>.load"). When no graph is
// registered the Load operations degrade to plain reads.
type EntityLoader[T any] interface {
	LoadAll(ctx context.Context) ([]*T, error)
	LoadByGuid(ctx context.Context, guid string) (*T, error)
	LoadByGuids(ctx context.Context, guids []string) ([]*T, error)
}

// EntityWriter creates, updates, and deletes managed entities.
type EntityWriter[T any] interface {
	// Create persists a new entity, assigning a guid when none is set.
	Create(ctx context.Context, entity *T) (*T, error)

	// CreateAll persists all given entities in a single statement.
	CreateAll(ctx context.Context, entities []*T) ([]*T, error)

	// Update merges the entity's state, guarded by its version column. A
	// stale version yields a ConstraintError naming the
	// OptimisticLockConstraint.
	Update(ctx context.Context, entity *T) (*T, error)

	// UpdateAll updates the entities one by one, stopping at the first
	// failure.
	UpdateAll(ctx context.Context, entities []*T) ([]*T, error)

	// Delete removes the entity and reports whether a row was deleted.
	// A nil entity is a no-op.
	Delete(ctx context.Context, entity *T) (bool, error)

	// DeleteList removes the entities one by one and returns how many rows
	// went away before the first failure, if any.
	DeleteList(ctx context.Context, entities []*T) (int, error)

	// DeleteAll removes every entity of the repository's type, one by one.
	DeleteAll(ctx context.Context) (int, error)

	// Refresh reloads the entity's columns from storage in place.
	Refresh(ctx context.Context, entity *T) error

	// Lock acquires a row-level write lock on the entity for the duration
	// of the surrounding transaction.
	Lock(ctx context.Context, entity *T) error
}

// EntityBulkDeleter removes rows with single bulk statements instead of
// per-entity round trips.
type EntityBulkDeleter[T any] interface {
	DeleteQueryAll(ctx context.Context) (int, error)
	DeleteByGuid(ctx context.Context, guid string) (bool, error)
	DeleteByGuids(ctx context.Context, guids []string) (int, error)
}

// EntityRepository is the full persistence surface for one entity type.
// Implementations are safe for concurrent use as long as distinct entity
// instances are passed to the write operations.
type EntityRepository[T any] interface {
	EntityFinder[T]
	EntityLoader[T]
	EntityWriter[T]
	EntityBulkDeleter[T]

	// EntityName returns the logical entity name used in error parameters
	// and load-graph resolution.
	EntityName() string

	// TableName returns the mapped table name.
	TableName() string

	// WithTx returns a repository bound to the given transaction. The
	// receiver is left untouched.
	WithTx(tx bun.Tx) EntityRepository[T]

	// Dialect exposes the backing connection's SQL dialect.
	Dialect() schema.Dialect

	// Escape hatches for queries the typed operations do not cover.
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
	NewRaw(query string, args ...interface{}) *bun.RawQuery
}
