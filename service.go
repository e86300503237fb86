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

package osprey

import (
	"context"
	"database/sql"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/repository"
	"github.com/tomoncle/osprey/types"
)

// Service is the entity-facing facade over the generic repository, backed
// by the global database connection. Construction is lazy so a Service may
// be declared at package level before the database is initialized.
type Service[T any] interface {
	// Get returns a single entity by its guid.
	Get(ctx context.Context, guid string) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// ByGuids returns the entities matching the given guid set.
	ByGuids(ctx context.Context, guids []string) ([]*T, error)

	// Window returns a bounded window of the full result set.
	Window(ctx context.Context, from, count *int) ([]*T, error)

	// Query runs an ad hoc filter fragment with named parameters.
	Query(ctx context.Context, fragment string, params *types.QueryParams) ([]*T, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Load returns a single entity with its load-graph relations.
	Load(ctx context.Context, guid string) (*T, error)

	// LoadAll returns all entities with their load-graph relations.
	LoadAll(ctx context.Context) ([]*T, error)

	// Save persists a new entity.
	Save(ctx context.Context, entity *T) (*T, error)

	// SaveAll persists new entities in one statement.
	SaveAll(ctx context.Context, entities []*T) ([]*T, error)

	// Update merges an existing entity under optimistic locking.
	Update(ctx context.Context, entity *T) (*T, error)

	// Delete removes an entity.
	Delete(ctx context.Context, entity *T) (bool, error)

	// DeleteByGuid removes the entity with the given guid.
	DeleteByGuid(ctx context.Context, guid string) (bool, error)

	// Refresh reloads the entity's state from storage.
	Refresh(ctx context.Context, entity *T) error

	// Repository exposes the full repository surface behind the facade.
	Repository() repository.EntityRepository[T]

	// RunInTx executes fn inside a transaction, with a repository bound to
	// that transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo repository.EntityRepository[T]) error) error
}

type baseServiceImpl[T any] struct {
	repo repository.EntityRepository[T]
	err  error
	once sync.Once
}

// NewService returns a Service implementation using the generic entity
// repository backed by the global database connection.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

func (s *baseServiceImpl[T]) baseRepo() (repository.EntityRepository[T], error) {
	s.once.Do(func() {
		s.repo, s.err = repository.NewEntityRepository[T](database.GetDB())
	})
	return s.repo, s.err
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, guid string) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindByGuid(ctx, guid)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx)
}

func (s *baseServiceImpl[T]) ByGuids(ctx context.Context, guids []string) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindByGuids(ctx, guids)
}

func (s *baseServiceImpl[T]) Window(ctx context.Context, from, count *int) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Find(ctx, from, count)
}

func (s *baseServiceImpl[T]) Query(ctx context.Context, fragment string, params *types.QueryParams) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindQuery(ctx, fragment, params)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Page(ctx, page)
}

func (s *baseServiceImpl[T]) Load(ctx context.Context, guid string) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.LoadByGuid(ctx, guid)
}

func (s *baseServiceImpl[T]) LoadAll(ctx context.Context) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.LoadAll(ctx)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, entity)
}

func (s *baseServiceImpl[T]) SaveAll(ctx context.Context, entities []*T) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.CreateAll(ctx, entities)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, entity *T) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Update(ctx, entity)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, entity *T) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Delete(ctx, entity)
}

func (s *baseServiceImpl[T]) DeleteByGuid(ctx context.Context, guid string) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.DeleteByGuid(ctx, guid)
}

func (s *baseServiceImpl[T]) Refresh(ctx context.Context, entity *T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Refresh(ctx, entity)
}

func (s *baseServiceImpl[T]) Repository() repository.EntityRepository[T] {
	repo, err := s.baseRepo()
	if err != nil {
		panic(err)
	}
	return repo
}

func (s *baseServiceImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo repository.EntityRepository[T]) error) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return database.GetDB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, repo.WithTx(tx))
	})
}
