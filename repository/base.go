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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/model"
	"github.com/tomoncle/osprey/types"
)

type baseEntityRepository[T any] struct {
	db            bun.IDB
	entityName    string
	tableName     string
	loadGraphName string
}

// NewEntityRepository builds a repository for T on the given connection or
// transaction. T must embed model.Persistent; the entity name comes from
// model.NamedEntity when implemented, otherwise from the type name.
func NewEntityRepository[T any](db bun.IDB) (EntityRepository[T], error) {
	if db == nil {
		return nil, fmt.Errorf("repository: nil database handle")
	}
	var probe T
	if _, ok := any(&probe).(model.Persistable); !ok {
		return nil, fmt.Errorf("repository: type %T must embed model.Persistent", probe)
	}
	entityName := reflect.TypeOf(probe).Name()
	if named, ok := any(&probe).(model.NamedEntity); ok {
		entityName = named.EntityName()
	}
	table := db.Dialect().Tables().Get(reflect.TypeOf(probe))
	r := &baseEntityRepository[T]{
		db:         db,
		entityName: entityName,
		tableName:  table.Name,
	}
	graphName := entityName + LoadGraphSuffix
	if _, ok := LookupLoadGraph(graphName); ok {
		r.loadGraphName = graphName
	}
	database.GetLogger().Debug("initialize entity repository",
		"entity", entityName, "table", table.Name)
	return r, nil
}

// MustEntityRepository is NewEntityRepository that panics on error. Meant
// for package-level initialization of well-known entity types.
func MustEntityRepository[T any](db bun.IDB) EntityRepository[T] {
	r, err := NewEntityRepository[T](db)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *baseEntityRepository[T]) EntityName() string { return r.entityName }

func (r *baseEntityRepository[T]) TableName() string { return r.tableName }

func (r *baseEntityRepository[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseEntityRepository[T]) WithTx(tx bun.Tx) EntityRepository[T] {
	clone := *r
	clone.db = tx
	return &clone
}

func (r *baseEntityRepository[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }
func (r *baseEntityRepository[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }
func (r *baseEntityRepository[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }
func (r *baseEntityRepository[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseEntityRepository[T]) NewRaw(query string, args ...interface{}) *bun.RawQuery {
	return r.db.NewRaw(query, args...)
}

func (r *baseEntityRepository[T]) persistable(entity *T) model.Persistable {
	// guarded at construction time
	return any(entity).(model.Persistable)
}

// handleConstraint translates a storage failure: typed errors pass through
// unchanged, recognized constraint violations become a ConstraintError
// naming the violated constraint, and everything else becomes a plain
// ServiceError under the given key.
func (r *baseEntityRepository[T]) handleConstraint(err error, key ErrorKey) error {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	if name, ok := database.ConstraintName(err); ok {
		return NewConstraintError(name, key, err, r.entityName)
	}
	return NewServiceError(key, err, r.entityName)
}

func (r *baseEntityRepository[T]) FindAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.db.NewSelect().Model(&entities).Scan(ctx); err != nil {
		return nil, NewServiceError(FindAllEntitiesFailed, err)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) FindByGuid(ctx context.Context, guid string) (*T, error) {
	if guid == "" {
		return nil, nil
	}
	entity := new(T)
	err := r.db.NewSelect().Model(entity).Where("?TableAlias.guid = ?", guid).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewServiceError(FindEntityByIdFailed, err)
	}
	return entity, nil
}

func (r *baseEntityRepository[T]) FindByGuids(ctx context.Context, guids []string) ([]*T, error) {
	entities := make([]*T, 0)
	if len(guids) == 0 {
		return entities, nil
	}
	err := r.db.NewSelect().Model(&entities).
		Where("?TableAlias.guid IN (?)", bun.In(guids)).
		Scan(ctx)
	if err != nil {
		return nil, NewServiceError(FailedToGetEntityByGuids, err, r.entityName)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) Find(ctx context.Context, from, count *int) ([]*T, error) {
	entities := make([]*T, 0)
	q := r.db.NewSelect().Model(&entities)
	if from != nil {
		q = q.Offset(*from)
	}
	if count != nil {
		// The cap counts rows from the start of the full result set, so
		// with an offset the window closes at from+count.
		maxResults := *count
		if from != nil {
			maxResults = *from + *count
		}
		limit := maxResults
		if from != nil {
			limit = maxResults - *from
		}
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, NewServiceError(FailedToGetAllEntities, err,
			r.entityName, intOrNil(from), intOrNil(count))
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) FindQuery(ctx context.Context, fragment string, params *types.QueryParams) ([]*T, error) {
	frag := strings.TrimSpace(fragment)
	if !strings.HasPrefix(strings.ToUpper(frag), "FROM ") {
		frag = "FROM " + r.tableName + " WHERE " + frag
	}
	expr, args, err := params.Bind(frag)
	if err != nil {
		return nil, NewServiceError(FailedToQueryEntities, err, r.entityName)
	}
	entities := make([]*T, 0)
	if err := r.db.NewRaw("SELECT * "+expr, args...).Scan(ctx, &entities); err != nil {
		return nil, NewServiceError(FailedToQueryEntities, err, r.entityName)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	entities := make([]*T, 0)
	q := r.db.NewSelect().Model(&entities)
	if filter := pageRequest.GetFilter(); filter != nil {
		q = q.Where(filter.Expr, filter.Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := q.Count(ctx)
	if err != nil {
		return nil, NewServiceError(FailedToGetAllEntities, err, r.entityName)
	}
	pagination.Total = total
	if total == 0 {
		return pagination, nil
	}
	q = q.Offset(pageRequest.GetOffset()).Limit(pageRequest.GetPageSize())
	for _, order := range pageRequest.GetOrders() {
		q = q.Order(order)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, NewServiceError(FailedToGetAllEntities, err, r.entityName)
	}
	pagination.Items = entities
	return pagination, nil
}

func (r *baseEntityRepository[T]) loadQuery(entities interface{}) *bun.SelectQuery {
	q := r.db.NewSelect().Model(entities)
	if r.loadGraphName == "" {
		return q
	}
	relations, _ := LookupLoadGraph(r.loadGraphName)
	for _, relation := range relations {
		q = q.Relation(relation)
	}
	return q
}

func (r *baseEntityRepository[T]) LoadAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.loadQuery(&entities).Distinct().Scan(ctx); err != nil {
		return nil, NewServiceError(FailedToLoadAllEntities, err, r.entityName, r.loadGraphName)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) LoadByGuid(ctx context.Context, guid string) (*T, error) {
	if guid == "" {
		return nil, nil
	}
	entity := new(T)
	err := r.loadQuery(entity).Where("?TableAlias.guid = ?", guid).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewServiceError(FailedToLoadEntityByGuid, err, guid, r.entityName)
	}
	return entity, nil
}

func (r *baseEntityRepository[T]) LoadByGuids(ctx context.Context, guids []string) ([]*T, error) {
	entities := make([]*T, 0)
	if len(guids) == 0 {
		return entities, nil
	}
	err := r.loadQuery(&entities).
		Where("?TableAlias.guid IN (?)", bun.In(guids)).
		Distinct().
		Scan(ctx)
	if err != nil {
		return nil, NewServiceError(FailedToLoadGuidsEntities, err, r.entityName, r.loadGraphName)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, nil
	}
	p := r.persistable(entity)
	if p.GetGuid() == "" {
		p.SetGuid(model.NewGuid())
	}
	if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
		return nil, r.handleConstraint(err, PersistEntityFailed)
	}
	p.SetPersisted(true)
	return entity, nil
}

func (r *baseEntityRepository[T]) CreateAll(ctx context.Context, entities []*T) ([]*T, error) {
	if len(entities) == 0 {
		return entities, nil
	}
	for _, entity := range entities {
		p := r.persistable(entity)
		if p.GetGuid() == "" {
			p.SetGuid(model.NewGuid())
		}
	}
	if _, err := r.db.NewInsert().Model(&entities).Exec(ctx); err != nil {
		return nil, r.handleConstraint(err, PersistEntityFailed)
	}
	for _, entity := range entities {
		r.persistable(entity).SetPersisted(true)
	}
	return entities, nil
}

func (r *baseEntityRepository[T]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, nil
	}
	p := r.persistable(entity)
	oldVersion := p.GetVersion()
	p.SetVersion(oldVersion + 1)
	res, err := r.db.NewUpdate().Model(entity).
		WherePK().
		Where("version = ?", oldVersion).
		Exec(ctx)
	if err != nil {
		p.SetVersion(oldVersion)
		return nil, r.handleConstraint(err, MergeEntityFailed)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		p.SetVersion(oldVersion)
		return nil, NewServiceError(MergeEntityFailed, err, r.entityName)
	}
	if rows == 0 {
		p.SetVersion(oldVersion)
		return nil, NewConstraintError(OptimisticLockConstraint, MergeEntityFailed, nil, r.entityName)
	}
	p.SetPersisted(true)
	return entity, nil
}

func (r *baseEntityRepository[T]) UpdateAll(ctx context.Context, entities []*T) ([]*T, error) {
	updated := make([]*T, 0, len(entities))
	for _, entity := range entities {
		u, err := r.Update(ctx, entity)
		if err != nil {
			return nil, err
		}
		updated = append(updated, u)
	}
	return updated, nil
}

func (r *baseEntityRepository[T]) Delete(ctx context.Context, entity *T) (bool, error) {
	if entity == nil {
		return false, nil
	}
	res, err := r.db.NewDelete().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return false, r.handleConstraint(err, DeleteEntityFailed)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, NewServiceError(DeleteEntityFailed, err, r.entityName)
	}
	if rows > 0 {
		r.persistable(entity).SetPersisted(false)
		return true, nil
	}
	return false, nil
}

func (r *baseEntityRepository[T]) DeleteList(ctx context.Context, entities []*T) (int, error) {
	deleted := 0
	for _, entity := range entities {
		ok, err := r.Delete(ctx, entity)
		if err != nil {
			return deleted, NewServiceError(FailedToDeleteEntity, err, r.entityName)
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

func (r *baseEntityRepository[T]) DeleteAll(ctx context.Context) (int, error) {
	entities, err := r.FindAll(ctx)
	if err != nil {
		return 0, NewServiceError(FailedToDeleteAll, err, r.entityName)
	}
	deleted, err := r.DeleteList(ctx, entities)
	if err != nil {
		return deleted, NewServiceError(FailedToDeleteAll, err, r.entityName)
	}
	return deleted, nil
}

func (r *baseEntityRepository[T]) DeleteQueryAll(ctx context.Context) (int, error) {
	entity := new(T)
	res, err := r.db.NewDelete().Model(entity).Where("1 = 1").Exec(ctx)
	if err != nil {
		return 0, NewServiceError(FailedToDeleteAllQuery, err, r.entityName)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, NewServiceError(FailedToDeleteAllQuery, err, r.entityName)
	}
	return int(rows), nil
}

func (r *baseEntityRepository[T]) DeleteByGuid(ctx context.Context, guid string) (bool, error) {
	if guid == "" {
		return false, nil
	}
	entity := new(T)
	res, err := r.db.NewDelete().Model(entity).Where("guid = ?", guid).Exec(ctx)
	if err != nil {
		return false, NewServiceError(FailedToDeleteByGuidQuery, err, guid, r.entityName)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, NewServiceError(FailedToDeleteByGuidQuery, err, guid, r.entityName)
	}
	return rows > 0, nil
}

func (r *baseEntityRepository[T]) DeleteByGuids(ctx context.Context, guids []string) (int, error) {
	if len(guids) == 0 {
		return 0, nil
	}
	entity := new(T)
	res, err := r.db.NewDelete().Model(entity).Where("guid IN (?)", bun.In(guids)).Exec(ctx)
	if err != nil {
		return 0, NewServiceError(FailedToDeleteAllByGuidsQuery, err, r.entityName)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, NewServiceError(FailedToDeleteAllByGuidsQuery, err, r.entityName)
	}
	return int(rows), nil
}

func (r *baseEntityRepository[T]) Refresh(ctx context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	if err := r.db.NewSelect().Model(entity).WherePK().Scan(ctx); err != nil {
		return NewServiceError(FindEntityByIdFailed, err)
	}
	r.persistable(entity).SetPersisted(true)
	return nil
}

func (r *baseEntityRepository[T]) Lock(ctx context.Context, entity *T) error {
	if entity == nil {
		return nil
	}
	q := r.db.NewSelect().Model(entity).WherePK()
	// sqlite has no row locks; the select still verifies existence.
	if r.db.Dialect().Name() != dialect.SQLite {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		return NewServiceError(FindEntityByIdFailed, err)
	}
	return nil
}

func intOrNil(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
