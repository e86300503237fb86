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
	"errors"
	"testing"

	"github.com/uptrace/bun"

	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/model"
	"github.com/tomoncle/osprey/repository"
	"github.com/tomoncle/osprey/types"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	model.PersistentTraceable

	Name  string           `bun:"name,notnull" json:"name"`
	Price float64          `bun:"price" json:"price"`
	Attrs types.JsonObject `bun:"attrs,type:text" json:"attrs"`
}

func (p *Product) EntityName() string { return "Product" }

func initTestDatabase(t *testing.T) {
	t.Helper()
	database.RegisteredModel(database.NewModelAdapter((*Product)(nil), 1))
	cfg := &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:   "sqlite",
			DBName: ":memory:",
		},
		DataMigrateConfig: database.DataMigrateConfig{EnableMigrateOnStartup: true},
	}
	if _, err := database.InitDatabaseWithOptions(cfg, true); err != nil {
		t.Fatalf("init database: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })
}

func TestServiceLifecycle(t *testing.T) {
	initTestDatabase(t)
	ctx := model.WithPrincipal(context.Background(), "svc-test")
	svc := NewService[Product]()

	saved, err := svc.Save(ctx, &Product{
		Name:  "widget",
		Price: 9.5,
		Attrs: types.JsonObject{"color": "green"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.GetGuid() == "" || !saved.IsPersisted() {
		t.Fatal("saved product should have a guid and be persisted")
	}
	if saved.CreationUser != "svc-test" {
		t.Fatalf("creation user = %q, want svc-test", saved.CreationUser)
	}

	got, err := svc.Get(ctx, saved.GetGuid())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "widget" {
		t.Fatalf("get returned %v, want widget", got)
	}
	if got.Attrs["color"] != "green" {
		t.Fatalf("attrs = %v, want color=green", got.Attrs)
	}

	got.Price = 12.0
	if _, err := svc.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.GetVersion() != 1 {
		t.Fatalf("version after update = %d, want 1", got.GetVersion())
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all returned %d products, want 1", len(all))
	}

	rollback := errors.New("rollback")
	err = svc.RunInTx(ctx, func(ctx context.Context, repo repository.EntityRepository[Product]) error {
		if _, err := repo.Create(ctx, &Product{Name: "discarded"}); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("tx error = %v, want rollback", err)
	}
	if all, err = svc.All(ctx); err != nil || len(all) != 1 {
		t.Fatalf("after rollback: %d products (%v), want 1", len(all), err)
	}

	err = svc.RunInTx(ctx, func(ctx context.Context, repo repository.EntityRepository[Product]) error {
		_, err := repo.Create(ctx, &Product{Name: "gadget", Price: 3.2})
		return err
	})
	if err != nil {
		t.Fatalf("committed tx: %v", err)
	}

	window, err := svc.Window(ctx, nil, nil)
	if err != nil || len(window) != 2 {
		t.Fatalf("window = %d products (%v), want 2", len(window), err)
	}

	ok, err := svc.DeleteByGuid(ctx, saved.GetGuid())
	if err != nil || !ok {
		t.Fatalf("deleteByGuid = (%v, %v), want (true, nil)", ok, err)
	}
}
