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
	"errors"
	"strings"
	"testing"

	"github.com/tomoncle/osprey/types"
)

func TestErrorKeyEnum(t *testing.T) {
	if !MergeEntityFailed.IsValid() {
		t.Fatal("MergeEntityFailed should be valid")
	}
	if MergeEntityFailed.Name() != "MERGE_ENTITY_FAILED" {
		t.Fatalf("name = %q", MergeEntityFailed.Name())
	}
	if MergeEntityFailed.Desc() != "merge entity failed" {
		t.Fatalf("desc = %q", MergeEntityFailed.Desc())
	}
	if UnknownError.IsValid() {
		t.Fatal("UnknownError should not be a valid key")
	}
	if UnknownError.Name() != types.IllegalName {
		t.Fatalf("invalid key name = %q", UnknownError.Name())
	}

	keys := []ErrorKey{
		FindAllEntitiesFailed, FindEntityByIdFailed, FailedToGetEntityByGuids,
		FailedToGetAllEntities, FailedToQueryEntities, PersistEntityFailed,
		MergeEntityFailed, DeleteEntityFailed, DeleteEntitiesFailed,
		FailedToDeleteEntity, FailedToDeleteAll, FailedToDeleteAllQuery,
		FailedToDeleteByGuidQuery, FailedToDeleteAllByGuidsQuery,
		FailedToLoadAllEntities, FailedToLoadGuidsEntities, FailedToLoadEntityByGuid,
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		if !k.IsValid() {
			t.Fatalf("%d should be valid", k.Number())
		}
		if seen[k.Name()] {
			t.Fatalf("duplicate key name %s", k.Name())
		}
		seen[k.Name()] = true
	}
}

func TestServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewServiceError(PersistEntityFailed, cause, "Product")
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "PERSIST_ENTITY_FAILED") {
		t.Fatalf("error = %q, want the key name", err.Error())
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("error = %q, want the cause", err.Error())
	}

	err.AddParameter("extra")
	err.AddParameters([]interface{}{1, 2})
	if len(err.Parameters) != 4 {
		t.Fatalf("parameters = %v, want 4 entries", err.Parameters)
	}

	err.AddNamedParameter("guid", "abc")
	err.AddNamedParameter("", "dropped")
	err.AddNamedParameters(map[string]interface{}{"table": "products"})
	if len(err.NamedParameters) != 2 {
		t.Fatalf("named parameters = %v, want 2 entries", err.NamedParameters)
	}
	if err.NamedParameters["guid"] != "abc" {
		t.Fatalf("guid parameter = %v", err.NamedParameters["guid"])
	}
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewConstraintError("UQ_EMAIL", PersistEntityFailed, cause, "Product")

	var ce *ConstraintError
	if !errors.As(error(err), &ce) || ce.Constraint != "UQ_EMAIL" {
		t.Fatalf("constraint = %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "UQ_EMAIL") {
		t.Fatalf("error = %q, want the constraint name", err.Error())
	}

	// no cause is legal, optimistic lock failures have none
	bare := NewConstraintError(OptimisticLockConstraint, MergeEntityFailed, nil)
	if bare.Unwrap() != nil {
		t.Fatal("bare constraint error should have no cause")
	}
	if !strings.Contains(bare.Error(), OptimisticLockConstraint) {
		t.Fatalf("error = %q, want the constraint name", bare.Error())
	}
}
