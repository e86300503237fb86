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
	"fmt"
	"strings"

	"github.com/tomoncle/osprey/types"
)

// ErrorKey is the closed enumeration of symbolic operation keys carried by
// repository failures. Higher layers map a key and its parameters to a
// localized message; the repository itself never localizes.
type ErrorKey int

const (
	UnknownError ErrorKey = iota
	FindAllEntitiesFailed
	FindEntityByIdFailed
	FailedToGetEntityByGuids
	FailedToGetAllEntities
	FailedToQueryEntities
	PersistEntityFailed
	MergeEntityFailed
	DeleteEntityFailed
	DeleteEntitiesFailed
	FailedToDeleteEntity
	FailedToDeleteAll
	FailedToDeleteAllQuery
	FailedToDeleteByGuidQuery
	FailedToDeleteAllByGuidsQuery
	FailedToLoadAllEntities
	FailedToLoadGuidsEntities
	FailedToLoadEntityByGuid
)

var errorKeyNames = map[ErrorKey]string{
	FindAllEntitiesFailed:         "FIND_ALL_ENTITIES_FAILED",
	FindEntityByIdFailed:          "FIND_ENTITY_BY_ID_FAILED",
	FailedToGetEntityByGuids:      "FAILED_TO_GET_ENTITY_BY_GUIDS",
	FailedToGetAllEntities:        "FAILED_TO_GET_ALL_ENTITIES",
	FailedToQueryEntities:         "FAILED_TO_QUERY_ENTITIES",
	PersistEntityFailed:           "PERSIST_ENTITY_FAILED",
	MergeEntityFailed:             "MERGE_ENTITY_FAILED",
	DeleteEntityFailed:            "DELETE_ENTITY_FAILED",
	DeleteEntitiesFailed:          "DELETE_ENTITIES_FAILED",
	FailedToDeleteEntity:          "FAILED_TO_DELETE_ENTITY",
	FailedToDeleteAll:             "FAILED_TO_DELETE_ALL",
	FailedToDeleteAllQuery:        "FAILED_TO_DELETE_ALL_QUERY",
	FailedToDeleteByGuidQuery:     "FAILED_TO_DELETE_BY_GUID_QUERY",
	FailedToDeleteAllByGuidsQuery: "FAILED_TO_DELETE_ALL_BY_GUIDS_QUERY",
	FailedToLoadAllEntities:       "FAILED_TO_LOAD_ALL_ENTITIES",
	FailedToLoadGuidsEntities:     "FAILED_TO_LOAD_GUIDS_ENTITIES",
	FailedToLoadEntityByGuid:      "FAILED_TO_LOAD_ENTITY_BY_GUID",
}

var _ types.BaseEnum = UnknownError

func (k ErrorKey) IsValid() bool {
	_, ok := errorKeyNames[k]
	return ok
}

func (k ErrorKey) Number() int { return int(k) }

func (k ErrorKey) Name() string {
	if name, ok := errorKeyNames[k]; ok {
		return name
	}
	return types.IllegalName
}

func (k ErrorKey) String() string { return k.Name() }

func (k ErrorKey) Desc() string {
	if name, ok := errorKeyNames[k]; ok {
		return strings.ToLower(strings.ReplaceAll(name, "_", " "))
	}
	return types.IllegalDesc
}

// OptimisticLockConstraint is the constraint name reported when an update
// is rejected because the entity's version is stale.
const OptimisticLockConstraint = "optimistic_lock"

// ServiceError is the typed failure raised by every repository operation.
// It carries a symbolic key, positional and named parameters for message
// resolution, and the wrapped storage-layer cause. Parameters may be
// appended after construction; nothing else is mutated once the error has
// been handed to a caller.
type ServiceError struct {
	Key             ErrorKey
	Parameters      []interface{}
	NamedParameters map[string]interface{}
	Cause           error

	// StackTraceLog hints whether the consumer should log the full cause
	// chain for this failure.
	StackTraceLog bool
}

// NewServiceError constructs a ServiceError with the given key, cause, and
// positional parameters.
func NewServiceError(key ErrorKey, cause error, parameters ...interface{}) *ServiceError {
	return &ServiceError{
		Key:             key,
		Parameters:      parameters,
		NamedParameters: make(map[string]interface{}),
		Cause:           cause,
	}
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Key.Name())
	if len(e.Parameters) > 0 {
		b.WriteString(fmt.Sprintf(" %v", e.Parameters))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// AddParameter appends a positional parameter.
func (e *ServiceError) AddParameter(parameter interface{}) {
	e.Parameters = append(e.Parameters, parameter)
}

// AddParameters appends all given positional parameters.
func (e *ServiceError) AddParameters(parameters []interface{}) {
	e.Parameters = append(e.Parameters, parameters...)
}

// AddNamedParameter binds a named parameter.
func (e *ServiceError) AddNamedParameter(name string, parameter interface{}) {
	if name == "" {
		return
	}
	e.NamedParameters[name] = parameter
}

// AddNamedParameters binds all given named parameters.
func (e *ServiceError) AddNamedParameters(parameters map[string]interface{}) {
	for name, parameter := range parameters {
		e.NamedParameters[name] = parameter
	}
}

// ConstraintError is a ServiceError specialization raised when the storage
// engine rejects a write due to a constraint violation. Constraint holds
// the violated constraint's name so downstream consumers can pattern-match
// on it.
type ConstraintError struct {
	ServiceError
	Constraint string
}

// NewConstraintError constructs a ConstraintError with the violated
// constraint name, key, cause, and positional parameters.
func NewConstraintError(constraint string, key ErrorKey, cause error, parameters ...interface{}) *ConstraintError {
	return &ConstraintError{
		ServiceError: ServiceError{
			Key:             key,
			Parameters:      parameters,
			NamedParameters: make(map[string]interface{}),
			Cause:           cause,
		},
		Constraint: constraint,
	}
}

func (e *ConstraintError) Error() string {
	return e.ServiceError.Error() + " (constraint: " + e.Constraint + ")"
}
