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

import "sync"

// LoadGraphSuffix is appended to an entity name to form the conventional
// load-graph name looked up by the Load* operations.
const LoadGraphSuffix = ".load"

var (
	loadGraphMu sync.RWMutex
	loadGraphs  = make(map[string][]string)
)

// RegisterLoadGraph binds a named load graph to a set of relation names.
// The Load* operations of a repository for entity E resolve the graph
// named "E.load" and fetch the listed relations alongside the entity.
// Registering the same name again replaces the previous relations.
func RegisterLoadGraph(name string, relations ...string) {
	if name == "" {
		return
	}
	loadGraphMu.Lock()
	defer loadGraphMu.Unlock()
	loadGraphs[name] = append([]string(nil), relations...)
}

// LookupLoadGraph returns the relations registered under name.
func LookupLoadGraph(name string) ([]string, bool) {
	loadGraphMu.RLock()
	defer loadGraphMu.RUnlock()
	relations, ok := loadGraphs[name]
	return relations, ok
}
