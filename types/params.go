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

package types

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryParams is a fluent, insertion-ordered builder for named bind
// variables used to parameterize ad-hoc query fragments:
//
//	types.WithParam("name", "osprey").And("status", 1)
type QueryParams struct {
	names  []string
	values map[string]interface{}
}

// WithParam starts a new parameter set with a single named value.
func WithParam(name string, value interface{}) *QueryParams {
	return NewQueryParams().And(name, value)
}

// NewQueryParams returns an empty parameter set.
func NewQueryParams() *QueryParams {
	return &QueryParams{values: make(map[string]interface{})}
}

// And adds a named value and returns the receiver for chaining. Binding
// the same name twice overwrites the value but keeps its original position.
func (p *QueryParams) And(name string, value interface{}) *QueryParams {
	if name == "" {
		return p
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
	return p
}

// Map returns the parameters as a plain map.
func (p *QueryParams) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		m[k] = v
	}
	return m
}

// Len returns the number of bound parameters.
func (p *QueryParams) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

func (p *QueryParams) String() string {
	if p == nil {
		return "{}"
	}
	parts := make([]string, 0, len(p.names))
	for _, n := range p.names {
		parts = append(parts, fmt.Sprintf("%s=%v", n, p.values[n]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

var bindVarPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// Bind expands every ":name" placeholder in the fragment into a positional
// "?" placeholder and returns the argument values in order of appearance.
// A placeholder without a bound value is an error.
func (p *QueryParams) Bind(fragment string) (string, []interface{}, error) {
	var args []interface{}
	var missing string
	expr := bindVarPattern.ReplaceAllStringFunc(fragment, func(m string) string {
		name := m[1:]
		if p == nil {
			missing = name
			return m
		}
		v, ok := p.values[name]
		if !ok {
			missing = name
			return m
		}
		args = append(args, v)
		return "?"
	})
	if missing != "" {
		return "", nil, fmt.Errorf("unbound query parameter: %s", missing)
	}
	return expr, args, nil
}
