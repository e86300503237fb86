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
	"strings"
	"testing"
)

func TestQueryParamsChaining(t *testing.T) {
	p := WithParam("name", "osprey").And("status", 1).And("name", "updated")
	if p.Len() != 2 {
		t.Fatalf("len = %d, want 2", p.Len())
	}
	m := p.Map()
	if m["name"] != "updated" {
		t.Fatalf("rebinding should overwrite, got %v", m["name"])
	}
	if got := p.String(); !strings.HasPrefix(got, "{name=updated") {
		t.Fatalf("rebinding should keep position, got %s", got)
	}
}

func TestQueryParamsBind(t *testing.T) {
	p := WithParam("name", "osprey").And("status", 1)
	expr, args, err := p.Bind("name = :name AND status = :status AND name <> :name")
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if expr != "name = ? AND status = ? AND name <> ?" {
		t.Fatalf("expr = %q", expr)
	}
	if len(args) != 3 || args[0] != "osprey" || args[1] != 1 || args[2] != "osprey" {
		t.Fatalf("args = %v", args)
	}
}

func TestQueryParamsBindUnbound(t *testing.T) {
	_, _, err := WithParam("name", "x").Bind("name = :name AND status = :status")
	if err == nil || !strings.Contains(err.Error(), "status") {
		t.Fatalf("err = %v, want unbound status", err)
	}

	var nilParams *QueryParams
	if _, _, err := nilParams.Bind("name = :name"); err == nil {
		t.Fatal("nil params with placeholder should fail")
	}
	expr, args, err := nilParams.Bind("status = 1")
	if err != nil || expr != "status = 1" || len(args) != 0 {
		t.Fatalf("nil params without placeholders = (%q, %v, %v)", expr, args, err)
	}
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	if p.GetPage() != 1 || p.GetPageSize() != 10 {
		t.Fatalf("defaults = (%d, %d), want (1, 10)", p.GetPage(), p.GetPageSize())
	}
	if p.GetOffset() != 0 {
		t.Fatalf("offset = %d, want 0", p.GetOffset())
	}

	p = NewPageRequest(3, 20, NewQueryFilter("name = ?", "x"), "name DESC")
	if p.GetOffset() != 40 {
		t.Fatalf("offset = %d, want 40", p.GetOffset())
	}
	if p.GetFilter() == nil || p.GetFilter().Expr != "name = ?" {
		t.Fatalf("filter = %v", p.GetFilter())
	}
	if len(p.GetOrders()) != 1 {
		t.Fatalf("orders = %v", p.GetOrders())
	}
}
