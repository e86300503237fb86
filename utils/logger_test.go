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

package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		" warn ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerRegistry(t *testing.T) {
	a := NewLogger("REGISTRY_TEST")
	b := NewLogger("REGISTRY_TEST")
	if a != b {
		t.Fatal("same name should return the same logger")
	}

	if !SetLoggerLevel("REGISTRY_TEST", "debug") {
		t.Fatal("registered logger should be found")
	}
	if a.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", a.GetLevel())
	}
	if SetLoggerLevel("NOT_REGISTERED", "debug") {
		t.Fatal("unknown logger should not be found")
	}

	SetAllLoggersLevel(logrus.WarnLevel)
	if a.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %v, want warn", a.GetLevel())
	}
}

func TestNameColorFormatter(t *testing.T) {
	f := &NameColorFormatter{Name: "TEST", DisableColors: true}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{"key": "value"},
	}
	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	line := string(out)
	if !strings.Contains(line, "INFO [TEST] hello") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "key=value") {
		t.Fatalf("line = %q, want the field", line)
	}
	if !strings.HasPrefix(line, "2025-06-01 12:00:00.000") {
		t.Fatalf("line = %q, want the timestamp prefix", line)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STR", "custom")
	if got := EnvDefaultString("UTILS_TEST_STR", "def"); got != "custom" {
		t.Fatalf("got %q", got)
	}
	if got := EnvDefaultString("UTILS_TEST_UNSET", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}

	t.Setenv("UTILS_TEST_BOOL", "true")
	if !EnvDefaultBool("UTILS_TEST_BOOL", false) {
		t.Fatal("want true")
	}
	t.Setenv("UTILS_TEST_BOOL", "junk")
	if EnvDefaultBool("UTILS_TEST_BOOL", false) {
		t.Fatal("junk should fall back to default")
	}
}
