// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"reflect"
	"testing"
)

func TestBuilderNumbersPlaceholders(t *testing.T) {
	b := NewBuilder("SELECT 1 WHERE a = ")
	b.Bind(int32(1)).Push(" AND b = ").Bind("two").Push(" AND c = ").Bind(int64(3))

	wantSQL := "SELECT 1 WHERE a = $1 AND b = $2 AND c = $3"
	if b.SQL() != wantSQL {
		t.Errorf("SQL = %q, want %q", b.SQL(), wantSQL)
	}

	wantArgs := []interface{}{int32(1), "two", int64(3)}
	if !reflect.DeepEqual(b.Args(), wantArgs) {
		t.Errorf("Args = %v, want %v", b.Args(), wantArgs)
	}
}

func TestBuilderBindsWholeSlices(t *testing.T) {
	b := NewBuilder("SELECT 1 WHERE col && ")
	b.Bind([]int32{11, 21, 31})

	if b.SQL() != "SELECT 1 WHERE col && $1" {
		t.Errorf("SQL = %q", b.SQL())
	}
	if len(b.Args()) != 1 {
		t.Fatalf("slice must bind as a single parameter, got %d args", len(b.Args()))
	}
}

func TestBuilderEmpty(t *testing.T) {
	b := NewBuilder("")
	if b.SQL() != "" || len(b.Args()) != 0 {
		t.Errorf("fresh builder not empty: %q %v", b.SQL(), b.Args())
	}
}
