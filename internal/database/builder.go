// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"strconv"
	"strings"
)

// Builder accumulates a SQL string with PostgreSQL positional parameters.
// Every user-supplied value goes through Bind; raw SQL fragments go through
// Push and must never contain request data. Integer slices bind as a single
// int4[] parameter, which keeps array-overlap predicates down to one
// placeholder regardless of how many values the filter carries.
type Builder struct {
	sql  strings.Builder
	args []interface{}
}

// NewBuilder starts a builder with an initial SQL fragment.
func NewBuilder(initial string) *Builder {
	b := &Builder{}
	b.sql.WriteString(initial)
	return b
}

// Push appends a raw SQL fragment.
func (b *Builder) Push(fragment string) *Builder {
	b.sql.WriteString(fragment)
	return b
}

// Bind appends the next positional placeholder and records its value.
func (b *Builder) Bind(value interface{}) *Builder {
	b.args = append(b.args, value)
	b.sql.WriteString("$")
	b.sql.WriteString(strconv.Itoa(len(b.args)))
	return b
}

// SQL returns the accumulated query text.
func (b *Builder) SQL() string {
	return b.sql.String()
}

// Args returns the bound values in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}
