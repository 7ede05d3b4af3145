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

package scope

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/uptrace/bun"

	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/types"
)

const noParent = -1

type node struct {
	parent int
	table  Table
	opts   Options
}

// Arena owns every scope derived from its roots. Scopes are indexes into
// the arena and refer to their parent by index. Nodes are never removed, so
// an arena lives as long as one unit of work: long-lived callers take a new
// arena per request.
type Arena struct {
	db     bun.IDB
	logger database.Logger

	mu    sync.RWMutex
	nodes []node
}

type ArenaOption func(*Arena)

// WithLogger sets the logger used for query debug output.
func WithLogger(logger database.Logger) ArenaOption {
	return func(a *Arena) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArena returns an empty arena querying through db.
func NewArena(db bun.IDB, opts ...ArenaOption) *Arena {
	a := &Arena{db: db, logger: database.GetLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DB returns the connection the arena queries through.
func (a *Arena) DB() bun.IDB { return a.db }

// Len reports how many scopes the arena holds.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.nodes)
}

// Root adds a root scope over t.
func (a *Arena) Root(t Table) *Scope {
	return a.add(node{parent: noParent, table: t})
}

// Model adds a root scope over the table of a bun model.
func (a *Arena) Model(model interface{}) (*Scope, error) {
	mt, err := database.ResolveModelTable(a.db, model)
	if err != nil {
		return nil, err
	}
	return a.Root(NewTable(mt.Name, a.db.Dialect().Name(), mt.Columns)), nil
}

// Table adds a root scope over a table whose columns are read from the
// live database.
func (a *Arena) Table(ctx context.Context, name string) (*Scope, error) {
	cols, err := database.ListColumns(ctx, a.db, name)
	if err != nil {
		return nil, err
	}
	return a.Root(NewTable(name, a.db.Dialect().Name(), cols)), nil
}

func (a *Arena) add(n node) *Scope {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nodes = append(a.nodes, n)
	return &Scope{arena: a, id: len(a.nodes) - 1}
}

func (a *Arena) node(id int) (node, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if id < 0 || id >= len(a.nodes) {
		return node{}, false
	}
	return a.nodes[id], true
}

// chain returns the options of id and its ancestors, innermost first, and
// the table at the root.
func (a *Arena) chain(id int) ([]Options, Table, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var chain []Options
	for depth := 0; depth <= MaxDepth; depth++ {
		if id < 0 || id >= len(a.nodes) {
			return nil, nil, fmt.Errorf("%w: dangling scope %d", types.ErrUnresolvableBaseTable, id)
		}
		n := a.nodes[id]
		chain = append(chain, n.opts.Clone())
		if n.table != nil {
			return chain, n.table, nil
		}
		id = n.parent
	}
	return nil, nil, fmt.Errorf("%w: chain deeper than %d", types.ErrUnresolvableBaseTable, MaxDepth)
}

// Scope is a node of an Arena.
type Scope struct {
	arena *Arena
	id    int
}

var _ Queryable = (*Scope)(nil)

// Arena returns the arena that owns s.
func (s *Scope) Arena() *Arena { return s.arena }

func (s *Scope) Parent() Queryable {
	n, ok := s.arena.node(s.id)
	if !ok || n.parent == noParent {
		return nil
	}
	return &Scope{arena: s.arena, id: n.parent}
}

func (s *Scope) Table() Table {
	n, _ := s.arena.node(s.id)
	return n.table
}

func (s *Scope) Options() Options {
	n, _ := s.arena.node(s.id)
	return n.opts.Clone()
}

func (s *Scope) SetSelect(clause string) {
	s.arena.mu.Lock()
	defer s.arena.mu.Unlock()
	if s.id >= 0 && s.id < len(s.arena.nodes) {
		s.arena.nodes[s.id].opts.Select = clause
	}
}

func (s *Scope) Derive(opts Options) Queryable {
	return s.derive(opts)
}

func (s *Scope) derive(opts Options) *Scope {
	return s.arena.add(node{parent: s.id, opts: opts.Clone()})
}

// Where derives a scope filtered by query.
func (s *Scope) Where(query string, args ...interface{}) *Scope {
	return s.derive(Options{Where: []*types.QueryFilter{types.NewQueryFilter(query, args...)}})
}

// Order derives a scope ordered by orders.
func (s *Scope) Order(orders ...string) *Scope {
	return s.derive(Options{Order: orders})
}

// Limit derives a scope returning at most n rows.
func (s *Scope) Limit(n int) *Scope {
	return s.derive(Options{Limit: n})
}

// Query builds the select query for s merged with opts.
func (s *Scope) Query(opts Options) (*bun.SelectQuery, error) {
	chain, t, err := s.arena.chain(s.id)
	if err != nil {
		return nil, err
	}
	return s.arena.build(t, merge(chain, opts)), nil
}

func (s *Scope) Find(ctx context.Context, opts Options) ([]Record, error) {
	q, err := s.Query(opts)
	if err != nil {
		return nil, err
	}
	return s.arena.fetch(ctx, q)
}

func (s *Scope) First(ctx context.Context, opts Options) (Record, bool, error) {
	opts = opts.Clone()
	opts.Limit = 1
	return s.one(ctx, opts, false)
}

func (s *Scope) Last(ctx context.Context, opts Options) (Record, bool, error) {
	opts = opts.Clone()
	opts.Limit = 1
	return s.one(ctx, opts, true)
}

func (s *Scope) one(ctx context.Context, opts Options, last bool) (Record, bool, error) {
	chain, t, err := s.arena.chain(s.id)
	if err != nil {
		return nil, false, err
	}
	m := merge(chain, opts)
	if last {
		m.Order = reverseOrder(t, m.Select, m.Order)
	}
	records, err := s.arena.fetch(ctx, s.arena.build(t, m))
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

func (s *Scope) Scan(ctx context.Context, dest interface{}, opts Options) error {
	q, err := s.Query(opts)
	if err != nil {
		return err
	}
	s.arena.logger.Debug("Scope scan", "sql", q.String())
	return q.Scan(ctx, dest)
}

func (a *Arena) build(t Table, m Options) *bun.SelectQuery {
	sel := m.Select
	if sel == "" {
		sel = t.QuotedName() + ".*"
	}
	q := a.db.NewSelect().TableExpr(t.QuotedName()).ColumnExpr(sel)
	for _, f := range m.Where {
		if f != nil && f.Schema != "" {
			q = q.Where(f.Schema, f.Args...)
		}
	}
	for _, o := range m.Order {
		q = q.OrderExpr(o)
	}
	if m.Limit > 0 {
		q = q.Limit(m.Limit)
	}
	if m.Offset > 0 {
		q = q.Offset(m.Offset)
	}
	return q
}

func (a *Arena) fetch(ctx context.Context, q *bun.SelectQuery) ([]Record, error) {
	a.logger.Debug("Scope query", "sql", q.String())
	var rows []map[string]interface{}
	if err := q.Scan(ctx, &rows); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}
	return records, nil
}

// merge folds the chain (innermost first) and the call options into one.
func merge(chain []Options, call Options) Options {
	var m Options
	for i := len(chain) - 1; i >= 0; i-- {
		m.Where = append(m.Where, chain[i].Where...)
	}
	m.Where = append(m.Where, call.Where...)

	m.Order = appendOrders(m.Order, call.Order...)
	for _, o := range chain {
		m.Order = appendOrders(m.Order, o.Order...)
	}

	m.Limit, m.Offset, m.Select = call.Limit, call.Offset, call.Select
	for _, o := range chain {
		if m.Limit == 0 {
			m.Limit = o.Limit
		}
		if m.Offset == 0 {
			m.Offset = o.Offset
		}
		if m.Select == "" {
			m.Select = o.Select
		}
	}
	return m
}

func appendOrders(dst []string, orders ...string) []string {
	for _, o := range orders {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		dup := false
		for _, d := range dst {
			if strings.EqualFold(d, o) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, o)
		}
	}
	return dst
}

// reverseOrder flips every order term. Without orders it sorts by the
// primary keys descending, or by the first column when there is none. A
// DISTINCT select is ordered by its own expressions instead, since ORDER BY
// may only name selected expressions there.
func reverseOrder(t Table, sel string, orders []string) []string {
	var reversed []string
	if len(orders) > 0 {
		for _, o := range orders {
			for _, term := range splitTopLevel(o) {
				reversed = append(reversed, reverseTerm(term))
			}
		}
		return reversed
	}

	if rest, ok := cutDistinct(sel); ok {
		for _, expr := range splitTopLevel(rest) {
			reversed = append(reversed, expr+" DESC")
		}
		return reversed
	}

	keys := t.PrimaryKeys()
	if len(keys) == 0 {
		if cols := t.ColumnNames(); len(cols) > 0 {
			keys = cols[:1]
		}
	}
	for _, k := range keys {
		reversed = append(reversed, t.QuotedName()+"."+t.QuoteColumn(k)+" DESC")
	}
	return reversed
}

func cutDistinct(sel string) (string, bool) {
	sel = strings.TrimSpace(sel)
	if rest, word := firstWord(sel); strings.EqualFold(word, "DISTINCT") && rest != "" {
		return rest, true
	}
	return "", false
}

// splitTopLevel splits s on commas outside parentheses and quotes.
func splitTopLevel(s string) []string {
	var parts []string
	add := func(p string) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	var quote rune
	depth, start := 0, 0
	for i, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			add(s[start:i])
			start = i + 1
		}
	}
	add(s[start:])
	return parts
}

// reverseTerm swaps ASC and DESC (a bare term becomes DESC) and swaps
// NULLS FIRST and NULLS LAST, keeping the expression untouched.
func reverseTerm(term string) string {
	expr, nulls := strings.TrimSpace(term), ""
	if rest, w := lastWord(expr); strings.EqualFold(w, "FIRST") || strings.EqualFold(w, "LAST") {
		if head, n := lastWord(rest); strings.EqualFold(n, "NULLS") && head != "" {
			expr = head
			if strings.EqualFold(w, "FIRST") {
				nulls = " NULLS LAST"
			} else {
				nulls = " NULLS FIRST"
			}
		}
	}

	dir := " DESC"
	if rest, w := lastWord(expr); rest != "" {
		switch strings.ToUpper(w) {
		case "ASC":
			expr = rest
		case "DESC":
			expr, dir = rest, " ASC"
		}
	}
	return expr + dir + nulls
}

func lastWord(s string) (rest, word string) {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	return strings.TrimRightFunc(s[:i+1], unicode.IsSpace), s[i+1:]
}

func firstWord(s string) (rest, word string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return "", s
	}
	return strings.TrimLeftFunc(s[i:], unicode.IsSpace), s[:i]
}
