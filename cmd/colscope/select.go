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

package main

import (
	"github.com/spf13/cobra"

	"github.com/boof/column-scope/projection"
	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/types"
)

type selectFlags struct {
	table    string
	first    bool
	last     bool
	where    string
	args     []string
	orders   []string
	page     int
	pageSize int
}

func (f *selectFlags) options() scope.Options {
	var filter *types.QueryFilter
	if f.where != "" {
		args := make([]interface{}, len(f.args))
		for i, a := range f.args {
			args[i] = a
		}
		filter = types.NewQueryFilter(f.where, args...)
	}
	if f.page > 0 {
		return scope.OptionsFromPage(types.NewPageRequest(f.page, f.pageSize, filter, f.orders))
	}
	opts := scope.Options{Order: f.orders}
	if filter != nil {
		opts.Where = []*types.QueryFilter{filter}
	}
	return opts
}

func newSelectCmd(a *app) *cobra.Command {
	f := &selectFlags{}
	cmd := &cobra.Command{
		Use:   "select [spec]",
		Short: "Print the values of the columns named by a shorthand spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.tableScope(cmd.Context(), f.table)
			if err != nil {
				return err
			}
			opts := f.options()
			ctx := cmd.Context()

			switch {
			case f.first, f.last:
				var (
					v  projection.Value
					ok bool
				)
				if f.first {
					v, ok, err = sc.SelectFirst(ctx, args[0], opts)
				} else {
					v, ok, err = sc.SelectLast(ctx, args[0], opts)
				}
				if err != nil || !ok {
					return err
				}
				return printValues(cmd.OutOrStdout(), v)
			default:
				values, err := sc.SelectAll(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printValues(cmd.OutOrStdout(), values...)
			}
		},
	}
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table to read")
	cmd.Flags().BoolVar(&f.first, "first", false, "Print only the first matching record")
	cmd.Flags().BoolVar(&f.last, "last", false, "Print only the last matching record")
	cmd.Flags().StringVarP(&f.where, "where", "w", "", "Filter expression with ? placeholders")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Placeholder value for --where (repeatable)")
	cmd.Flags().StringArrayVarP(&f.orders, "order", "o", nil, "Order expression (repeatable)")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 10, "Records per page")
	cmd.MarkFlagsMutuallyExclusive("first", "last")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
