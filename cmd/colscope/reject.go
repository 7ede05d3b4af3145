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

	"github.com/boof/column-scope/scope"
)

func newRejectCmd(a *app) *cobra.Command {
	var (
		table  string
		orders []string
	)
	cmd := &cobra.Command{
		Use:   "reject [column...]",
		Short: "Print the values of every column except the given ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.tableScope(cmd.Context(), table)
			if err != nil {
				return err
			}
			p, err := sc.Reject(args...)
			if err != nil {
				return err
			}
			values, err := p.Values().All(cmd.Context(), scope.Options{Order: orders})
			if err != nil {
				return err
			}
			return printValues(cmd.OutOrStdout(), values...)
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table to read")
	cmd.Flags().StringArrayVarP(&orders, "order", "o", nil, "Order expression (repeatable)")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
