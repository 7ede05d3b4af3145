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
	"fmt"

	"github.com/spf13/cobra"
)

func newClauseCmd(a *app) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "clause [spec]",
		Short: "Print the select clause generated for a shorthand spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.tableScope(cmd.Context(), table)
			if err != nil {
				return err
			}
			p, err := sc.Project(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.SelectClause())
			return err
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table to read")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
