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
	"os"

	"github.com/fatih/color"

	"github.com/boof/column-scope/database"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		report(err)
		os.Exit(1)
	}
}

func report(err error) {
	red := color.New(color.FgRed, color.Bold)
	if ok, kind := database.IsSqlError(err); ok {
		red.Fprintf(os.Stderr, "SQL error (%s): ", kind)
	} else {
		red.Fprint(os.Stderr, "Error: ")
	}
	fmt.Fprintln(os.Stderr, err)
}
