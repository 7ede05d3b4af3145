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

// Package columnscope narrows bun queries to a subset of columns and reads
// back plain values instead of models.
//
//	svc, _ := columnscope.NewService[Item](db)
//	names, _ := svc.SelectAll(ctx, "name", scope.Options{Order: []string{"id"}})
//	first, ok, _ := svc.SelectFirst(ctx, "distinct_name__value", scope.Options{})
//
// Shorthand specs are parsed by the shorthand package: "__" joins column
// names, a leading "distinct_" marks the select DISTINCT and "timestamps"
// stands for created_at and updated_at.
package columnscope
