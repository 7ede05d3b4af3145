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

import "errors"

// Errors reported by the projection layer. Callers match them with errors.Is;
// the returned errors wrap them with the offending input.
var (
	// ErrInvalidSpecification reports a malformed or empty column specification.
	ErrInvalidSpecification = errors.New("invalid column specification")

	// ErrEmptyProjection reports an exclusion that leaves no column to select.
	ErrEmptyProjection = errors.New("empty projection")

	// ErrUnresolvableBaseTable reports a scope chain whose root table could not
	// be reached (dangling parent or a chain deeper than the walk bound).
	ErrUnresolvableBaseTable = errors.New("unresolvable base table")

	// ErrNotSupported reports arbitrary querying through a value extractor.
	ErrNotSupported = errors.New("operation not supported")
)
