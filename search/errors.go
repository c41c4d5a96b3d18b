// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrIndexRequired is returned when an alias index is not provided.
	ErrIndexRequired = errors.New("alias index required")

	// ErrInvalidMinScore is returned for a threshold outside 0..100.
	ErrInvalidMinScore = errors.New("minimum score must be between 0 and 100")

	// ErrInvalidCacheSize is returned for a negative cache size.
	ErrInvalidCacheSize = errors.New("cache size must not be negative")
)
