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

// Package search resolves free text and numeric keys to catalog entities.
//
// The Resolver runs an ordered pipeline and stops as soon as a stage
// settles the answer:
//   - an empty query returns nothing
//   - a query that parses as a known identifier returns exactly that entity
//   - exact alias matches are taken whole
//   - aliases containing the query fill up to the limit
//   - approximate matches over the alias corpus fill up to the limit
//   - the catalog's own name search fills whatever room is left
//
// Identifiers never repeat in a result. Total counts everything the
// stages accumulated, which can exceed the number of results returned
// when exact matches alone overflow the limit.
//
// # Performance
//
// The approximate stage scores every corpus entry and dominates the cost
// of a query. The corpus is small and static, so this is acceptable; an
// optional LRU cache (WithCache) absorbs repeated queries.
//
// A Resolver holds no mutable state apart from the cache, which is
// itself safe for concurrent use.
package search
