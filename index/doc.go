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

// Package index builds the alias index used to resolve free text to
// particle identifiers.
//
// An Index has two parts: an exact table from normalised alias to the
// identifiers it denotes, and a flat corpus of (alias, identifier) pairs
// for approximate matching. The corpus keeps duplicates so that scoring
// sees every naming variant.
//
// # Curated aliases
//
// Generic words such as "electron" or "bottom" are not upstream symbols.
// A curated table keyed by identifier supplies them. It is applied after
// the natural names and wins over them. An alias claimed by two different
// identifiers is a configuration error reported by Build.
//
// Build sorts its input by identifier first, so the same entities always
// produce the same index.
package index
