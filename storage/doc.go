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

// Package storage provides the storage abstraction layer for particula.
//
// The catalog itself lives in memory; storage holds what a snapshot run
// produces so it can be served or inspected without reloading the
// upstream table:
//
//   - EntityRepository: binary (mus) encoded entities keyed by identifier
//   - ArtifactStore: named snapshot artifacts (detail records, alias
//     index, popular list, manifest)
//
// # Constructor Return Type Pattern
//
// Backend constructors return concrete types so callers can reach
// backend-specific helpers; consumers depend on the interfaces here.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	entities := badger.NewEntityRepository(backend)
//
// Use in tests with in-memory storage:
//
//	entities, artifacts, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
