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

// Package snapshot writes the catalog and its alias index out as static
// artifacts.
//
// A Generator run produces:
//
//	<pdgid>.json        one full detail record per entity
//	name-mapping.json   alias -> identifiers
//	popular.json        {"particles": [...]} for the curated popular list
//	manifest.json       artifact name -> BLAKE2b-256 digest
//
// Artifacts go to a Sink: DirSink writes files, and the Badger artifact
// store in storage/badger is a drop-in alternative.
//
// # Partial tolerance
//
// A detail record that cannot be encoded or written is reported as an
// ItemResult and counted in the Report; the run carries on. The run fails
// only when one of the shared artifacts cannot be written.
//
// # Idempotence
//
// Output contains no timestamps and every map is encoded with sorted keys,
// so two runs over the same catalog produce byte-identical artifacts.
package snapshot
