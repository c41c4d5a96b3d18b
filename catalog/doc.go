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

// Package catalog loads the particle catalog.
//
// The upstream source is a PDG particle table in CSV form, one row per
// particle and antiparticle. A copy of the table is embedded in the binary
// (LoadDefault); LoadFile reads a newer table from disk.
//
// # Partial tolerance
//
// Upstream tables are large and occasionally carry stale or incomplete
// rows. A row that cannot be converted does not abort the load: it becomes
// a RowResult carrying a *core.ConversionError and is counted in the
// Report. Only a source that cannot be read at all, lacks the required
// header, or yields no entity at all fails with *core.LoadError.
//
// # Derived attributes
//
// Charge is three-charge/3, spin comes from the identifier, lifetime and
// c*tau are derived from the decay width. Values that would be NaN or
// infinite (the lifetime of a stable particle) are absent.
//
// # Thread Safety
//
// A Catalog never changes after Load returns and may be shared freely.
package catalog
