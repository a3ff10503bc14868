// Copyright (c) 2026, The netpulse authors.  All rights reserved.
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

// Package store persists measurement records in a local SQLite database.
//
// The history is append-only on the scheduled path: Append is the only
// mutation, records are keyed by second-resolution timestamps, and a
// same-second collision is rejected with DUPLICATE_TIMESTAMP so a doubled
// scheduler tick cannot corrupt history. Deletion exists solely behind the
// explicit Prune operation.
//
// A single-row report_state table tracks the newest record timestamp covered
// by a successful publication.
package store
