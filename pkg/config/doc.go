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

// Package config manages the netpulse configuration file and its bootstrap
// state machine.
//
// A configuration progresses through four states, derived purely from file
// contents: NoConfig (missing file or empty credentials), KeysPresent
// (application key pair filled in), TokensPresent (account authorized), and
// Complete (paths assigned, ready for unattended runs). Ensure drives the
// transitions that need no human input and reports the ones that do as
// CONFIG_PENDING errors with operator instructions.
//
// All writes go through a temp-file-and-rename sequence in the target
// directory, so a crash mid-write never leaves a partial file behind.
package config
