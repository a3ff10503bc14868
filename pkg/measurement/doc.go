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

// Package measurement defines the domain types shared across netpulse:
// the set of known measurement tools, the metrics a probe attempt can
// produce, and the records the store persists.
//
// Every successful attempt carries download throughput in Mbps; upload,
// latency, and retransmission are present only when the tool reports them.
// Failed attempts carry an exit code and a reason instead of metrics, and
// are first-class records so that gaps in the history are visible.
package measurement
