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

package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFastOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		want    float64
		wantErr bool
	}{
		{
			name:   "typical",
			output: "85.2 Mbps\n",
			want:   85.2,
		},
		{
			name:   "bare number",
			output: "64\n",
			want:   64,
		},
		{
			name:   "gigabit",
			output: "1.2 Gbps\n",
			want:   1200,
		},
		{
			name:   "kilobit",
			output: "512 Kbps\n",
			want:   0.512,
		},
		{
			name:    "nan result",
			output:  "NaN bps\n",
			wantErr: true,
		},
		{
			name:    "empty",
			output:  "",
			wantErr: true,
		},
		{
			name:    "not a number",
			output:  "error: timed out\n",
			wantErr: true,
		},
		{
			name:    "unknown unit",
			output:  "85.2 Mbh\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseFastOutput(tt.output)
			if tt.wantErr {
				assert.Error(t, err, "parseFastOutput(%q) = %+v", tt.output, got)
				return
			}
			if err != nil {
				t.Fatalf("parseFastOutput(%q): %v", tt.output, err)
			}
			if assert.NotNil(t, got.DownloadMbps) {
				assert.Equal(t, tt.want, *got.DownloadMbps)
			}
			assert.Nil(t, got.UploadMbps, "fast.com sample must carry download only")
			assert.Nil(t, got.LatencyMS, "fast.com sample must carry download only")
		})
	}
}
