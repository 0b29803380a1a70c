// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponseJSON(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		resp     APIResponse
		contains []string
		absent   []string
	}{
		{
			name: "success with count",
			resp: APIResponse{
				Status:   StatusSuccess,
				Data:     []int{1, 2},
				Metadata: Metadata{Timestamp: ts, Count: IntPtr(0)},
			},
			contains: []string{`"status":"success"`, `"data":[1,2]`, `"count":0`},
			absent:   []string{`"error"`, `"request_id"`},
		},
		{
			name: "error",
			resp: APIResponse{
				Status:   StatusError,
				Metadata: Metadata{Timestamp: ts, RequestID: "req-1"},
				Error:    &APIError{Code: "USER_NOT_FOUND", Message: "User 42 not found"},
			},
			contains: []string{`"status":"error"`, `"data":null`, `"code":"USER_NOT_FOUND"`, `"request_id":"req-1"`},
			absent:   []string{`"details"`, `"count"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			body := string(data)
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body %s missing %s", body, want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(body, unwanted) {
					t.Errorf("body %s contains %s", body, unwanted)
				}
			}
		})
	}
}
