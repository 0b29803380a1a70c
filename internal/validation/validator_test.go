// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package validation

import (
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type limitRequest struct {
	Limit    int `query:"limit" validate:"min=1,ltefield=MaxLimit"`
	MaxLimit int `query:"-"`
}

type statusRequest struct {
	Status string `query:"status" validate:"required,recstatus"`
}

type countRequest struct {
	Count int    `query:"count" validate:"min=1,max=100"`
	Mode  string `query:"mode" validate:"omitempty,oneof=sync async"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{"limit ok", &limitRequest{Limit: 10, MaxLimit: 100}, "", ""},
		{"limit at max", &limitRequest{Limit: 100, MaxLimit: 100}, "", ""},
		{"limit zero", &limitRequest{Limit: 0, MaxLimit: 100}, "limit", "limit must be at least 1"},
		{"limit over max", &limitRequest{Limit: 101, MaxLimit: 100}, "limit", "limit exceeds the configured maximum"},
		{"status accepted", &statusRequest{Status: "ACCEPTED"}, "", ""},
		{"status lower case", &statusRequest{Status: "viewed"}, "", ""},
		{"status new refused", &statusRequest{Status: "NEW"}, "status", "status must be one of VIEWED, ACCEPTED, REJECTED"},
		{"status bogus", &statusRequest{Status: "MAYBE"}, "status", "status must be one of VIEWED, ACCEPTED, REJECTED"},
		{"status missing", &statusRequest{}, "status", "status is required"},
		{"count over", &countRequest{Count: 101}, "count", "count must be at most 100"},
		{"mode bogus", &countRequest{Count: 1, Mode: "later"}, "mode", "mode must be one of: sync async"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() error = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1", len(errs))
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		err := ValidateStruct(&countRequest{Count: 0})
		if err == nil {
			t.Fatal("ValidateStruct() error = nil")
		}
		apiErr := err.ToAPIError()
		if apiErr.Code != ErrCodeValidation {
			t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeValidation)
		}
		if apiErr.Details["field"] != "count" {
			t.Errorf("Details[field] = %v, want count", apiErr.Details["field"])
		}
	})

	t.Run("multiple", func(t *testing.T) {
		err := ValidateStruct(&countRequest{Count: 0, Mode: "later"})
		if err == nil {
			t.Fatal("ValidateStruct() error = nil")
		}
		apiErr := err.ToAPIError()
		if !strings.Contains(apiErr.Message, "count") || !strings.Contains(apiErr.Message, "mode") {
			t.Errorf("Message = %q, want both fields", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
