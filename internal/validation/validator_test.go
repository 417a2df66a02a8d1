// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/cohortcast/internal/models"
)

type trainBody struct {
	Cohorts []models.CohortData `json:"cohorts" validate:"required,min=1,dive"`
}

type predictBody struct {
	Observed  map[int]float64 `json:"observed" validate:"dive,keys,gte=0,endkeys,gte=0,lte=1"`
	TargetDay int             `json:"target_day" validate:"gte=0,lte=3650"`
	GameType  string          `json:"game_type,omitempty" validate:"omitempty,max=32"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return one shared instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
	}{
		{name: "train", in: &trainBody{Cohorts: []models.CohortData{{CohortID: "a", Retention: map[int]float64{0: 1, 1: 0.4}}}}},
		{name: "predict", in: &predictBody{Observed: map[int]float64{1: 0.4, 7: 0.18}, TargetDay: 30}},
		{name: "predict empty observed", in: &predictBody{TargetDay: 7}},
		{name: "mapping", in: &models.ColumnMeaning{Column: "uid", SemanticType: models.SemanticUserID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if verr := ValidateStruct(tt.in); verr != nil {
				t.Errorf("unexpected error: %v", verr)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	ltv := -5
	tests := []struct {
		name      string
		in        interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "no cohorts",
			in:        &trainBody{},
			wantField: "cohorts",
			wantTag:   "required",
			wantMsg:   "cohorts is required",
		},
		{
			name:      "empty retention",
			in:        &trainBody{Cohorts: []models.CohortData{{CohortID: "a", Retention: map[int]float64{}}}},
			wantField: "cohorts[0].retention",
			wantTag:   "min",
			wantMsg:   "must contain at least 1 items",
		},
		{
			name:      "retention above one",
			in:        &trainBody{Cohorts: []models.CohortData{{CohortID: "a", Retention: map[int]float64{1: 1.5}}}},
			wantField: "cohorts[0].retention[1]",
			wantTag:   "lte",
			wantMsg:   "less than or equal to 1",
		},
		{
			name:      "negative day key",
			in:        &predictBody{Observed: map[int]float64{-1: 0.5}},
			wantField: "observed[-1]",
			wantTag:   "gte",
		},
		{
			name:      "target day too large",
			in:        &predictBody{TargetDay: 10000},
			wantField: "target_day",
			wantTag:   "lte",
		},
		{
			name:      "override below range",
			in:        &models.MetricConfigOverrides{LTVProjectionDays: &ltv},
			wantField: "ltv_projection_days",
			wantTag:   "gte",
		},
		{
			name:      "mapping without type",
			in:        &models.ColumnMeaning{Column: "uid"},
			wantField: "semantic_type",
			wantTag:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.in)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if len(verr.Fields) == 0 {
				t.Fatal("no field errors")
			}
			f := verr.Fields[0]
			if f.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", f.Field, tt.wantField)
			}
			if f.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", f.Tag, tt.wantTag)
			}
			if tt.wantMsg != "" && !strings.Contains(f.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", f.Message, tt.wantMsg)
			}
			if verr.Error() == "" {
				t.Error("Error() is empty")
			}
			if _, ok := verr.Details()["fields"]; !ok {
				t.Error("Details missing fields")
			}
		})
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	verr := ValidateStruct("not a struct")
	if verr == nil || verr.Fields[0].Field != "body" {
		t.Errorf("ValidateStruct(string) = %+v", verr)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty error message changed")
	}
}
