package types

import "github.com/google/uuid"

// FieldStatus is the outcome of processing one field.
type FieldStatus string

const (
	// FieldFilled means the control was written
	FieldFilled FieldStatus = "filled"
	// FieldFailed means a mutation or event dispatch failed
	FieldFailed FieldStatus = "failed"
	// FieldNoMatch means no attribute pattern matched the field
	FieldNoMatch FieldStatus = "no_match"
	// FieldNoValue means an attribute matched but the profile has no data for it
	FieldNoValue FieldStatus = "no_value"
	// FieldDuplicate means the field's identity was already filled this session
	FieldDuplicate FieldStatus = "duplicate"
)

// FieldOutcome records what happened to one field during a pass.
type FieldOutcome struct {
	Identity  string      `json:"identity"`
	Attribute string      `json:"attribute,omitempty"`
	Score     int         `json:"score,omitempty"`
	Value     string      `json:"value,omitempty"`
	Status    FieldStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
}

// FillResult is the aggregate result of one autofill pass.
type FillResult struct {
	SessionID     uuid.UUID      `json:"session_id"`
	Attempt       int            `json:"attempt"`
	Success       bool           `json:"success"`
	FormsFound    int            `json:"forms_found"`
	FieldsFound   int            `json:"fields_found"`
	FieldsFilled  int            `json:"fields_filled"`
	FieldsFailed  int            `json:"fields_failed"`
	FieldsSkipped int            `json:"fields_skipped"`
	SuccessRate   float64        `json:"success_rate"` // percentage of found fields that were filled
	Message       string         `json:"message"`
	Navigation    string         `json:"navigation,omitempty"` // "next" or "submit" when a button was clicked
	Fields        []FieldOutcome `json:"fields,omitempty"`
}
