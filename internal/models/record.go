package models

import (
	"errors"
	"fmt"
	"strings"
)

// Record is implemented by every CRM entity managed through the generic
// entity service.
type Record interface {
	GetID() string
	// RelatedLeadID is the lead an audit entry about this record links to.
	RelatedLeadID() *string
}

// Reference names a related row that must exist before it is connected.
type Reference struct {
	Table string
	Field string
	ID    string
}

// ErrInvalidPayload is the base error for payload validation failures.
var ErrInvalidPayload = errors.New("invalid payload")

// FieldError reports a single invalid or missing payload field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidPayload
}

func requireString(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return &FieldError{Field: field, Reason: "is required"}
	}
	return nil
}

// reference appends a Reference for an explicitly supplied relation id.
// An empty id is rejected: relations are connected, never cleared.
func reference(refs []Reference, table, field string, id *string) ([]Reference, error) {
	if id == nil {
		return refs, nil
	}
	if strings.TrimSpace(*id) == "" {
		return refs, &FieldError{Field: field, Reason: "must not be empty"}
	}
	return append(refs, Reference{Table: table, Field: field, ID: *id}), nil
}

// changeSet collects the columns an update payload explicitly carries.
type changeSet map[string]any

func (c changeSet) str(column string, v *string) {
	if v != nil {
		c[column] = *v
	}
}

func (c changeSet) float(column string, v *float64) {
	if v != nil {
		c[column] = *v
	}
}

func (c changeSet) date(column string, v *Date) {
	if v != nil {
		c[column] = *v
	}
}

// summarize renders "key=value" pairs for the present fields, in order.
func summarize(pairs ...any) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case *string:
			if v != nil {
				parts = append(parts, fmt.Sprintf("%s=%s", key, *v))
			}
		case *Date:
			if v != nil {
				parts = append(parts, fmt.Sprintf("%s=%s", key, v))
			}
		case *float64:
			if v != nil {
				parts = append(parts, fmt.Sprintf("%s=%.2f", key, *v))
			}
		}
	}
	if len(parts) == 0 {
		return "no field changes"
	}
	return strings.Join(parts, ", ")
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
