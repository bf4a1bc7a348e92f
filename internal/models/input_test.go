package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingInput_ChangesFollowPresence(t *testing.T) {
	var in MeetingInput
	require.NoError(t, json.Unmarshal([]byte(`{"status":"done","notes":"","location":null,"date":"2026-04-01"}`), &in))

	changes, err := in.Changes()
	require.NoError(t, err)

	assert.Equal(t, "done", changes["status"])
	assert.Equal(t, "", changes["notes"], "empty string is an explicit value")
	assert.NotContains(t, changes, "location", "null is absent")
	assert.NotContains(t, changes, "title")
	require.Contains(t, changes, "date")
	assert.Equal(t, "2026-04-01", changes["date"].(Date).String())
}

func TestMeetingInput_EmptyPayload(t *testing.T) {
	in := &MeetingInput{}
	changes, err := in.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, "no field changes", in.Summary())
}

func TestMeetingInput_Rejects(t *testing.T) {
	empty := ""
	blank := "   "

	tests := []struct {
		name  string
		input MeetingInput
		field string
	}{
		{"blank title on update", MeetingInput{Title: &blank}, "title"},
		{"empty lead id", MeetingInput{LeadID: &empty}, "lead_id"},
		{"empty assignee", MeetingInput{AssignedToID: &empty}, "assigned_to_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.Changes()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPayload))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestMeetingInput_References(t *testing.T) {
	lead, user := "lead-1", "user-2"
	in := MeetingInput{LeadID: &lead, AssignedToID: &user}

	refs, err := in.References()
	require.NoError(t, err)
	assert.Equal(t, []Reference{
		{Table: "leads", Field: "lead_id", ID: "lead-1"},
		{Table: "users", Field: "assigned_to_id", ID: "user-2"},
	}, refs)
}

func TestLeadInput_Validate(t *testing.T) {
	name := "Jane"
	negative := -5.0

	assert.NoError(t, (&LeadInput{Name: &name}).Validate())
	assert.ErrorIs(t, (&LeadInput{}).Validate(), ErrInvalidPayload)
	assert.ErrorIs(t, (&LeadInput{Name: &name, Budget: &negative}).Validate(), ErrInvalidPayload)
}

func TestVisitInput_RequiresLead(t *testing.T) {
	assert.ErrorIs(t, (&VisitInput{}).Validate(), ErrInvalidPayload)
}

func TestLead_RelatesToItself(t *testing.T) {
	l := &Lead{ID: "lead-3"}
	require.NotNil(t, l.RelatedLeadID())
	assert.Equal(t, "lead-3", *l.RelatedLeadID())
	assert.Nil(t, (&Project{ID: "p"}).RelatedLeadID())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", d.String())

	d, err = ParseDate("2026-02-14T23:10:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", d.String())

	_, err = ParseDate("14/02/2026")
	assert.Error(t, err)

	var in MeetingInput
	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &in))
}
