package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    models.MeetingInput
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "meeting",
			body:     `{"meeting": {"title": "Intro Call", "client": "Acme"}}`,
			expected: models.MeetingInput{Title: strPtr("Intro Call"), Client: strPtr("Acme")},
		},
		{
			name:     "Flat Structure",
			key:      "meeting",
			body:     `{"title": "Intro Call", "status": "done"}`,
			expected: models.MeetingInput{Title: strPtr("Intro Call"), Status: strPtr("done")},
		},
		{
			name:     "Nested Key Missing Falls Back To Flat",
			key:      "meeting",
			body:     `{"other": "value", "notes": "call back"}`,
			expected: models.MeetingInput{Notes: strPtr("call back")},
		},
		{
			name:     "Empty String Is Present",
			key:      "meeting",
			body:     `{"notes": ""}`,
			expected: models.MeetingInput{Notes: strPtr("")},
		},
		{
			name:     "Null Is Absent",
			key:      "meeting",
			body:     `{"notes": null}`,
			expected: models.MeetingInput{},
		},
		{
			name:     "Empty Body",
			key:      "meeting",
			body:     ``,
			expected: models.MeetingInput{},
		},
		{
			name:        "Invalid JSON",
			key:         "meeting",
			body:        `{"title": 12}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "meeting",
			body:        `{"meeting": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result models.MeetingInput
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
