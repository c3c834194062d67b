package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type altTextBody struct {
	AltTextEN string `json:"alt_text_en"`
	Width     int    `json:"width"`
}

func testContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindNestedOrFlat(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		body        string
		expected    altTextBody
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "media",
			body:     `{"media": {"alt_text_en": "Branch office", "width": 30}}`,
			expected: altTextBody{AltTextEN: "Branch office", Width: 30},
		},
		{
			name:     "Flat Structure",
			key:      "media",
			body:     `{"alt_text_en": "Team photo", "width": 25}`,
			expected: altTextBody{AltTextEN: "Team photo", Width: 25},
		},
		{
			name:     "Missing Key Falls Back To Flat",
			key:      "media",
			body:     `{"other": "value", "alt_text_en": "Logo", "width": 40}`,
			expected: altTextBody{AltTextEN: "Logo", Width: 40},
		},
		{
			name:        "Invalid Flat Content",
			key:         "media",
			body:        `{"alt_text_en": "x", "width": "wide"}`,
			expectError: true,
		},
		{
			name:        "Invalid Nested Content",
			key:         "media",
			body:        `{"media": {"width": "wide"}}`,
			expectError: true,
		},
		{
			name:        "Nested Key With Wrong Type",
			key:         "media",
			body:        `{"media": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result altTextBody
			err := BindNestedOrFlat(testContext(tt.body), tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestBindContent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantData   string
		wantStatus bool
	}{
		{"nested with status", `{"data": {"title_en": "A"}, "status": false}`, `{"title_en": "A"}`, false},
		{"nested without status", `{"data": {"title_en": "A"}}`, `{"title_en": "A"}`, true},
		{"flat with status", `{"title_en": "A", "status": false}`, `{"title_en": "A", "status": false}`, false},
		{"flat without status", `{"title_en": "A"}`, `{"title_en": "A"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, status, err := bindContent(testContext(tt.body))
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantData, string(data))
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestBindContent_InvalidJSON(t *testing.T) {
	_, _, err := bindContent(testContext(`{"title_en": `))
	assert.Error(t, err)
}
