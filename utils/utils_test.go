package utils

import (
	"testing"

	"procurify-api/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSubmissionStatus(t *testing.T) {
	cases := map[string]models.SubmissionStatus{
		"ACCEPTED":     models.SubmissionStatusAccepted,
		" approved ":   models.SubmissionStatusAccepted,
		"rejected":     models.SubmissionStatusRejected,
		"Not Selected": models.SubmissionStatusRejected,
		"not-selected": models.SubmissionStatusRejected,
		"PENDING":      models.SubmissionStatusPending,
		"under review": models.SubmissionStatusPending,
	}
	for raw, want := range cases {
		got, ok := ParseSubmissionStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseSubmissionStatus("ARCHIVED")
	assert.False(t, ok)
	_, ok = ParseSubmissionStatus("")
	assert.False(t, ok)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "PT Maju", SanitizeInput("  PT\x00 Maju \n"))
	assert.Equal(t, "", SanitizeInput("   "))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", TruncateRunes("héllo", 4))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
}
