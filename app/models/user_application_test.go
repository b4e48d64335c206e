package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackingNumberPattern = regexp.MustCompile(`^TRK-[0-9A-Z]+-[0-9A-Z]{5}$`)

func TestGenerateTrackingNumber_Format(t *testing.T) {
	number, err := GenerateTrackingNumber()
	require.NoError(t, err)
	assert.Regexp(t, trackingNumberPattern, number)
}

func TestGenerateTrackingNumber_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := GenerateTrackingNumber()
		require.NoError(t, err)
		assert.False(t, seen[number], "duplicate tracking number %s", number)
		seen[number] = true
	}
}

func TestIsValidSubmissionStatus(t *testing.T) {
	for _, status := range []string{
		SUBMISSION_STATUS_PENDING,
		SUBMISSION_STATUS_IN_PROGRESS,
		SUBMISSION_STATUS_COMPLETED,
		SUBMISSION_STATUS_REJECTED,
	} {
		assert.True(t, IsValidSubmissionStatus(status), status)
	}

	assert.False(t, IsValidSubmissionStatus("approved"))
	assert.False(t, IsValidSubmissionStatus("Pending"))
	assert.False(t, IsValidSubmissionStatus(""))
}

func TestUserApplicationIsPending(t *testing.T) {
	ua := UserApplication{Status: SUBMISSION_STATUS_PENDING}
	assert.True(t, ua.IsPending())

	ua.Status = SUBMISSION_STATUS_IN_PROGRESS
	assert.False(t, ua.IsPending())
}
