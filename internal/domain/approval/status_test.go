package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Review(t *testing.T) {
	next, err := StatusPending.Review(StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, next)

	next, err = StatusPending.Review(StatusRejected)
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, next)

	for _, done := range []Status{StatusApproved, StatusRejected} {
		for _, decision := range []Status{StatusApproved, StatusRejected} {
			next, err := done.Review(decision)
			assert.ErrorIs(t, err, ErrAlreadyProcessed)
			assert.Equal(t, done, next)
		}
	}

	_, err = StatusPending.Review(StatusPending)
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestStatus_Withdrawable(t *testing.T) {
	assert.NoError(t, StatusPending.Withdrawable())
	assert.ErrorIs(t, StatusApproved.Withdrawable(), ErrNotPending)
	assert.ErrorIs(t, StatusRejected.Withdrawable(), ErrNotPending)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Approved ")
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
