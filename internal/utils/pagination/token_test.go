package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	bookingDate := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	transactionID := "INV-00042/25"

	token := EncodeToken(bookingDate, transactionID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, bookingDate, decodedDate, "Booking date should match after decode")
	assert.Equal(t, transactionID, decodedID, "Transaction ID should match after decode")

	// Nanosecond precision survives the round-trip.
	preciseDate := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)
	preciseToken := EncodeToken(preciseDate, transactionID)
	decodedPrecise, _, err := DecodeToken(preciseToken)
	assert.NoError(t, err)
	assert.True(t, preciseDate.Equal(decodedPrecise), "Precise date should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	invalidToken := "MjAyNS0wNS0xNVQwMDowMDowMFo=" // "2025-05-15T00:00:00Z" without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid date segment
	_, _, err = DecodeToken("bm90YWRhdGV8SU5WLTAwMDAxLzI1") // "notadate|INV-00001/25"
	assert.Error(t, err, "Should return an error for an unparseable date")
	assert.Contains(t, err.Error(), "booking date parse", "Error should mention date parsing issue")

	// Empty transaction ID segment
	emptyID := EncodeToken(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "")
	_, _, err = DecodeToken(emptyID)
	assert.Error(t, err, "Should return an error for an empty transaction ID")
}
