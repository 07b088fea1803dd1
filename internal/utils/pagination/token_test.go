package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)
	token := EncodeMultiFieldToken(createdAt.Format(time.RFC3339Nano), "txn-42")

	fields, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	parsed, err := time.Parse(time.RFC3339Nano, fields[0])
	require.NoError(t, err)
	assert.True(t, parsed.Equal(createdAt))
	assert.Equal(t, "txn-42", fields[1])
}

func TestDecodeMultiFieldToken_RejectsBadBase64(t *testing.T) {
	_, err := DecodeMultiFieldToken("not base64!!!")
	assert.Error(t, err)
}
