package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundgraph/soundgraph/internal/utils/pagination"
)

func TestRoundTrip(t *testing.T) {
	token, err := pagination.Encode(pagination.Cursor{Seq: 40})
	require.NoError(t, err)

	c, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), c.Seq)
}

func TestEmptyTokenIsFirstPage(t *testing.T) {
	c, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.Seq)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := pagination.Decode("not base64!!!")
	assert.Error(t, err)

	// Valid base64, invalid JSON.
	_, err = pagination.Decode("bm90LWpzb24=")
	assert.Error(t, err)
}
