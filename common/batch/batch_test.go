package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDIsStablePerFingerprint(t *testing.T) {
	a := NewRequest("amazon", "products", "/data/amazon", "abc123")
	b := NewRequest("amazon", "products", "/data/amazon", "abc123")
	c := NewRequest("amazon", "products", "/data/amazon", "def456")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.RunID(), b.RunID())
	assert.NotEqual(t, a.RunID(), c.RunID())
}

func TestRunIDFallsBackToRequestID(t *testing.T) {
	r := NewRequest("jobs", "jobs", "/data/jobs.csv", "")
	assert.Equal(t, r.ID, r.RunID())
}

func TestRequestBinaryEncoding(t *testing.T) {
	in := NewRequest("amazon", "products", "/data/amazon", "abc123")
	data, err := in.MarshalBinary()
	require.NoError(t, err)

	var out Request
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.InputPath, out.InputPath)
	assert.True(t, in.RequestedAt.Equal(out.RequestedAt))
}
