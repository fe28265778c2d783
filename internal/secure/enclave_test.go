package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_OpenReturnsOriginal(t *testing.T) {
	buf := NewBuffer([]byte("rc-secret"))

	locked, err := buf.Open()
	require.NoError(t, err)
	defer locked.Destroy()

	assert.Equal(t, "rc-secret", locked.String())
}

func TestBuffer_DestroyIsIdempotent(t *testing.T) {
	buf := NewBuffer([]byte("rc-secret"))

	buf.Destroy()
	buf.Destroy()

	locked, err := buf.Open()
	require.NoError(t, err)
	defer locked.Destroy()

	assert.Empty(t, locked.Bytes())
}
