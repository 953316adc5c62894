package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapScanValue(t *testing.T) {
	t.Parallel()

	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"units":"metric","days":3}`)))
	assert.Equal(t, "metric", m["units"])
	assert.EqualValues(t, 3, m["days"])

	val, err := m.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"units":"metric","days":3}`, string(val.([]byte)))
}

func TestJSONMapScanNil(t *testing.T) {
	t.Parallel()

	var m JSONMap
	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestJSONSliceRoundTrip(t *testing.T) {
	t.Parallel()

	var s JSONSlice
	require.NoError(t, s.Scan(`[{"type":"strength"}]`))
	require.Len(t, s, 1)

	val, err := s.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"strength"}]`, string(val.([]byte)))
}
