package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	all := All[int]()
	assert.True(t, all.IsAll())
	assert.True(t, all.Match(1999))
	assert.Equal(t, "all", all.String())

	only := Only(2024)
	assert.False(t, only.IsAll())
	assert.True(t, only.Match(2024))
	assert.False(t, only.Match(2023))
	assert.Equal(t, "2024", only.String())

	v, ok := only.Value()
	assert.True(t, ok)
	assert.Equal(t, 2024, v)
}

func TestParseYear(t *testing.T) {
	f, err := ParseYear("all")
	require.NoError(t, err)
	assert.True(t, f.IsAll())

	f, err = ParseYear("")
	require.NoError(t, err)
	assert.True(t, f.IsAll())

	f, err = ParseYear("2024")
	require.NoError(t, err)
	assert.True(t, f.Match(2024))

	_, err = ParseYear("twenty")
	assert.Error(t, err)
}

func TestParseMonth(t *testing.T) {
	f, err := ParseMonth("3")
	require.NoError(t, err)
	assert.True(t, f.Match(3))

	for _, bad := range []string{"0", "13", "march"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseProvider(t *testing.T) {
	assert.True(t, ParseProvider("all").IsAll())
	assert.True(t, ParseProvider("").IsAll())
	assert.True(t, ParseProvider("Enel").Match("Enel"))
	assert.False(t, ParseProvider("Enel").Match("enel"))
}
