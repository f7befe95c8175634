package instance_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/etsppc/instance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	in, err := instance.Load("testdata/square.yaml")
	require.NoError(t, err)

	assert.Equal(t, "square", in.Name())
	assert.Equal(t, []int{1, 2, 3, 4}, in.IDs())
	assert.Equal(t, []instance.Constraint{{First: 1, Second: 3}}, in.Constraints())

	loc, ok := in.Location(3)
	require.True(t, ok)
	assert.Equal(t, 1.0, loc.X)
	assert.Equal(t, 1.0, loc.Y)
}

func TestLoad_JSON(t *testing.T) {
	in, err := instance.Load("testdata/cyclic.json")
	require.NoError(t, err)

	assert.Equal(t, 3, in.Len())
	assert.Equal(t, []int{30}, in.StartIDs())
	assert.False(t, in.Feasible())
}

func TestLoad_Errors(t *testing.T) {
	_, err := instance.Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)

	_, err = instance.Load("testdata/unknown_field.yaml")
	assert.ErrorContains(t, err, "z")
}

func TestDecode_Validation(t *testing.T) {
	_, err := instance.Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, instance.ErrNoLocations)

	dup := `
locations:
  - {id: 1, x: 0, y: 0}
  - {id: 1, x: 1, y: 1}
`
	_, err = instance.Decode(strings.NewReader(dup))
	assert.ErrorIs(t, err, instance.ErrDuplicateID)

	unknown := `
locations:
  - {id: 1, x: 0, y: 0}
constraints:
  - {first: 1, second: 2}
`
	_, err = instance.Decode(strings.NewReader(unknown))
	assert.ErrorIs(t, err, instance.ErrUnknownLocation)
}
