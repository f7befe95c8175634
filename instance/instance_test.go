// Package instance_test covers construction, accessors and precedence analysis.
package instance_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/etsppc/geom"
	"github.com/katalvlaran/etsppc/instance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// locs builds locations with ids in the given order, placed on the x axis.
func locs(ids ...int) []geom.Location {
	out := make([]geom.Location, len(ids))
	for i, id := range ids {
		out[i] = geom.NewLocation(id, float64(i), 0)
	}

	return out
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name string
		locs []geom.Location
		cons []instance.Constraint
		want error
	}{
		{"empty", nil, nil, instance.ErrNoLocations},
		{"duplicate id", locs(1, 2, 1), nil, instance.ErrDuplicateID},
		{"nan coordinate", []geom.Location{geom.NewLocation(1, math.NaN(), 0)}, nil, instance.ErrInvalidCoordinate},
		{"inf coordinate", []geom.Location{geom.NewLocation(1, 0, math.Inf(1))}, nil, instance.ErrInvalidCoordinate},
		{"overflowing extent", []geom.Location{
			geom.NewLocation(1, -1e308, 0),
			geom.NewLocation(2, 1e308, 0),
			geom.NewLocation(3, 0, 1e308),
		}, nil, instance.ErrInvalidCoordinate},
		{"unknown first", locs(1, 2), []instance.Constraint{{First: 9, Second: 2}}, instance.ErrUnknownLocation},
		{"unknown second", locs(1, 2), []instance.Constraint{{First: 1, Second: 9}}, instance.ErrUnknownLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := instance.New(tc.locs, tc.cons)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_LargeExtentKeepsCostsFinite(t *testing.T) {
	in, err := instance.New([]geom.Location{
		geom.NewLocation(1, -1e306, 0),
		geom.NewLocation(2, 1e306, 0),
	}, nil)
	require.NoError(t, err)

	d, err := in.Distance(1, 2)
	require.NoError(t, err)
	assert.False(t, math.IsInf(2*d, 0))
}

func TestNew_AccessorsReturnCopies(t *testing.T) {
	in, err := instance.New(locs(5, 3, 9), []instance.Constraint{{First: 3, Second: 9}}, instance.WithName("demo"))
	require.NoError(t, err)

	assert.Equal(t, "demo", in.Name())
	assert.Equal(t, 3, in.Len())
	assert.Equal(t, []int{3, 5, 9}, in.IDs())

	ids := in.IDs()
	ids[0] = 100
	assert.Equal(t, []int{3, 5, 9}, in.IDs(), "IDs must not alias internal state")

	m := in.Locations()
	delete(m, 3)
	_, ok := in.Location(3)
	assert.True(t, ok, "Locations must not alias internal state")

	cs := in.Constraints()
	cs[0] = instance.Constraint{First: 0, Second: 0}
	assert.Equal(t, []instance.Constraint{{First: 3, Second: 9}}, in.Constraints())

	_, ok = in.Location(42)
	assert.False(t, ok)
}

func TestNew_DeduplicatesConstraints(t *testing.T) {
	cons := []instance.Constraint{
		{First: 2, Second: 3},
		{First: 1, Second: 3},
		{First: 2, Second: 3},
	}
	in, err := instance.New(locs(1, 2, 3), cons)
	require.NoError(t, err)

	assert.Equal(t, []instance.Constraint{{First: 1, Second: 3}, {First: 2, Second: 3}}, in.Constraints())
	assert.Equal(t, []int{1, 2}, in.Predecessors(3))
	assert.Nil(t, in.Predecessors(1))
}

func TestConstraint_StructuralEquality(t *testing.T) {
	a := instance.Constraint{First: 1, Second: 2}
	b := instance.Constraint{First: 1, Second: 2}
	c := instance.Constraint{First: 2, Second: 1}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	set := map[instance.Constraint]int{a: 1}
	set[b]++
	assert.Len(t, set, 1)
	assert.Equal(t, 2, set[a])
	assert.Equal(t, "1<2", a.String())
}

func TestDistance(t *testing.T) {
	in, err := instance.New([]geom.Location{
		geom.NewLocation(1, 0, 0),
		geom.NewLocation(2, 3, 4),
	}, nil)
	require.NoError(t, err)

	d, err := in.Distance(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	_, err = in.Distance(1, 3)
	assert.ErrorIs(t, err, instance.ErrUnknownLocation)
}

func TestStartIDs(t *testing.T) {
	cons := []instance.Constraint{{First: 1, Second: 2}, {First: 2, Second: 4}}
	in, err := instance.New(locs(4, 3, 2, 1), cons)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, in.StartIDs())
}

func TestTopologicalOrder_RespectsConstraints(t *testing.T) {
	cons := []instance.Constraint{
		{First: 5, Second: 1},
		{First: 4, Second: 2},
		{First: 1, Second: 2},
		{First: 3, Second: 5},
	}
	in, err := instance.New(locs(1, 2, 3, 4, 5), cons)
	require.NoError(t, err)

	order, err := in.TopologicalOrder()
	require.NoError(t, err)
	require.ElementsMatch(t, in.IDs(), order)

	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, c := range cons {
		assert.Less(t, pos[c.First], pos[c.Second], "constraint %s violated in %v", c, order)
	}
	assert.True(t, in.Feasible())
}

func TestTopologicalOrder_NoConstraintsIsAscending(t *testing.T) {
	in, err := instance.New(locs(8, 2, 6, 4), nil)
	require.NoError(t, err)

	order, err := in.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6, 8}, order)
}

func TestTopologicalOrder_Cycles(t *testing.T) {
	cases := map[string][]instance.Constraint{
		"two-cycle":   {{First: 1, Second: 2}, {First: 2, Second: 1}},
		"self":        {{First: 3, Second: 3}},
		"three-cycle": {{First: 1, Second: 2}, {First: 2, Second: 3}, {First: 3, Second: 1}},
		"tail-cycle":  {{First: 1, Second: 2}, {First: 2, Second: 3}, {First: 3, Second: 4}, {First: 4, Second: 2}},
	}
	for name, cons := range cases {
		t.Run(name, func(t *testing.T) {
			in, err := instance.New(locs(1, 2, 3, 4), cons)
			require.NoError(t, err, "cycles are not a construction error")

			_, err = in.TopologicalOrder()
			assert.ErrorIs(t, err, instance.ErrCycleDetected)
			assert.False(t, in.Feasible())
		})
	}
}
