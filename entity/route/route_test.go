package route_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"

	"git.fiblab.net/sim/tldetector/entity/route"
)

func line5() []geometry.Point {
	return []geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0},
	}
}

func TestClosestWaypoint(t *testing.T) {
	r := route.New(line5())

	idx, dist, err := r.ClosestWaypoint(geometry.Point{X: 1.1, Y: 0})
	assert.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.1, dist, 1e-9)

	idx, dist, err = r.ClosestWaypoint(geometry.Point{X: 3.9, Y: 1})
	assert.NoError(t, err)
	assert.Equal(t, 4, idx)
	assert.InDelta(t, 1.004987562, dist, 1e-6)
}

func TestClosestWaypointDeterministic(t *testing.T) {
	r := route.New(line5())
	p := geometry.Point{X: 2.5, Y: 0.3}
	first, _, err := r.ClosestWaypoint(p)
	assert.NoError(t, err)
	for i := 0; i < 10; i++ {
		idx, _, err := r.ClosestWaypoint(p)
		assert.NoError(t, err)
		assert.Equal(t, first, idx)
	}
}

func TestClosestWaypointTieLowestIndex(t *testing.T) {
	r := route.New([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}})
	// 与两个路径点等距
	idx, dist, err := r.ClosestWaypoint(geometry.Point{X: 1, Y: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 1.0, dist, 1e-9)
}

func TestClosestWaypointEmptyRoute(t *testing.T) {
	r := route.New(nil)
	_, _, err := r.ClosestWaypoint(geometry.Point{X: 1, Y: 1})
	assert.ErrorIs(t, err, route.ErrEmptyRoute)
}

func TestPositionAt(t *testing.T) {
	r := route.New(line5())
	assert.InDelta(t, 4.0, r.Length(), 1e-9)

	p := r.PositionAt(1.5)
	assert.InDelta(t, 1.5, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)

	// 钳制到路线范围
	p = r.PositionAt(-1)
	assert.InDelta(t, 0, p.X, 1e-9)
	p = r.PositionAt(100)
	assert.InDelta(t, 4, p.X, 1e-9)
}

func TestManagerBufferedReplace(t *testing.T) {
	m := route.NewManager(nil)
	assert.Nil(t, m.Route())

	m.Set(line5())
	// Prepare前不可见
	assert.Nil(t, m.Route())
	m.Prepare()
	r := m.Route()
	assert.NotNil(t, r)
	assert.Equal(t, 5, r.Len())

	// 整体替换
	m.Set([]geometry.Point{{X: 0, Y: 0}})
	assert.Equal(t, 5, m.Route().Len())
	m.Prepare()
	assert.Equal(t, 1, m.Route().Len())
}
