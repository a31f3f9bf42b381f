package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: 1, Y: -2}

	assert.Equal(t, Vec2{X: 4, Y: 2}, a.Add(b))
	assert.Equal(t, Vec2{X: 2, Y: 6}, a.Sub(b))
	assert.Equal(t, Vec2{X: 1.5, Y: 2}, a.Scale(0.5))
	assert.Equal(t, 5.0, a.Len())
	assert.Equal(t, 5.0, Vec2{}.Dist(a))
	assert.Equal(t, a.Dist(b), b.Dist(a))
}

func TestVec2_R2RoundTrip(t *testing.T) {
	v := Vec2{X: -7.25, Y: 12}
	assert.Equal(t, r2.Vec{X: -7.25, Y: 12}, v.R2())
	assert.Equal(t, v, FromR2(v.R2()))
}
