package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(28.6139, 77.2090, 28.6139, 77.2090))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{28.6139, 77.2090, 19.0760, 72.8777}, // Delhi <-> Mumbai
		{12.9716, 77.5946, 13.0827, 80.2707}, // Bangalore <-> Chennai
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		assert.InDelta(t, DistanceKm(p[0], p[1], p[2], p[3]), DistanceKm(p[2], p[3], p[0], p[1]), 1e-9)
	}
}

func TestDistanceKmKnownDistances(t *testing.T) {
	// Delhi to Mumbai is roughly 1150 km great-circle.
	assert.InDelta(t, 1150, DistanceKm(28.6139, 77.2090, 19.0760, 72.8777), 30)

	// A viewer at the origin is far more than 1 km from (10,10).
	assert.Greater(t, DistanceKm(0, 0, 10, 10), 1000.0)

	// One degree of latitude is about 111 km.
	assert.InDelta(t, 111, DistanceKm(0, 0, 1, 0), 1)
}
