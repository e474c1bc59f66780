package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	for _, r := range Regions {
		assert.Equal(t, 0.0, Distance(r.Lat, r.Lng, r.Lat, r.Lng))
	}
}

func TestDistance_SeoulBusan(t *testing.T) {
	d := Distance(37.5663, 126.9779, 35.1798, 129.075)
	assert.InDelta(t, 325.0, d, 5.0)
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(37.4563, 126.7052, 33.4996, 126.5312)
	b := Distance(33.4996, 126.5312, 37.4563, 126.7052)
	assert.Equal(t, a, b)
}

func TestDistance_RoundedToOneDecimal(t *testing.T) {
	d := Distance(37.5665, 126.978, 37.5665, 127.0)
	assert.Equal(t, d, float64(int(d*10+0.5))/10)
}
