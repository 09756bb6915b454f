package db

import "testing"

func TestPoolLimits(t *testing.T) {
	cases := []struct {
		maxIn, minIn   int32
		maxOut, minOut int32
	}{
		{20, 5, 20, 5},
		{0, 0, defaultMaxConns, defaultMinConns},
		{1, 0, 1, 1},
		{0, 5, defaultMaxConns, 5},
		{4, 8, 4, 4},
	}
	for _, c := range cases {
		gotMax, gotMin := poolLimits(c.maxIn, c.minIn)
		if gotMax != c.maxOut || gotMin != c.minOut {
			t.Errorf("poolLimits(%d, %d) = (%d, %d), want (%d, %d)",
				c.maxIn, c.minIn, gotMax, gotMin, c.maxOut, c.minOut)
		}
	}
}
