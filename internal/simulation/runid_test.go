package simulation

import "testing"

func TestComputeRunIDDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a := ComputeRunID(cfg, 1_700_000_000_000)
	b := ComputeRunID(cfg, 1_700_000_000_000)
	if a != b {
		t.Errorf("same inputs gave %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("run id length = %d, want 64", len(a))
	}
}

func TestComputeRunIDSensitivity(t *testing.T) {
	base := DefaultConfig()
	baseID := ComputeRunID(base, 1_700_000_000_000)

	cases := []struct {
		name string
		cfg  Config
		ms   int64
	}{
		{"seed", func() Config { c := base; c.Seed++; return c }(), 1_700_000_000_000},
		{"transactions", func() Config { c := base; c.TotalTransactions++; return c }(), 1_700_000_000_000},
		{"pool a", func() Config { c := base; c.InitialPoolA++; return c }(), 1_700_000_000_000},
		{"fee", func() Config { c := base; c.FeeBps++; return c }(), 1_700_000_000_000},
		{"timestamp", base, 1_700_000_000_001},
	}
	for _, tc := range cases {
		if got := ComputeRunID(tc.cfg, tc.ms); got == baseID {
			t.Errorf("%s: changed input produced the same run id", tc.name)
		}
	}
}
