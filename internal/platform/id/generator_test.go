package id

import "testing"

func TestRandomGenerator_NewID(t *testing.T) {
	gen := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		got, err := gen.NewID()
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if len(got) != 32 {
			t.Fatalf("expected 32 hex chars, got %d (%q)", len(got), got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}
