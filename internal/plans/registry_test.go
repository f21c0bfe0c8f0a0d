package plans

import (
	"testing"
)

func TestNewRegistry_LoadsEmbeddedTiers(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	all := registry.List()
	if len(all) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(all))
	}

	// Order follows the YAML definition
	wantOrder := []string{"free", "pro", "unlimited"}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("tier %d: expected %q, got %q", i, id, all[i].ID)
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	free, err := registry.Get("free")
	if err != nil {
		t.Fatalf("Get(free) failed: %v", err)
	}
	if free.MonthlyWordBudget != 20000 {
		t.Errorf("free budget = %d, want 20000", free.MonthlyWordBudget)
	}
	if free.CoverGeneration {
		t.Error("free tier should not include cover generation")
	}

	unlimited, err := registry.Get("unlimited")
	if err != nil {
		t.Fatalf("Get(unlimited) failed: %v", err)
	}
	if unlimited.MonthlyWordBudget != 0 {
		t.Errorf("unlimited budget = %d, want 0 (no cap)", unlimited.MonthlyWordBudget)
	}

	if _, err := registry.Get("enterprise"); err == nil {
		t.Error("expected error for unknown tier")
	}
}
