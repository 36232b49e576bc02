package plan

import "testing"

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
	}{
		{"single project", "1 project", 1},
		{"plural projects", "10 projects", 10},
		{"comma separated thousands", "1,000 requests/month", 1000},
		{"large comma separated", "50,000 requests/month", 50000},
		{"unlimited", "Unlimited projects", Unlimited},
		{"unlimited lowercase", "unlimited requests/month", Unlimited},
		{"no leading integer", "chat history", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLimit(tt.value); got != tt.want {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	for _, id := range []string{Free, Pro, Enterprise} {
		p, ok := Lookup(id)
		if !ok {
			t.Fatalf("Lookup(%q) not found", id)
		}
		if p.ID != id {
			t.Errorf("Lookup(%q).ID = %q", id, p.ID)
		}
	}

	if p, ok := Lookup("PRO"); !ok || p.ID != Pro {
		t.Error("Lookup should be case-insensitive")
	}

	if _, ok := Lookup("platinum"); ok {
		t.Error("Lookup accepted an unknown plan")
	}
}

func TestAll(t *testing.T) {
	plans := All()
	if len(plans) != 3 {
		t.Fatalf("All() returned %d plans, want 3", len(plans))
	}
	want := []string{Free, Pro, Enterprise}
	for i, id := range want {
		if plans[i].ID != id {
			t.Errorf("All()[%d].ID = %q, want %q", i, plans[i].ID, id)
		}
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name    string
		planID  string
		feature string
		used    int64
		want    bool
	}{
		{"free under project limit", Free, FeatureMaxProjects, 0, true},
		{"free at project limit", Free, FeatureMaxProjects, 1, false},
		{"pro under project limit", Pro, FeatureMaxProjects, 9, true},
		{"pro at project limit", Pro, FeatureMaxProjects, 10, false},
		{"enterprise unlimited projects", Enterprise, FeatureMaxProjects, 1000000, true},
		{"free under monthly requests", Free, FeatureMaxRequestsPerMonth, 999, true},
		{"free at monthly requests", Free, FeatureMaxRequestsPerMonth, 1000, false},
		{"pro unlimited generations", Pro, FeatureAIGenerations, 1000000, true},
		{"unknown plan allows nothing", "platinum", FeatureMaxProjects, 0, false},
		{"unknown feature allows nothing", Free, "teleportation", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.planID, tt.feature, tt.used); got != tt.want {
				t.Errorf("Allows(%q, %q, %d) = %v, want %v", tt.planID, tt.feature, tt.used, got, tt.want)
			}
		})
	}
}
