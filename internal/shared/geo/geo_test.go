package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Gunung Ledang summit (2.3773, 102.6077) to Muar town (2.0442, 102.5689) ~ 37 km
	d := HaversineKm(2.3773, 102.6077, 2.0442, 102.5689)
	if d < 30 || d > 45 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineZero(t *testing.T) {
	if d := HaversineKm(1.8571, 103.0726, 1.8571, 103.0726); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}
