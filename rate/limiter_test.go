package rate

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	interval := 10 * time.Millisecond
	l := NewLimiter(1, Every(interval), time.Hour)

	client := "session-a"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	expected := []bool{true, false, true, true, false, false}
	offsets := []time.Duration{0, time.Millisecond, 11 * time.Millisecond, 22 * time.Millisecond, 23 * time.Millisecond, 24 * time.Millisecond}
	for i, exp := range expected {
		if got := l.allowAt(client, start.Add(offsets[i])); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
	}
}

func TestLimiterWithBurst(t *testing.T) {
	interval := 100 * time.Millisecond
	l := NewLimiter(10, Every(interval), time.Hour)

	client := "session-b"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		if !l.allowAt(client, now) {
			t.Fatalf("burst request %d rejected", i)
		}
	}
	if l.allowAt(client, now) {
		t.Fatal("request beyond burst allowed")
	}
	if !l.allowAt(client, now.Add(interval)) {
		t.Fatal("request after refill rejected")
	}
	if !l.allowAt("session-c", now) {
		t.Fatal("other clients must not share a bucket")
	}
}

func TestLimiterSweep(t *testing.T) {
	l := NewLimiter(1, Every(time.Second), time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	l.allowAt("idle", now)
	l.allowAt("busy", now.Add(50*time.Second))

	l.sweep(now.Add(90 * time.Second))

	if _, ok := l.clients["idle"]; ok {
		t.Error("idle client was not forgotten")
	}
	if _, ok := l.clients["busy"]; !ok {
		t.Error("busy client was forgotten")
	}
}
