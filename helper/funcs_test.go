package helper

import "testing"

func TestMax(t *testing.T) {
	expected := 13.12

	max := Max(13.12, 2.01, 6.4, 13.11, 1.01, 0.11)
	if max != expected {
		t.Fatalf("expected %v got %v", expected, max)
	}
}

func TestMin(t *testing.T) {
	expected := 1.01

	min := Min(13.12, 2.01, 6.4, 13.11, 1.01, 1.02)
	if min != expected {
		t.Fatalf("expected %v got %v", expected, min)
	}
}

func TestMaxMinInts(t *testing.T) {
	if got := Max(3, 7, 1); got != 7 {
		t.Fatalf("expected 7 got %v", got)
	}
	if got := Min(3, 7, 1); got != 1 {
		t.Fatalf("expected 1 got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(50, 0, 35); got != 35 {
		t.Fatalf("expected clamp to cap at 35, got %v", got)
	}
	if got := Clamp(-5, 0, 35); got != 0 {
		t.Fatalf("expected clamp to floor at 0, got %v", got)
	}
	if got := Clamp(10, 0, 35); got != 10 {
		t.Fatalf("expected value within range to pass through unchanged, got %v", got)
	}
}

func TestHasObjectChanged(t *testing.T) {
	type pair struct{ A, B int }

	changed, err := HasObjectChanged(pair{1, 2}, pair{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatalf("expected identical objects to report unchanged")
	}

	changed, err = HasObjectChanged(pair{1, 2}, pair{1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected differing objects to report changed")
	}
}
