package engine

import (
	"reflect"
	"testing"
)

func ringSeqs(r *fillRing) []uint64 {
	var out []uint64
	for _, ev := range r.events() {
		out = append(out, ev.Seq)
	}
	return out
}

func TestFillRingWraps(t *testing.T) {
	r := newFillRing(3)
	if got := r.events(); len(got) != 0 {
		t.Fatalf("fresh ring has %d events", len(got))
	}

	for seq := uint64(1); seq <= 2; seq++ {
		r.push(Event{Seq: seq})
	}
	if got := ringSeqs(r); !reflect.DeepEqual(got, []uint64{1, 2}) {
		t.Fatalf("partial ring = %v", got)
	}

	for seq := uint64(3); seq <= 5; seq++ {
		r.push(Event{Seq: seq})
	}
	// Capacity 3, oldest first.
	if got := ringSeqs(r); !reflect.DeepEqual(got, []uint64{3, 4, 5}) {
		t.Fatalf("wrapped ring = %v", got)
	}
}

func TestFillRingMinCapacity(t *testing.T) {
	r := newFillRing(0)
	r.push(Event{Seq: 1})
	r.push(Event{Seq: 2})
	if got := ringSeqs(r); !reflect.DeepEqual(got, []uint64{2}) {
		t.Fatalf("zero-capacity ring = %v, want clamped to 1", got)
	}
}

func TestAvgPrice(t *testing.T) {
	tests := []struct {
		name             string
		notional, filled int64
		lastPrice        int64
		want             int64
	}{
		{"no fill", 0, 0, 0, 0},
		{"exact", 200, 2, 100, 100},
		{"round down", 301, 3, 100, 100},
		{"round up", 302, 3, 101, 101},
		{"half tie toward higher resting", 21, 2, 11, 11},
		{"half tie toward lower resting", 21, 2, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := avgPrice(tt.notional, tt.filled, tt.lastPrice); got != tt.want {
				t.Fatalf("avgPrice(%d, %d, %d) = %d, want %d", tt.notional, tt.filled, tt.lastPrice, got, tt.want)
			}
		})
	}
}
