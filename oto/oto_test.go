package oto_test

import (
	"testing"

	"github.com/vsariola/mensura/oto"
)

func TestInterleave(t *testing.T) {
	got := oto.Interleave([]float32{1, 2}, 2)
	expected := []float32{1, 1, 2, 2}
	if len(got) != len(expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("got %v, expected %v", got, expected)
		}
	}
	if mono := oto.Interleave([]float32{1, 2}, 1); len(mono) != 2 {
		t.Fatalf("got %v, expected the mono buffer back", mono)
	}
}
