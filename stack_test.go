package rtos

import "testing"

func TestRoundToSubregions(t *testing.T) {
	cases := []struct {
		bytes uint32
		want  uint32
	}{
		{0, 0},
		{1, 1},
		{1024, 1},
		{1025, 2},
		{2048, 2},
	}
	for _, c := range cases {
		if got := roundToSubregions(c.bytes); got != c.want {
			t.Errorf("roundToSubregions(%d) = %d, want %d", c.bytes, got, c.want)
		}
	}
}

func TestStackAllocatorPacksBackToBack(t *testing.T) {
	var a stackAllocator

	base1, sp1, srd1, ok := a.alloc(1024)
	if !ok || base1 != 0 {
		t.Fatalf("first alloc: base=%d ok=%v, want base=0 ok=true", base1, ok)
	}
	if srd1 != 0x1 {
		t.Errorf("first alloc srd = %#x, want 0x1", srd1)
	}
	wantSP1 := arenaBase + 1024 - 1
	if sp1 != wantSP1 {
		t.Errorf("first alloc spInit = %#x, want %#x", sp1, wantSP1)
	}

	base2, _, srd2, ok := a.alloc(2048)
	if !ok || base2 != 1 {
		t.Fatalf("second alloc: base=%d ok=%v, want base=1 ok=true", base2, ok)
	}
	if srd2 != 0x6 { // bits 1,2
		t.Errorf("second alloc srd = %#x, want 0x6", srd2)
	}
}

func TestStackAllocatorExhaustion(t *testing.T) {
	var a stackAllocator
	for i := 0; i < ArenaSubregions; i++ {
		if _, _, _, ok := a.alloc(SubregionSize); !ok {
			t.Fatalf("alloc %d unexpectedly failed", i)
		}
	}
	if _, _, _, ok := a.alloc(SubregionSize); ok {
		t.Fatal("alloc beyond arena capacity unexpectedly succeeded")
	}
}

func TestSRDMaskForDisjointRanges(t *testing.T) {
	if got := srdMaskFor(0, 4); got != 0xF {
		t.Errorf("srdMaskFor(0,4) = %#x, want 0xF", got)
	}
	if got := srdMaskFor(4, 4); got != 0xF0 {
		t.Errorf("srdMaskFor(4,4) = %#x, want 0xF0", got)
	}
}
