package rtos

// arenaBase is where the reference places its stack arena: 4 KiB above
// the SRAM base at 0x20000000. The allocator only uses offsets within
// the arena; classify relies on the absolute value lying above the
// flash window at the bottom of the address space.
const arenaBase uint32 = 0x20000000 + 4*1024

// stackAllocator hands out 1 KiB-aligned, size-rounded stack ranges
// from the fixed arena (spec.md §4.2). Tasks are packed back to back
// in creation order; a killed task's subregions are never reclaimed
// for another task (spec.md Non-goals), only reused by restarting the
// same task into its original slot.
type stackAllocator struct {
	nextSubregion uint32 // cursor into ArenaSubregions
}

// roundToSubregions returns ceil(bytes/SubregionSize).
func roundToSubregions(bytes uint32) uint32 {
	return (bytes + SubregionSize - 1) / SubregionSize
}

// alloc reserves n consecutive subregions, returning the base
// subregion index, the resulting spInit (top-of-stack word address),
// and the SRD mask covering those subregions. Returns ok=false if the
// arena cannot satisfy the request (spec.md §4.2(c)).
func (a *stackAllocator) alloc(stackBytes uint32) (base uint32, spInit uint32, srd uint32, ok bool) {
	n := roundToSubregions(stackBytes)
	if a.nextSubregion+n > ArenaSubregions {
		return 0, 0, 0, false
	}

	base = a.nextSubregion
	a.nextSubregion += n

	top := arenaBase + (base+n)*SubregionSize
	spInit = top - 1

	srd = srdMaskFor(base, n)
	return base, spInit, srd, true
}

// srdMaskFor builds the 32-bit SRD mask for a task occupying n
// subregions starting at base, per spec.md §4.2's formula: the mask has
// exactly n consecutive bits set, positioned at the task's subregion
// range within the arena (invariant 2 in spec.md §3).
func srdMaskFor(base, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return ((uint32(1) << n) - 1) << base
}
