package rtos

import "fmt"

// mpu models the six regions the reference programs at boot (spec.md
// §4.1): one background region, one flash region, and four 8 KiB SRAM
// regions whose subregions are gated per task by a 32-bit SRD mask.
//
// This package has no real bus, so region 0/1 are permissive by
// construction (background and flash are always readable, and flash is
// always executable); only the SRAM arena is subregion-checked against
// the currently-programmed mask, which is the only part of the MPU
// configuration that changes per task.
type mpu struct {
	currentSRD uint32
}

// Access is the kind of bus operation Kernel.Access simulates.
type Access uint8

const (
	AccessRead Access = iota
	AccessWrite
	AccessExecute
)

// region classifies an address into the three coarse regions spec.md
// §4.1 describes.
type region uint8

const (
	regionBackground region = iota
	regionFlash
	regionSRAM
	regionOutOfRange
)

// classify returns which MPU region addr falls into, given the base
// address the SRAM arena was placed at (stack.go's arenaBase).
func classify(addr uint32, arenaBase uint32) region {
	switch {
	case addr >= arenaBase && addr < arenaBase+ArenaSize:
		return regionSRAM
	case addr < 0x100000:
		// Reference places the flash image at the bottom of the address
		// space; anything below the 1 MiB mark that isn't SRAM is flash.
		return regionFlash
	default:
		return regionBackground
	}
}

// subregionIndex converts an SRAM address into a 0..ArenaSubregions-1
// index, or -1 if addr is outside the arena.
func subregionIndex(addr, arenaBase uint32) int {
	if addr < arenaBase || addr >= arenaBase+ArenaSize {
		return -1
	}
	return int((addr - arenaBase) / SubregionSize)
}

// program writes the 32 SRD bits for the incoming task, 8 bits per
// SRAM region (regions 2..5 in the reference's numbering). This is the
// routine spec.md §4.1 says "executes in privileged context only and
// runs in the PendSV handler immediately before resuming a user thread."
//
// srd (from srdMaskFor, via stack.alloc) has a bit set for each
// subregion the incoming task owns. The MPU's SRD field means the
// opposite — a set bit disables that subregion — so the mask actually
// programmed is the complement: every subregion the task does not own
// is disabled, isolating its stack from the rest of the arena.
func (m *mpu) program(srd uint32) {
	m.currentSRD = ^srd
}

// subregionDisabled reports whether bit k of the current SRD mask is
// set (denied to unprivileged code). Guards against the precedence bug
// spec.md §9 flags in some reference revisions by parenthesizing the
// mask test explicitly.
func (m *mpu) subregionDisabled(k int) bool {
	bit := uint32(1) << uint(k)
	return (m.currentSRD & bit) != 0
}

// MPUFault describes an access that violated the currently-programmed
// SRD mask.
type MPUFault struct {
	Addr   uint32
	Size   Size
	Op     Access
	Subreg int
}

func (f *MPUFault) Error() string {
	return fmt.Sprintf("mpu fault: %s at %#08x (subregion %d) denied by SRD mask", accessName(f.Op), f.Addr, f.Subreg)
}

func accessName(a Access) string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "access"
	}
}

// Size is the width of a simulated bus access, reused from the
// reference's addressing-mode vocabulary even though this kernel has
// no instruction decoder of its own.
type Size int

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)
