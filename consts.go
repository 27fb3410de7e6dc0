package rtos

// Kernel-wide limits fixed at build time, matching the reference
// firmware's static tables (no dynamic heap after boot).
const (
	MaxTasks      = 12 // size of the TCB table
	MaxSemaphores = 5  // size of the semaphore table (slot 0 is reserved)
	MaxWaitQueue  = 5  // depth of each semaphore's FIFO wait queue
	MaxNameLen    = 16 // bytes of a task/semaphore name field; a name that fills it has no terminator

	MinPriority = 0 // highest priority
	MaxPriority = 7 // lowest priority the scheduler ever consults
)

// Stack arena geometry. Four 8 KiB SRAM MPU regions, each divided into
// eight 1 KiB subregions, give a 32-bit SRD mask exactly wide enough to
// describe per-subregion access for the whole arena.
const (
	SubregionSize    = 1024
	SubregionsPerReg = 8
	SRAMRegionCount  = 4
	SRAMRegionSize   = SubregionsPerReg * SubregionSize // bytes covered by one MPU SRAM region
	ArenaSize        = SRAMRegionCount * SRAMRegionSize
	ArenaSubregions  = SRAMRegionCount * SubregionsPerReg
)

// SysTick parameters. The reference runs at 40 MHz and reloads SysTick
// every 39,999 cycles to produce a 1 kHz tick; that reload value is an
// external-clock contract (spec.md §6) and has no bearing on this
// software model's bookkeeping, but is retained as a named constant for
// ABI documentation purposes.
const (
	TickHz               = 1000
	SysTickReloadAt40MHz = 39999
	CPUWindowTicks       = 2000 // 2 seconds at 1 kHz
)

// Reserved semaphore names, fixed at build time per spec.md §3.
const (
	SemNull        = "null"
	SemKeyPressed  = "keyPressed"
	SemKeyReleased = "keyReleased"
	SemFlashReq    = "flashReq"
	SemResource    = "resource"
)

// BuiltinSemaphoreNames lists semaphores 0..4 in slot order; slot 0 is
// the reserved "null" semaphore (spec.md §3).
var BuiltinSemaphoreNames = [MaxSemaphores]string{
	0: SemNull,
	1: SemKeyPressed,
	2: SemKeyReleased,
	3: SemFlashReq,
	4: SemResource,
}
