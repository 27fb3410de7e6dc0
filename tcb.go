package rtos

// TaskEntry identifies a task by its entry address, exactly as the
// reference firmware uses the address a task begins execution at as
// its pid: stable, unique among non-Invalid slots, and comparable.
type TaskEntry uintptr

// State is a TCB's position in its lifecycle (spec.md §3 Lifecycles).
type State uint8

const (
	Invalid State = iota
	Unrun
	Ready
	Delayed
	Blocked
	Killed
)

// String renders a State for logs and the ps syscall.
func (s State) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Unrun:
		return "unrun"
	case Ready:
		return "ready"
	case Delayed:
		return "delayed"
	case Blocked:
		return "blocked"
	case Killed:
		return "killed"
	default:
		return "unknown"
	}
}

// SemID identifies a semaphore table slot. 0 is the reserved null
// semaphore; valid user semaphores are 1..MaxSemaphores-1.
type SemID uint8

// noSemaphore is the blockingSemaphore sentinel for a task not blocked
// on anything.
const noSemaphore SemID = 0xFF

// tcb is one Task Control Block slot (spec.md §3).
//
// sp is a simulated stack pointer: this package does not execute real
// machine code, so sp only ever holds spInit (set at creation and
// rewound by restart); a simulated switch does not record into it. It exists so the
// data model mirrors the reference layout exactly (see SPEC_FULL.md §1).
type tcb struct {
	state State
	entry TaskEntry
	name  string

	spInit     uint32
	sp         uint32
	stackSize  uint32
	stackBase  uint32 // first subregion index this task owns, within ArenaSubregions
	stackCount uint32 // number of subregions owned

	priority uint8
	ticks    uint32

	srd uint32

	time uint32 // microseconds accumulated in the current window

	blockingSemaphore SemID

	// firstDispatch counts transitions out of Unrun, for tests that
	// assert restart idempotence (spec.md §8 property 7).
	firstDispatch uint32
}

// TaskInfo is the ABI-stable record returned by the ps syscall
// (spec.md §6).
type TaskInfo struct {
	State State
	PID   TaskEntry
	Name  string
	Time  uint32
}

// info returns a TaskInfo snapshot with everything except Time, which
// the caller must fill in from the last-window CPU-usage snapshot
// (Kernel.cpuUsage) rather than the still-accumulating live counter.
func (t *tcb) info() TaskInfo {
	return TaskInfo{
		State: t.state,
		PID:   t.entry,
		Name:  t.name,
	}
}
