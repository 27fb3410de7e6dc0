package rtos

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// idleEntry is the reserved pid for the boot-time idle task NewKernel
// creates to satisfy invariant 1 (spec.md §3): at every quiescent point
// some Ready/Unrun task — at worst this one — exists for the scheduler
// to pick.
const idleEntry TaskEntry = ^TaskEntry(0)

// Kernel is the single process-wide kernel-state struct spec.md §9
// calls for: the TCB table, semaphore table, scheduler, MPU, current-
// task index, and CPU-usage counters, mutated only through the
// privileged methods on this type (CreateThread, the syscalls in
// syscall.go, Tick, ServicePendSV, Access).
//
// All mutation is serialized by mu, which stands in for "handler mode"
// (spec.md §5): a real target has no concurrent handler-mode code by
// construction (exception priority ordering), this package enforces
// the same exclusion with a mutex since Go has no equivalent hardware
// guarantee.
type Kernel struct {
	mu sync.Mutex

	tasks [MaxTasks]tcb
	sems  [MaxSemaphores]semaphore

	sched scheduler
	mpu   mpu
	stack stackAllocator

	current int // index into tasks of the running task

	preemptEnabled bool
	pendSV         bool
	halted         bool

	windowTicks int
	cpuUsage    [MaxTasks]uint32 // snapshot taken every CPUWindowTicks ticks

	log *logrus.Logger
}

// Option configures a Kernel at construction.
type Option func(*Kernel)

// WithLogger overrides the default diagnostic logger.
func WithLogger(l *logrus.Logger) Option {
	return func(k *Kernel) { k.log = l }
}

// NewKernel boots a Kernel: programs the semaphore names, creates the
// reserved idle task, and leaves scheduling in RoundRobin mode with
// preemption enabled, matching the reference's default configuration
// (spec.md §4.3, §4.6).
func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{
		log:            newDiagLogger(),
		preemptEnabled: true,
		current:        -1,
	}
	for i := range k.tasks {
		k.tasks[i].state = Invalid
		k.tasks[i].blockingSemaphore = noSemaphore
	}
	for i := range k.sems {
		k.sems[i].name = BuiltinSemaphoreNames[i]
	}
	for _, o := range opts {
		o(k)
	}

	if _, err := k.createThreadLocked(idleEntry, "idle", MaxPriority, SubregionSize); err != nil {
		// The arena is empty at boot; this can only fail if MaxTasks==0.
		panic(errors.Wrap(err, "rtos: failed to provision idle task"))
	}
	return k
}

// findSlot returns the index of the first Invalid TCB slot, or -1.
func (k *Kernel) findSlot() int {
	for i := range k.tasks {
		if k.tasks[i].state == Invalid {
			return i
		}
	}
	return -1
}

// findByEntry returns the index of the non-Invalid task with the given
// entry/pid, or -1.
func (k *Kernel) findByEntry(entry TaskEntry) int {
	for i := range k.tasks {
		if k.tasks[i].state != Invalid && k.tasks[i].entry == entry {
			return i
		}
	}
	return -1
}

// findByName returns the index of the first non-Invalid task with the
// given name, or -1.
func (k *Kernel) findByName(name string) int {
	for i := range k.tasks {
		if k.tasks[i].state != Invalid && k.tasks[i].name == name {
			return i
		}
	}
	return -1
}

// CreateThread allocates a TCB slot and stack range for a new task
// (spec.md §4.2). It fails if the table is full, entry already exists
// among non-Invalid slots, or the stack arena cannot satisfy the
// request; on failure the TCB table is untouched (spec.md §7).
func (k *Kernel) CreateThread(entry TaskEntry, name string, priority uint8, stackBytes uint32) (TaskEntry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.createThreadLocked(entry, name, priority, stackBytes)
}

func (k *Kernel) createThreadLocked(entry TaskEntry, name string, priority uint8, stackBytes uint32) (TaskEntry, error) {
	if k.findByEntry(entry) >= 0 {
		return 0, errors.Wrapf(ErrDuplicateEntry, "entry %#x", uintptr(entry))
	}
	slot := k.findSlot()
	if slot < 0 {
		return 0, errors.Wrap(ErrTaskTableFull, "create_thread")
	}

	base, spInit, srd, ok := k.stack.alloc(stackBytes)
	if !ok {
		return 0, errors.Wrapf(ErrStackExhausted, "requested %d bytes", stackBytes)
	}

	t := &k.tasks[slot]
	*t = tcb{
		state:             Unrun,
		entry:             entry,
		name:              name,
		spInit:            spInit,
		sp:                spInit,
		stackSize:         stackBytes,
		stackBase:         base,
		stackCount:        roundToSubregions(stackBytes),
		priority:          priority,
		srd:               srd,
		blockingSemaphore: noSemaphore,
	}

	// A new slot changes the set of indices every priority band must
	// cover, so the table is rebuilt here rather than only at boot —
	// otherwise tasks created after NewKernel are invisible to
	// nextPriority (spec.md §4.3, testable property 2).
	k.sched.rebuildPriorityTable(&k.tasks)

	k.log.WithFields(logrus.Fields{"task": name, "pid": entry, "priority": priority}).Info("thread created")
	return entry, nil
}

// DestroyThread implements spec.md §4.7's destroy_thread: splice the
// task out of any semaphore wait queue it occupies, then mark it
// Killed. Stack subregions remain reserved to the slot.
func (k *Kernel) DestroyThread(entry TaskEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.destroyThreadLocked(entry)
}

func (k *Kernel) destroyThreadLocked(entry TaskEntry) error {
	idx := k.findByEntry(entry)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownTask, "pid %#x", uintptr(entry))
	}
	t := &k.tasks[idx]
	if t.state == Blocked && t.blockingSemaphore != noSemaphore {
		k.sems[t.blockingSemaphore].remove(idx)
		t.blockingSemaphore = noSemaphore
	}
	t.state = Killed
	k.log.WithFields(logrus.Fields{"task": t.name, "pid": t.entry}).Info("thread killed")
	return nil
}

// RestartThread implements spec.md §4.7's restart_thread: rewind sp to
// spInit and move the task back to Unrun so the next dispatch
// synthesizes a fresh initial frame.
func (k *Kernel) RestartThread(entry TaskEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.findByEntry(entry)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownTask, "pid %#x", uintptr(entry))
	}
	t := &k.tasks[idx]
	if t.state != Killed {
		return errors.Wrapf(ErrNotKilled, "pid %#x state %s", uintptr(entry), t.state)
	}
	k.restartLocked(idx)
	k.log.WithFields(logrus.Fields{"task": t.name, "pid": t.entry}).Info("thread restarted")
	return nil
}

// restartLocked resets a Killed TCB back to Unrun with a fresh sp.
// Callers must already hold k.mu and have verified the slot is Killed.
func (k *Kernel) restartLocked(idx int) {
	t := &k.tasks[idx]
	t.sp = t.spInit
	t.state = Unrun
	t.blockingSemaphore = noSemaphore
}

// SetThreadPriority implements spec.md §4.7's set_thread_priority: a
// reserved, effectively no-op field update. The priority table is not
// rebuilt, per spec.md §9 Open Questions — live priority change is
// unsupported by design, not by oversight.
func (k *Kernel) SetThreadPriority(entry TaskEntry, priority uint8) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.findByEntry(entry)
	if idx < 0 {
		return errors.Wrapf(ErrUnknownTask, "pid %#x", uintptr(entry))
	}
	k.tasks[idx].priority = priority
	return nil
}

// Enumerate returns a TaskInfo snapshot for every non-Invalid task
// (the ps syscall, spec.md §4.5 #18). Time reports the last completed
// 2-second CPU-usage window (k.cpuUsage), not the still-accumulating
// live counter, matching spec.md §6's ps layout.
func (k *Kernel) Enumerate() []TaskInfo {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]TaskInfo, 0, MaxTasks)
	for i := range k.tasks {
		if k.tasks[i].state != Invalid {
			info := k.tasks[i].info()
			info.Time = k.cpuUsage[i]
			out = append(out, info)
		}
	}
	return out
}

// IPCS returns a SemaphoreInformation snapshot for every semaphore
// (spec.md §4.5 #17), including the reserved null slot.
func (k *Kernel) IPCS() []SemaphoreInformation {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]SemaphoreInformation, MaxSemaphores)
	for i := range k.sems {
		out[i] = k.sems[i].info()
	}
	return out
}

// CurrentPID returns the entry address of the running task, or false
// if the kernel has not dispatched yet.
func (k *Kernel) CurrentPID() (TaskEntry, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.current < 0 {
		return 0, false
	}
	return k.tasks[k.current].entry, true
}
