package rtos

import "github.com/pkg/errors"

// Syscall numbers, matching spec.md §4.5's table. Not used for dispatch
// in this package (there is no trapped SVC instruction to decode — see
// SPEC_FULL.md §1), but kept as named constants since they are part of
// the ABI spec.md §6 documents.
const (
	SyscallYield   = 7
	SyscallSleep   = 8
	SyscallWait    = 9
	SyscallPost    = 10
	SyscallSched   = 11
	SyscallPreempt = 12
	SyscallReboot  = 13
	SyscallPidof   = 14
	SyscallKill    = 15
	SyscallResume  = 16
	SyscallIPCS    = 17
	SyscallPS      = 18
)

// Yield implements syscall 7: trigger a context switch without
// changing the current task's state.
func (k *Kernel) Yield() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pend()
}

// Sleep implements syscall 8: store ticks in the current task's TCB,
// move it to Delayed, and request a switch. A task that sleeps for n
// ticks is never redispatched before n SysTick interrupts have fired
// (spec.md §8 property 5), since Tick only moves a Delayed task back to
// Ready once its counter reaches zero.
func (k *Kernel) Sleep(ticks uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.current < 0 {
		return
	}
	t := &k.tasks[k.current]
	t.ticks = ticks
	t.state = Delayed
	k.pend()
}

// Wait implements syscall 9: decrement a positive count immediately,
// or enqueue the current task on the semaphore's FIFO and block.
// An invalid semaphore id returns a wrapped ErrInvalidSemID; a full
// wait queue is silently ignored. Kernel state is left unchanged in
// both cases.
func (k *Kernel) Wait(sem SemID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if int(sem) <= 0 || int(sem) >= MaxSemaphores {
		return errors.Wrapf(ErrInvalidSemID, "wait(%d)", sem)
	}
	if k.current < 0 {
		return nil
	}

	s := &k.sems[sem]
	if s.count > 0 {
		s.count--
		return nil
	}

	if !s.enqueue(k.current) {
		// Full queue: the caller's wait is dropped, task stays Ready.
		return nil
	}
	k.tasks[k.current].blockingSemaphore = sem
	k.tasks[k.current].state = Blocked
	k.pend()
	return nil
}

// Post implements syscall 10: increment count; if it becomes 1 and the
// FIFO is non-empty, wake the head (count goes back to 0, the woken
// task becomes Ready) and request a switch. An invalid semaphore id
// returns a wrapped ErrInvalidSemID and leaves kernel state unchanged.
func (k *Kernel) Post(sem SemID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if int(sem) <= 0 || int(sem) >= MaxSemaphores {
		return errors.Wrapf(ErrInvalidSemID, "post(%d)", sem)
	}

	s := &k.sems[sem]
	s.count++
	if s.count == 1 && s.queueSize > 0 {
		woken := s.dequeue()
		s.count--
		k.tasks[woken].blockingSemaphore = noSemaphore
		k.tasks[woken].state = Ready
		k.pend()
	}
	return nil
}

// SetSchedulerMode implements syscall 11: switch between RoundRobin and
// StrictPriority. Honoring this flag is the only contract spec.md §4.3
// requires of an implementation's default scheduling mode.
func (k *Kernel) SetSchedulerMode(priorityOn bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if priorityOn {
		k.sched.mode = StrictPriority
	} else {
		k.sched.mode = RoundRobin
	}
}

// SetPreemption implements syscall 12: enable or disable SysTick-driven
// preemption. With it disabled, cooperative threads only lose the CPU
// at an explicit syscall (spec.md §9).
func (k *Kernel) SetPreemption(enabled bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.preemptEnabled = enabled
}

// RebootFunc issues a system reset. spec.md §6 states all state is
// rebuilt from boot and nothing persists; the reference calls this
// collaborator to trigger a hardware reset, so the core's contribution
// is only to invoke it — Reboot here calls the supplied function and
// leaves kernel state untouched, since a real reset discards it anyway.
type RebootFunc func()

// Reboot implements syscall 13 by invoking fn, the platform-specific
// reset collaborator (spec.md §1's clock/PLL and reset logic are out of
// scope for this package).
func (k *Kernel) Reboot(fn RebootFunc) {
	if fn != nil {
		fn()
	}
}

// PidOf implements syscall 14: scan task names for an exact match and
// return its pid. Unknown names leave *out untouched per spec.md §7 —
// modeled here as returning ok=false instead of mutating a pointer.
func (k *Kernel) PidOf(name string) (pid TaskEntry, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.findByName(name)
	if idx < 0 {
		return 0, false
	}
	return k.tasks[idx].entry, true
}

// Kill implements syscall 15 (spec.md §4.7 destroy_thread / §4.5 #15).
func (k *Kernel) Kill(pid TaskEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.destroyThreadLocked(pid)
}

// Resume implements syscall 16: find a Killed task by name and restart
// it (spec.md §4.7 restart_thread / §4.5 #16). Unknown names are a
// no-op per spec.md §7.
func (k *Kernel) Resume(name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.findByName(name)
	if idx < 0 {
		return nil
	}
	if k.tasks[idx].state != Killed {
		return nil
	}
	k.restartLocked(idx)
	return nil
}
