package rtos

import "github.com/sirupsen/logrus"

// pend marks a context-switch request pending. Every task-switch
// request — yield, sleep, wait, a post that wakes someone, a SysTick
// preemption, or MPU-fault recovery — goes through here (spec.md §4.4):
// the actual switch happens only when ServicePendSV is next invoked,
// mirroring "the processor tail-chains into PendSV."
func (k *Kernel) pend() {
	k.pendSV = true
}

// PendingSwitch reports whether a context switch has been requested
// but not yet serviced.
func (k *Kernel) PendingSwitch() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pendSV
}

// ServicePendSV performs the queued context switch (spec.md §4.4): it
// accounts the outgoing task's CPU time, asks the scheduler for the
// next task, reprograms the MPU SRD mask, and — if the incoming task
// has never run — transitions it from Unrun to Ready. elapsedMicros is
// the time charged to the outgoing task since it was last dispatched,
// normally sourced from the free-running microsecond timer spec.md §1
// keeps out of scope; callers supply it (Tick only requests the switch).
//
// A no-op if no switch is pending.
func (k *Kernel) ServicePendSV(elapsedMicros uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.servicePendSVLocked(elapsedMicros)
}

func (k *Kernel) servicePendSVLocked(elapsedMicros uint32) {
	if !k.pendSV || k.halted {
		return
	}
	k.pendSV = false

	if k.current >= 0 && k.tasks[k.current].state != Killed {
		k.tasks[k.current].time += elapsedMicros
	}

	next := k.sched.next(&k.tasks)
	if next < 0 {
		// Invariant 1 guarantees this cannot happen: the idle task is
		// always Ready or Unrun. Leaving current unchanged is the
		// least-surprising behavior if it ever does.
		k.log.Error("scheduler found no dispatchable task")
		return
	}

	k.current = next
	t := &k.tasks[next]
	k.mpu.program(t.srd)

	if t.state == Unrun {
		t.state = Ready
		t.firstDispatch++
		k.log.WithFields(logrus.Fields{"task": t.name, "pid": t.entry}).Debug("first dispatch")
	}
}

// Access simulates a load/store/fetch through the MPU (SPEC_FULL.md
// §1's stand-in for a real bus cycle). If addr falls in the SRAM arena
// and the corresponding subregion is disabled in the current task's
// SRD mask, this is an MPU fault: spec.md §4.8 classifies it, kills the
// current task, and requests a switch; otherwise it is a no-op success.
func (k *Kernel) Access(addr uint32, sz Size, op Access) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return nil
	}

	if classify(addr, arenaBase) != regionSRAM {
		return nil // flash and background are unconditionally permitted
	}
	sub := subregionIndex(addr, arenaBase)
	if sub < 0 || !k.mpu.subregionDisabled(sub) {
		return nil
	}

	fault := &MPUFault{Addr: addr, Size: sz, Op: op, Subreg: sub}
	if k.current >= 0 {
		t := &k.tasks[k.current]
		k.logFault(t, fault)
		t.state = Killed
		k.pend()
	}
	return fault
}
