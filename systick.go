package rtos

// Tick drives the 1 kHz SysTick ISR (spec.md §4.6): delayed tasks'
// tick counters are decremented and woken at zero, a CPU-usage window
// snapshot is taken every CPUWindowTicks ticks, and — if preemption is
// enabled — a context switch is requested.
func (k *Kernel) Tick() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.halted {
		return
	}

	for i := range k.tasks {
		t := &k.tasks[i]
		if t.state != Delayed {
			continue
		}
		// Guard against uint32 underflow: a task whose counter is
		// already 0 (e.g. Sleep(0)) must wake immediately rather than
		// decrement past zero.
		if t.ticks == 0 {
			t.state = Ready
			continue
		}
		t.ticks--
		if t.ticks == 0 {
			t.state = Ready
		}
	}

	k.windowTicks++
	if k.windowTicks >= CPUWindowTicks {
		k.snapshotCPUUsageLocked()
		k.windowTicks = 0
	}

	if k.preemptEnabled {
		k.pend()
	}
}

// snapshotCPUUsageLocked copies live per-task time into the public
// cpu_usage_time table and zeros the live counters (spec.md §4.6 #2).
// Called from Tick, which callers must treat as atomic with respect to
// ServicePendSV — spec.md §5 notes the snapshot-and-clear "cannot be
// preempted by PendSV" because SysTick has higher exception priority.
func (k *Kernel) snapshotCPUUsageLocked() {
	for i := range k.tasks {
		if k.tasks[i].state == Invalid {
			k.cpuUsage[i] = 0
			continue
		}
		k.cpuUsage[i] = k.tasks[i].time
		k.tasks[i].time = 0
	}
}

// CPUUsage returns the most recent 2-second-window snapshot, indexed
// by TCB slot. Enumerate skips Invalid slots, so its order does not in
// general match these indices — use CPUUsageFor to look a specific
// task up by pid.
func (k *Kernel) CPUUsage() [MaxTasks]uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cpuUsage
}

// CPUUsageFor returns the last snapshot window's CPU time for entry,
// or false if no such task exists.
func (k *Kernel) CPUUsageFor(entry TaskEntry) (uint32, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.findByEntry(entry)
	if idx < 0 {
		return 0, false
	}
	return k.cpuUsage[idx], true
}
