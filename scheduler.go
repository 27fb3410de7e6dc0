package rtos

// SchedMode selects the scheduling discipline (spec.md §4.3). The
// reference initializes to RoundRobin; spec.md permits either default
// provided sched(priorityOn bool) is honored, which SetSchedulerMode
// implements.
type SchedMode uint8

const (
	RoundRobin SchedMode = iota
	StrictPriority
)

// scheduler holds the round-robin cursor and the priority level table
// over the same fixed TCB array the kernel owns.
//
// priNext is spec.md §4.3's "ordered sequence ... filled in ascending
// priority order at boot" flattened into one array; bandStart/bandLen
// locate each priority's slice within it, and bandCursor rotates
// insertion order within a band. Dispatch always prefers the lowest
// populated band number (highest priority) with a dispatchable task,
// which is what gives strict-priority mode its preemption guarantee —
// equal-priority tasks only ever rotate against each other.
type scheduler struct {
	mode SchedMode

	rrCursor int

	priNext    [MaxTasks]int
	bandStart  [MaxPriority + 1]int
	bandLen    [MaxPriority + 1]int
	bandCursor [MaxPriority + 1]int
}

// rebuildPriorityTable fills pri_next by iterating priority 0..7 and,
// within each priority, by ascending TCB slot index (spec.md §4.3).
// Called at boot and again after every successful CreateThread, since
// each new slot changes which indices a band must cover; spec.md §4.7
// states SetPriority never triggers this rebuild, so a live priority
// change does not reorder dispatch until the next thread is created.
func (s *scheduler) rebuildPriorityTable(tasks *[MaxTasks]tcb) {
	pos := 0
	for p := 0; p <= MaxPriority; p++ {
		s.bandStart[p] = pos
		n := 0
		for i := range tasks {
			if tasks[i].state != Invalid && int(tasks[i].priority) == p {
				s.priNext[pos] = i
				pos++
				n++
			}
		}
		s.bandLen[p] = n
		s.bandCursor[p] = 0
	}
	for ; pos < MaxTasks; pos++ {
		s.priNext[pos] = -1
	}
}

// dispatchable reports whether a TCB slot is one the scheduler may
// select: Ready (already run at least once) or Unrun (about to run for
// the first time).
func dispatchable(s State) bool {
	return s == Ready || s == Unrun
}

// next selects the next task to run (spec.md §8 property 1:
// scheduler liveness — returns in bounded time provided at least one
// slot is Ready or Unrun, which NewKernel's idle task guarantees).
func (s *scheduler) next(tasks *[MaxTasks]tcb) int {
	switch s.mode {
	case StrictPriority:
		return s.nextPriority(tasks)
	default:
		return s.nextRoundRobin(tasks)
	}
}

func (s *scheduler) nextRoundRobin(tasks *[MaxTasks]tcb) int {
	for i := 0; i < MaxTasks; i++ {
		s.rrCursor = (s.rrCursor + 1) % MaxTasks
		if dispatchable(tasks[s.rrCursor].state) {
			return s.rrCursor
		}
	}
	return -1
}

// nextPriority walks each priority band from highest (0) to lowest
// (7); within the first band holding a dispatchable task, it rotates
// cyclically from that band's last position (spec.md §4.3: "equal-
// priority tasks rotate round-robin in insertion order"). Starvation
// of lower-priority bands while a higher band stays non-empty is
// intentional (spec.md §4.3).
func (s *scheduler) nextPriority(tasks *[MaxTasks]tcb) int {
	for p := 0; p <= MaxPriority; p++ {
		n := s.bandLen[p]
		if n == 0 {
			continue
		}
		start := s.bandStart[p]
		for i := 0; i < n; i++ {
			s.bandCursor[p] = (s.bandCursor[p] + 1) % n
			idx := s.priNext[start+s.bandCursor[p]]
			if idx >= 0 && dispatchable(tasks[idx].state) {
				return idx
			}
		}
	}
	return -1
}
