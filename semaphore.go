package rtos

// semaphore is one counting-semaphore slot with a fixed-depth FIFO
// wait queue (spec.md §3). Index 0 is reserved ("null") and is never
// handed out by CreateSemaphore-equivalent boot wiring; indices 1..4
// carry the fixed names in BuiltinSemaphoreNames.
type semaphore struct {
	name      string
	count     uint16
	queue     [MaxWaitQueue]int // TCB table indices, head at 0
	queueSize uint16
}

// SemaphoreInformation is the ABI-stable record returned by the ipcs
// syscall (spec.md §6). WaitQueue holds TCB table indices, matching
// the reference's "queue: [task_index;5]" (spec.md §3), not task pids.
type SemaphoreInformation struct {
	Name               string
	Count              uint16
	WaitingTasksNumber uint16
	WaitQueue          [MaxWaitQueue]uint32
}

func (s *semaphore) info() SemaphoreInformation {
	info := SemaphoreInformation{
		Name:               s.name,
		Count:              s.count,
		WaitingTasksNumber: s.queueSize,
	}
	for i := uint16(0); i < s.queueSize; i++ {
		info.WaitQueue[i] = uint32(s.queue[i])
	}
	return info
}

// enqueue appends taskIdx to the FIFO. Returns false if the queue is
// full; per spec.md §7 this is silently ignored by the caller, kernel
// state is left unchanged.
func (s *semaphore) enqueue(taskIdx int) bool {
	if s.queueSize >= MaxWaitQueue {
		return false
	}
	s.queue[s.queueSize] = taskIdx
	s.queueSize++
	return true
}

// dequeue removes and returns the head of the FIFO. Callers must check
// queueSize > 0 first.
func (s *semaphore) dequeue() int {
	head := s.queue[0]
	copy(s.queue[:s.queueSize-1], s.queue[1:s.queueSize])
	s.queueSize--
	return head
}

// remove splices taskIdx out of the FIFO wherever it sits, used by
// destroy/kill (spec.md §4.7, §9 REDESIGN: find the index, shift the
// tail left by one, decrement queueSize exactly once — not inside the
// shifting loop, which is the bug the reference source carries).
func (s *semaphore) remove(taskIdx int) {
	pos := -1
	for i := uint16(0); i < s.queueSize; i++ {
		if s.queue[i] == taskIdx {
			pos = int(i)
			break
		}
	}
	if pos < 0 {
		return
	}
	copy(s.queue[pos:s.queueSize-1], s.queue[pos+1:s.queueSize])
	s.queueSize--
}
