package rtos

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// abiVersion is incremented whenever a wire layout below changes,
// following the same discipline the teacher's CPU.Serialize uses.
const abiVersion = 1

// taskInfoWireSize is the byte length of TaskInfo.MarshalBinary's
// output: 1 version + 1 state + 4 pid + MaxNameLen name + 4 time.
const taskInfoWireSize = 1 + 1 + 4 + MaxNameLen + 4

// MarshalBinary encodes t in the fixed layout spec.md §6 names for the
// ps syscall's user buffer.
func (t TaskInfo) MarshalBinary() ([]byte, error) {
	buf := make([]byte, taskInfoWireSize)
	buf[0] = abiVersion
	buf[1] = byte(t.State)
	be := binary.BigEndian
	be.PutUint32(buf[2:], uint32(t.PID))
	putFixedName(buf[6:6+MaxNameLen], t.Name)
	be.PutUint32(buf[6+MaxNameLen:], t.Time)
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (t *TaskInfo) UnmarshalBinary(buf []byte) error {
	if len(buf) < taskInfoWireSize {
		return errors.New("rtos: TaskInfo buffer too small")
	}
	if buf[0] != abiVersion {
		return errors.New("rtos: unsupported TaskInfo wire version")
	}
	be := binary.BigEndian
	t.State = State(buf[1])
	t.PID = TaskEntry(be.Uint32(buf[2:]))
	t.Name = readFixedName(buf[6 : 6+MaxNameLen])
	t.Time = be.Uint32(buf[6+MaxNameLen:])
	return nil
}

// semaphoreInfoWireSize is the byte length of
// SemaphoreInformation.MarshalBinary's output: 1 version + MaxNameLen
// name + 2 count + 2 waiting + 4*MaxWaitQueue queue entries.
const semaphoreInfoWireSize = 1 + MaxNameLen + 2 + 2 + 4*MaxWaitQueue

// MarshalBinary encodes s in the fixed layout spec.md §6 names for the
// ipcs syscall's user buffer.
func (s SemaphoreInformation) MarshalBinary() ([]byte, error) {
	buf := make([]byte, semaphoreInfoWireSize)
	buf[0] = abiVersion
	be := binary.BigEndian
	off := 1
	putFixedName(buf[off:off+MaxNameLen], s.Name)
	off += MaxNameLen
	be.PutUint16(buf[off:], s.Count)
	off += 2
	be.PutUint16(buf[off:], s.WaitingTasksNumber)
	off += 2
	for i := 0; i < MaxWaitQueue; i++ {
		be.PutUint32(buf[off:], s.WaitQueue[i])
		off += 4
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (s *SemaphoreInformation) UnmarshalBinary(buf []byte) error {
	if len(buf) < semaphoreInfoWireSize {
		return errors.New("rtos: SemaphoreInformation buffer too small")
	}
	if buf[0] != abiVersion {
		return errors.New("rtos: unsupported SemaphoreInformation wire version")
	}
	be := binary.BigEndian
	off := 1
	s.Name = readFixedName(buf[off : off+MaxNameLen])
	off += MaxNameLen
	s.Count = be.Uint16(buf[off:])
	off += 2
	s.WaitingTasksNumber = be.Uint16(buf[off:])
	off += 2
	for i := 0; i < MaxWaitQueue; i++ {
		s.WaitQueue[i] = be.Uint32(buf[off:])
		off += 4
	}
	return nil
}

// putFixedName copies name into a MaxNameLen-byte field, truncating
// and zero-padding as needed (spec.md §6: 16-byte fixed string).
func putFixedName(dst []byte, name string) {
	n := copy(dst, name)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// readFixedName reads a NUL-terminated (or fully-populated) fixed-width
// name field back into a Go string.
func readFixedName(src []byte) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(src[:n])
}
