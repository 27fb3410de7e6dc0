package rtos

import "github.com/sirupsen/logrus"

// diagLogger is the "diagnostic channel" spec.md §6 names as a
// collaborator interface: the core formats structured entries for
// boot, lifecycle transitions, and fault dumps, and leaves the sink
// (UART, file, stdout) to the caller.
func newDiagLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: false})
	return log
}

// logFault emits the MPU fault dump: the offending task's name and pid,
// the fault address, the access kind, the subregion index, and the
// task's SRD mask. It logs no register values (MSP, PSP, fault status,
// or a saved register frame); this model has none.
func (k *Kernel) logFault(t *tcb, f *MPUFault) {
	k.log.WithFields(logrus.Fields{
		"task":   t.name,
		"pid":    t.entry,
		"addr":   f.Addr,
		"op":     accessName(f.Op),
		"subreg": f.Subreg,
		"srd":    t.srd,
	}).Warn("mpu fault: killing task")
}

// logFatalFault emits the dump for bus/usage/hard faults, which
// spec.md §4.8 treats as fatal: dump then halt.
func (k *Kernel) logFatalFault(kind string, detail string) {
	k.log.WithFields(logrus.Fields{
		"kind":   kind,
		"detail": detail,
	}).Error("fatal fault: halting")
}
