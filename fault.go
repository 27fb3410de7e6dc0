package rtos

// FatalFault is a bus, usage, or hard fault (spec.md §4.8): unlike an
// MPU fault, these are not attributable to a single offending task and
// spec.md treats them as fatal to the whole system.
type FatalFault struct {
	Kind   string // "bus", "usage", or "hard"
	Detail string
}

func (f *FatalFault) Error() string {
	return "rtos: fatal " + f.Kind + " fault: " + f.Detail
}

// HandleFatalFault implements spec.md §4.8's bus/usage/hard fault path:
// dump diagnostics and halt. Halting is modeled as setting Kernel.halted,
// which Tick and ServicePendSV both refuse to act on afterward — the
// simulated equivalent of spinning forever in the fault handler.
func (k *Kernel) HandleFatalFault(kind, detail string) *FatalFault {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.halted = true
	k.logFatalFault(kind, detail)
	return &FatalFault{Kind: kind, Detail: detail}
}

// Halted reports whether a fatal fault has halted the kernel.
func (k *Kernel) Halted() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.halted
}
