package rtos

import "testing"

func TestHandleFatalFaultHalts(t *testing.T) {
	k := NewKernel()
	err := k.HandleFatalFault("bus", "write to unmapped peripheral")
	if err == nil {
		t.Fatal("expected a non-nil *FatalFault")
	}
	if !k.Halted() {
		t.Error("Halted() = false after HandleFatalFault")
	}
	if err.Kind != "bus" {
		t.Errorf("Kind = %q, want %q", err.Kind, "bus")
	}
}

func TestServicePendSVNoopAfterHalt(t *testing.T) {
	k := NewKernel()
	k.pend()
	k.ServicePendSV(0) // dispatch idle before halting
	before := k.current

	k.HandleFatalFault("usage", "undefined instruction")
	k.pend()
	k.ServicePendSV(0)
	if k.current != before {
		t.Errorf("current changed after halt: %d -> %d", before, k.current)
	}
}

func TestAccessNoopAfterHalt(t *testing.T) {
	k := NewKernel()
	k.HandleFatalFault("hard", "double fault")
	if err := k.Access(arenaBase, Byte, AccessWrite); err != nil {
		t.Errorf("Access returned error after halt: %v", err)
	}
}
