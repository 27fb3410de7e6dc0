// Package rtos implements the core of a small preemptive real-time
// operating system: a round-robin/strict-priority scheduler, a
// simulated supervisor-call and pendable-supervisor context-switch
// path, counting semaphores with FIFO wait queues, a thread lifecycle
// manager, and a per-thread MPU-style stack isolation layer.
//
// The reference target is an ARMv7-M microcontroller (TM4C123,
// Cortex-M4F). Because this package has no CPU to run user code on, a
// task is identified by an opaque entry value rather than by runnable
// code (see TaskEntry), and register-level context save/restore is
// represented as explicit state transitions driven through Kernel
// methods rather than assembly trampolines.
package rtos
