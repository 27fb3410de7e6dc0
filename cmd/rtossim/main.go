// Command rtossim is a thin developer harness over package rtos: it
// boots a Kernel, wires up a handful of demo tasks mirroring spec.md's
// S1-S3 scenarios, drives ticks by hand, and prints ps/ipcs tables. It
// is not the production UART shell — that collaborator stays out of
// scope for this module.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nmxmxh/go-rtos-core"
)

var (
	ticks      int
	priorityOn bool
	verbose    bool
)

// newRootFlagSet builds the persistent flag set shared by every
// subcommand. Built directly on pflag rather than cobra's sugar methods
// so it can be unit-tested and reused independent of the command tree.
func newRootFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("rtossim", pflag.ContinueOnError)
	fs.IntVar(&ticks, "ticks", 20, "number of SysTick interrupts to simulate")
	fs.BoolVar(&priorityOn, "priority", false, "start in strict-priority scheduling mode")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug-level kernel logging")
	return fs
}

func main() {
	root := &cobra.Command{
		Use:   "rtossim",
		Short: "Simulate the RTOS core scheduler/semaphore/MPU model",
	}
	root.PersistentFlags().AddFlagSet(newRootFlagSet())

	root.AddCommand(
		&cobra.Command{
			Use:   "rr",
			Short: "Run the S1 yield-rotation demo under round-robin scheduling",
			RunE:  runS1,
		},
		&cobra.Command{
			Use:   "pingpong",
			Short: "Run the S2 semaphore ping-pong demo",
			RunE:  runS2,
		},
		&cobra.Command{
			Use:   "priority",
			Short: "Run the S3 priority-preemption demo",
			RunE:  runS3,
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newDemoKernel() *rtos.Kernel {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	k := rtos.NewKernel(rtos.WithLogger(log))
	if priorityOn {
		k.SetSchedulerMode(true)
	}
	return k
}

// runS1 creates tasks A, B, C and drives yields, printing each
// dispatch — the round-robin rotation spec.md §8 S1 describes.
func runS1(cmd *cobra.Command, args []string) error {
	k := newDemoKernel()
	for i, name := range []string{"a", "b", "c"} {
		if _, err := k.CreateThread(rtos.TaskEntry(0x1000+i), name, 5, 1024); err != nil {
			return err
		}
	}
	for i := 0; i < ticks; i++ {
		k.Yield()
		k.ServicePendSV(0)
		pid, ok := k.CurrentPID()
		if !ok {
			continue
		}
		fmt.Printf("dispatch %2d: pid=%#x\n", i, pid)
	}
	printPS(k)
	return nil
}

// runS2 wires a producer/consumer pair around the "resource" semaphore
// and drives ticks, reporting the final semaphore state — spec.md §8 S2.
// One task is dispatched before the loop so each Wait has a current
// task to act for.
func runS2(cmd *cobra.Command, args []string) error {
	k := newDemoKernel()
	if _, err := k.CreateThread(0x2000, "producer", 5, 1024); err != nil {
		return err
	}
	if _, err := k.CreateThread(0x2001, "consumer", 5, 1024); err != nil {
		return err
	}
	k.Yield()
	k.ServicePendSV(0)
	for i := 0; i < ticks; i++ {
		if err := k.Post(4); err != nil {
			return err
		}
		if err := k.Wait(4); err != nil {
			return err
		}
		k.Tick()
	}
	printIPCS(k)
	return nil
}

// runS3 creates a low-priority (7) and a high-priority (0) task under
// strict-priority scheduling, drives ticks, services each pending
// switch (charging 2500 µs to low and 100 µs to high per dispatch), and
// prints ps. The high task does not sleep or post here, so it stays
// Ready and low is never dispatched. ps reports the last completed
// CPUWindowTicks window, so runs shorter than that print zero times.
func runS3(cmd *cobra.Command, args []string) error {
	priorityOn = true
	k := newDemoKernel()

	low, err := k.CreateThread(0x3000, "low", rtos.MaxPriority, 1024)
	if err != nil {
		return err
	}
	high, err := k.CreateThread(0x3001, "high", 0, 1024)
	if err != nil {
		return err
	}

	for i := 0; i < ticks; i++ {
		k.Tick()
		pid, ok := k.CurrentPID()
		if ok && pid == low {
			k.ServicePendSV(2500)
		} else if ok && pid == high {
			k.ServicePendSV(100)
		} else {
			k.ServicePendSV(0)
		}
	}
	printPS(k)
	return nil
}

func printPS(k *rtos.Kernel) {
	fmt.Println("PID\t\tNAME\t\tSTATE\t\tTIME")
	for _, info := range k.Enumerate() {
		fmt.Printf("%#08x\t%-12s\t%-8s\t%d\n", info.PID, info.Name, info.State, info.Time)
	}
}

func printIPCS(k *rtos.Kernel) {
	fmt.Println("SEM\t\tCOUNT\t\tWAITING")
	for i, info := range k.IPCS() {
		if i == 0 {
			continue // reserved null slot
		}
		fmt.Printf("%-12s\t%d\t\t%d\n", info.Name, info.Count, info.WaitingTasksNumber)
	}
}
