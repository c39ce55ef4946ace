// Package machine simulates the devices of the OS-less guest target that a
// test build runs on. It provides the two capability bindings the harness
// requires - a serial console for print_line and a power controller for
// terminate - and captures everything the guest reports so a host-side test
// can compare the stream byte for byte.
//
// The simulator is device-level, not instruction-level: it models what the
// harness can observe of the target (a line-oriented serial port and a halt
// latch), nothing more.
package machine

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/roach88/baretest"
)

// Boot error values.
var (
	// ErrEntryReturned means the entry point handed control back instead
	// of ending through the terminate binding.
	ErrEntryReturned = errors.New("entry point returned without terminating")

	// ErrNoHalt means the guest goroutine ended without the power
	// controller ever latching halt.
	ErrNoHalt = errors.New("guest exited without halting")
)

// Machine is one simulated guest target: a serial console and a power
// controller. Each Machine runs at most one guest program; create a fresh
// one per Boot for isolated, reproducible streams.
type Machine struct {
	serial SerialConsole
	power  PowerController
}

// New creates a powered-on machine with an empty serial buffer.
func New() *Machine {
	return &Machine{}
}

// Bindings exposes the machine's devices as the harness capability set.
// PrintLine appends to the serial buffer; Terminate latches halt and stops
// the guest goroutine without returning.
func (m *Machine) Bindings() baretest.Bindings {
	return baretest.Bindings{
		PrintLine: m.serial.WriteLine,
		Terminate: m.power.Halt,
	}
}

// Boot runs an entry point as the guest program and blocks until the guest
// stops. It returns nil when the guest ended through the terminate binding.
//
// A guest that returns from its entry point, raises a fault outside the
// harness, or exits without halting is a contract violation and yields an
// error; the captured serial stream remains readable either way.
func (m *Machine) Boot(entry func()) error {
	done := make(chan struct{})
	var (
		returned bool
		fault    any
	)

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				fault = r
			}
		}()
		entry()
		returned = true
	}()
	<-done

	if fault != nil {
		return fmt.Errorf("guest fault: %v", fault)
	}
	if returned {
		return ErrEntryReturned
	}
	if !m.power.Halted() {
		return ErrNoHalt
	}
	return nil
}

// Halted reports whether the power controller has latched halt.
func (m *Machine) Halted() bool {
	return m.power.Halted()
}

// SerialLines returns a copy of the captured report lines, in emission
// order.
func (m *Machine) SerialLines() []string {
	return m.serial.Lines()
}

// SerialText returns the captured stream as newline-terminated text,
// exactly as a log reader attached to the serial port would see it.
func (m *Machine) SerialText() string {
	lines := m.serial.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// SerialConsole is the line-oriented output device. The guest writes whole
// lines; the console never reorders or drops them.
type SerialConsole struct {
	mu    sync.Mutex
	lines []string
}

// WriteLine appends one line to the console buffer.
func (c *SerialConsole) WriteLine(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, text)
}

// Lines returns a copy of the buffered lines.
func (c *SerialConsole) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// PowerController is the halt device. Halt latches the halted flag and
// stops the calling goroutine without unwinding: control never returns to
// the guest, matching the terminate capability's never-return contract.
type PowerController struct {
	mu     sync.Mutex
	halted bool
}

// Halt latches halt and ends the calling goroutine. It never returns.
func (p *PowerController) Halt() {
	p.mu.Lock()
	p.halted = true
	p.mu.Unlock()
	runtime.Goexit()
}

// Halted reports whether Halt has been called.
func (p *PowerController) Halted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.halted
}
