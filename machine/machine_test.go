package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoot_HaltedGuest(t *testing.T) {
	m := New()
	b := m.Bindings()

	err := m.Boot(func() {
		b.PrintLine("hello from the guest")
		b.Terminate()
	})

	require.NoError(t, err)
	assert.True(t, m.Halted())
	assert.Equal(t, []string{"hello from the guest"}, m.SerialLines())
}

func TestBoot_EntryReturns(t *testing.T) {
	m := New()

	err := m.Boot(func() {})

	assert.ErrorIs(t, err, ErrEntryReturned)
	assert.False(t, m.Halted())
}

func TestBoot_GuestFault(t *testing.T) {
	m := New()
	b := m.Bindings()

	err := m.Boot(func() {
		b.PrintLine("about to fault")
		panic("bus error")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "guest fault")
	assert.Contains(t, err.Error(), "bus error")
	assert.False(t, m.Halted())
	// Output written before the fault stays readable.
	assert.Equal(t, []string{"about to fault"}, m.SerialLines())
}

func TestTerminateNeverReturns(t *testing.T) {
	m := New()
	b := m.Bindings()

	err := m.Boot(func() {
		b.Terminate()
		b.PrintLine("unreachable")
	})

	require.NoError(t, err)
	assert.Empty(t, m.SerialLines())
}

func TestSerialText(t *testing.T) {
	m := New()
	b := m.Bindings()

	require.NoError(t, m.Boot(func() {
		b.PrintLine("one")
		b.PrintLine("two")
		b.Terminate()
	}))

	assert.Equal(t, "one\ntwo\n", m.SerialText())
}

func TestSerialText_Empty(t *testing.T) {
	assert.Equal(t, "", New().SerialText())
}

func TestSerialLines_ReturnsCopy(t *testing.T) {
	m := New()
	m.serial.WriteLine("original")

	lines := m.SerialLines()
	lines[0] = "mutated"

	assert.Equal(t, []string{"original"}, m.SerialLines())
}
