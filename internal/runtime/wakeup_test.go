package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeupChannelSignalAndDrain(t *testing.T) {
	w, err := newWakeupChannel()
	require.NoError(t, err)
	defer w.close()

	table := newPollfdTable(w.read)

	require.NoError(t, w.signal())
	require.NoError(t, table.wait(0))
	assert.True(t, table.wakeupReady())

	w.drain()

	require.NoError(t, table.wait(0))
	assert.False(t, table.wakeupReady(), "drain must leave the channel unreadable")
}

func TestWakeupChannelSignalWhileFullIsAbsorbed(t *testing.T) {
	w, err := newWakeupChannel()
	require.NoError(t, err)
	defer w.close()

	// Repeated signalling while already signalled must never error: the
	// scheduler is already going to wake up.
	for i := 0; i < 8; i++ {
		require.NoError(t, w.signal())
	}
	w.drain()
}
