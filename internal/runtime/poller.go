//go:build !windows

package runtime

import "golang.org/x/sys/unix"

// watchedFD is one entry of the scheduler's watched-fd table:
// an fd, the events requested on it, and the events returned by the last
// poll.
type watchedFD struct {
	fd      int
	events  int16
	revents int16
}

// pollfdTable is a contiguous array of watchedFD records consumed by the
// multiplexer. Slot 0 is always the wakeup channel's read end.
type pollfdTable struct {
	entries []watchedFD
}

func newPollfdTable(wakeupReadFD int) *pollfdTable {
	return &pollfdTable{
		entries: []watchedFD{{fd: wakeupReadFD, events: unix.POLLIN}},
	}
}

// wait blocks in poll(2) for up to timeoutMS milliseconds, or until a
// watched fd becomes ready. This is the direct, faithful equivalent of the
// C original's `poll()` call in _async_main_loop, using the same
// golang.org/x/sys/unix dependency already in use elsewhere in this module.
func (t *pollfdTable) wait(timeoutMS int) error {
	raw := make([]unix.PollFd, len(t.entries))
	for i, e := range t.entries {
		raw[i] = unix.PollFd{Fd: int32(e.fd), Events: e.events}
	}
	_, err := unix.Poll(raw, timeoutMS)
	for i := range t.entries {
		t.entries[i].revents = raw[i].Revents
	}
	if err == unix.EINTR {
		return nil
	}
	return err
}

// wakeupReady reports whether slot 0 (the wakeup channel) signalled
// readability on the last wait.
func (t *pollfdTable) wakeupReady() bool {
	return len(t.entries) > 0 && t.entries[0].revents&unix.POLLIN != 0
}
