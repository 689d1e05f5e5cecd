//go:build windows

package runtime

import "errors"

// ErrUnsupportedPlatform is returned on platforms where the poll(2)-based
// multiplexer has no equivalent wired up. The original C runtime is POSIX
// only (poll.h, unistd.h); this runtime treats platform concerns as abstract
// contracts, not assembly", so Windows support is left as a contract this
// build cannot satisfy rather than guessed at.
var ErrUnsupportedPlatform = errors.New("goasync: runtime requires a unix-like platform (poll/eventfd)")

type watchedFD struct {
	fd      int
	events  int16
	revents int16
}

type pollfdTable struct{}

func newPollfdTable(wakeupReadFD int) *pollfdTable { return &pollfdTable{} }

func (t *pollfdTable) wait(timeoutMS int) error { return ErrUnsupportedPlatform }

func (t *pollfdTable) wakeupReady() bool { return false }

type wakeupChannel struct {
	read  int
	write int
}

func newWakeupChannel() (*wakeupChannel, error) { return nil, ErrUnsupportedPlatform }

func (w *wakeupChannel) signal() error { return ErrUnsupportedPlatform }

func (w *wakeupChannel) drain() {}

func (w *wakeupChannel) close() {}
