//go:build !linux && !windows

package runtime

import "golang.org/x/sys/unix"

// newWakeupChannel creates a non-blocking pipe pair for wake-up
// notifications on non-Linux unix targets, matching
// _wakeup_fds_init in original_source/src/async.c.
func newWakeupChannel() (*wakeupChannel, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, err
	}
	return &wakeupChannel{read: fds[0], write: fds[1]}, nil
}
