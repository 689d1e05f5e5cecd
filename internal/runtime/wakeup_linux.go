//go:build linux

package runtime

import "golang.org/x/sys/unix"

// newWakeupChannel creates an eventfd for wake-up notifications on Linux,
// used as both the read and write end (wakeup_linux.go in
// joeycumines-go-utilpkg/eventloop is the direct model).
func newWakeupChannel() (*wakeupChannel, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &wakeupChannel{read: fd, write: fd}, nil
}
