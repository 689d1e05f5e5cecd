//go:build !windows

package runtime

import (
	"golang.org/x/sys/unix"
)

// wakeupChannel is a self-pipe that lets worker goroutines unblock the
// scheduler's poll wait. The read end always occupies slot 0
// of the scheduler's watched-fd table. Construction is platform-specific
// (see wakeup_linux.go and wakeup_unix.go): Linux backs both ends with a
// single eventfd, other unix targets fall back to a non-blocking pipe2 pair,
// mirroring the split joeycumines-go-utilpkg/eventloop draws between
// wakeup_linux.go and its darwin/windows counterparts.
type wakeupChannel struct {
	read  int
	write int
}

// signal writes an 8-byte value of 1 to the write end: on the eventfd path
// this increments the counter by one, on the pipe path it is eight bytes of
// pipe data. If the channel is already full, the signal is
// absorbed: the scheduler will wake up anyway, so EAGAIN is not an error
// here. Any other failure is returned as-is for the caller to retry.
func (w *wakeupChannel) signal() error {
	buf := [8]byte{1}
	_, err := unix.Write(w.write, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

// drain reads and discards until the read end would block.
func (w *wakeupChannel) drain() {
	var buf [128]byte
	for {
		n, err := unix.Read(w.read, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (w *wakeupChannel) close() {
	if w.read >= 0 {
		_ = unix.Close(w.read)
	}
	if w.write >= 0 && w.write != w.read {
		_ = unix.Close(w.write)
	}
}
