//go:build unix

package term

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/zjrosen/rawline/internal/log"
)

// lock takes an exclusive flock on fd so two readers never share the
// terminal. Descriptors that cannot be locked are used unlocked.
func lock(fd int) (func(), error) {
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) {
			log.Debug(log.CatTerm, "terminal lock unsupported", "fd", fd, "error", err)
			return func() {}, nil
		}
		return nil, err
	}
	return func() {
		if err := unix.Flock(fd, unix.LOCK_UN); err != nil {
			log.Warn(log.CatTerm, "failed to unlock terminal", "fd", fd, "error", err)
		}
	}, nil
}
