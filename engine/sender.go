package engine

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// send hands a finalized frame to the link-layer writer. Replay at
// line rate routinely fills transmit buffers on commodity hardware, so
// buffer-full is retried without delay until the write lands; there is
// no higher-level backpressure signal at this layer. Any other failure
// aborts the run.
func (e *Engine) send(w LinkWriter, frame []byte) error {
	for {
		err := w.WritePacketData(frame)
		if err == nil {
			e.stats.countSent(len(frame))
			return nil
		}
		if errors.Is(err, unix.ENOBUFS) {
			e.stats.countRetry()
			continue
		}
		return errors.Wrapf(err, "link-layer write to %s failed", w.Name())
	}
}
