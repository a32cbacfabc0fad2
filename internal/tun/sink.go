package tun

import "context"

// WriteSink accepts outbound byte frames and pushes them to the tunnel
// device's write half. It does no buffering above what the device offers,
// and declares vectored-write capability per spec.
type WriteSink struct {
	half *writeHalf
}

// Write pushes a single frame to the device.
func (s *WriteSink) Write(ctx context.Context, b []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.half.write(b)
}

// WriteVectored writes multiple frames as one device write. The underlying
// device has no native scatter-write, so the buffers are joined first; the
// sink still advertises vectored capability so callers can use the richer
// call without special-casing it.
func (s *WriteSink) WriteVectored(ctx context.Context, bufs [][]byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	joined := make([]byte, 0, total)
	for _, b := range bufs {
		joined = append(joined, b...)
	}
	return s.half.write(joined)
}

// Flush is a no-op: there is no buffering above the device to drain.
func (s *WriteSink) Flush(ctx context.Context) error { return nil }

// Shutdown is a no-op on the sink itself; the device fd is owned jointly by
// both halves and torn down by Tunnel.Close.
func (s *WriteSink) Shutdown(ctx context.Context) error { return nil }

// IsWriteVectored reports vectored-write capability.
func (s *WriteSink) IsWriteVectored() bool { return true }
