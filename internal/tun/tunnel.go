package tun

import (
	"context"
	"fmt"

	"meshtun/internal/metrics"
)

// Tunnel wires a ReadStream and WriteSink onto one split device. It is the
// C3+C4 pair produced by VirtualNic.CreateDev.
type Tunnel struct {
	Read          *ReadStream
	Write         *WriteSink
	hasPacketInfo bool
	ifname        string
	closeFn       func() error
}

// Ifname is the kernel-assigned interface name this tunnel was created on.
func (t *Tunnel) Ifname() string { return t.ifname }

// WritePacket frames p (C2) and pushes the resulting bytes to the write
// sink (C4) in one call, matching the data-flow diagram in the spec:
// peer manager -> framed byte sink -> framer -> write sink -> kernel fd.
func (t *Tunnel) WritePacket(ctx context.Context, p *Packet) error {
	b, err := IntoBytes(p, t.hasPacketInfo)
	if err != nil {
		metrics.ObserveTunError("frame")
		return fmt.Errorf("%w: %v", ErrPacketProtoUnsupported, err)
	}
	n, err := t.Write.Write(ctx, b)
	if err != nil {
		metrics.ObserveTunError("write")
		return fmt.Errorf("%w: %v", ErrDeviceIO, err)
	}
	metrics.ObserveTunPacket("tx", n)
	return nil
}

// Close tears down both halves of the underlying device together.
func (t *Tunnel) Close() error { return t.closeFn() }
