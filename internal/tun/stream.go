package tun

import (
	"context"
	"log"

	"meshtun/internal/metrics"
)

// ReadStream is a lazy, finite sequence of inbound packets pulled from the
// tunnel device's read half. Go's blocking I/O stands in for the reference
// design's poll-based suspension: each Next call performs (at most) one
// device read to completion rather than buffering a partial packet across
// polls, since there is no intermediate "would block" state to resume from.
type ReadStream struct {
	half *readHalf
}

// Next pulls the next inbound packet. It returns (nil, nil) when the
// sequence has terminated — either because the device reported EOF (0
// bytes) or because of an I/O error, which is logged and otherwise
// swallowed per spec: no partial packet is ever yielded on error.
func (s *ReadStream) Next(ctx context.Context) (*Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkt := NewPacket()
	n, err := s.half.read(pkt.MutableTail())
	if err != nil {
		log.Printf("[tun] read stream error: %v", err)
		metrics.ObserveTunError("read")
		return nil, nil
	}
	if n == 0 {
		return nil, nil
	}
	pkt.SetLength(n)
	metrics.ObserveTunPacket("rx", n)
	return pkt, nil
}
