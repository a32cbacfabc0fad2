package tun

import (
	"context"
	"testing"
)

func TestReadStreamNext(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	dev.queueRead([]byte{0x45, 1, 2, 3})
	rh, wh, _ := split(dev)
	_ = wh

	stream := &ReadStream{half: rh}
	pkt, err := stream.Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt == nil {
		t.Fatalf("expected a packet")
	}
	if got := pkt.Payload(); len(got) != 4 || got[0] != 0x45 {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestReadStreamNext_EOFTerminates(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	rh, _, _ := split(dev)

	stream := &ReadStream{half: rh}
	pkt, err := stream.Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt != nil {
		t.Fatalf("expected nil packet on stream termination")
	}
}

func TestReadStreamNext_CanceledContext(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	rh, _, _ := split(dev)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := &ReadStream{half: rh}
	if _, err := stream.Next(ctx); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestWriteSinkWrite(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	_, wh, _ := split(dev)
	sink := &WriteSink{half: wh}

	n, err := sink.Write(context.Background(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if got := dev.writtenBytes(); len(got) != 3 {
		t.Fatalf("written = %v", got)
	}
}

func TestWriteSinkWriteVectored(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	_, wh, _ := split(dev)
	sink := &WriteSink{half: wh}

	n, err := sink.WriteVectored(context.Background(), [][]byte{{1, 2}, {3, 4, 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("n = %d, want 5", n)
	}
	if !sink.IsWriteVectored() {
		t.Fatalf("expected vectored-write capability")
	}
}

func TestTunnelWritePacket(t *testing.T) {
	dev := newFakeDevice("tun-test0")
	rh, wh, closeFn := split(dev)
	tun := &Tunnel{
		Read:          &ReadStream{half: rh},
		Write:         &WriteSink{half: wh},
		hasPacketInfo: false,
		ifname:        "tun-test0",
		closeFn:       closeFn,
	}

	p := NewPacket()
	copy(p.MutableTail(), []byte{0x45, 0, 0, 0, 9, 9})
	p.SetLength(6)

	if err := tun.WritePacket(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dev.writtenBytes(); len(got) != 6 {
		t.Fatalf("written = %v", got)
	}
	if err := tun.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
