package tun

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// fakeDevice is an in-memory device double: reads are served from a queue of
// canned frames, writes accumulate into a buffer for assertions.
type fakeDevice struct {
	mu       sync.Mutex
	name     string
	readQ    [][]byte
	readErr  error
	written  bytes.Buffer
	closed   bool
}

func newFakeDevice(name string) *fakeDevice {
	return &fakeDevice{name: name}
}

func (d *fakeDevice) queueRead(b []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readQ = append(d.readQ, b)
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readErr != nil {
		return 0, d.readErr
	}
	if len(d.readQ) == 0 {
		return 0, io.EOF
	}
	b := d.readQ[0]
	d.readQ = d.readQ[1:]
	n := copy(p, b)
	return n, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, errors.New("fakeDevice: write after close")
	}
	return d.written.Write(p)
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) Name() string { return d.name }

func (d *fakeDevice) writtenBytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.written.Bytes()...)
}
