package tun

// Reserve is the fixed space reserved in front of every inbound packet's
// payload, sized to hold a peer-manager header prepended later without a
// realloc.
const Reserve = 2048

// maxReadSize bounds a single device read. Real L3 MTUs are well under this.
const maxReadSize = 2048

// Packet is the tunnel-packet container: a single contiguous buffer holding
// Reserve bytes of headroom followed by up to maxReadSize bytes of payload.
// A Packet is owned exclusively from the moment it is read until it is
// handed off to the framed channel; it is never cloned.
type Packet struct {
	buf           []byte
	payloadOffset int
	length        int
}

// NewPacket allocates a fresh packet with the standard reserve.
func NewPacket() *Packet {
	return &Packet{
		buf:           make([]byte, Reserve+maxReadSize),
		payloadOffset: Reserve,
	}
}

// MutableTail returns the buffer region a device read should fill.
func (p *Packet) MutableTail() []byte { return p.buf[Reserve:] }

// SetLength records how many bytes a device read placed into MutableTail,
// and resets the payload offset to the start of that region.
func (p *Packet) SetLength(n int) {
	p.length = n
	p.payloadOffset = Reserve
}

// PayloadOffset returns the current start of payload within buf. It can be
// moved below Reserve by a caller that prepends its own header (e.g. a peer
// manager frame) into the reserved headroom, as long as it never drops
// below PrefixLen (invariant I3).
func (p *Packet) PayloadOffset() int { return p.payloadOffset }

// SetPayloadOffset moves the payload start, e.g. after a caller writes a
// header into the reserve in place.
func (p *Packet) SetPayloadOffset(off int) { p.payloadOffset = off }

// Payload returns the packet's current payload bytes.
func (p *Packet) Payload() []byte { return p.buf[p.payloadOffset : Reserve+p.length] }

// rawFrom returns buf[from : Reserve+length], used by the framer to slice
// out exactly what should be written to the device.
func (p *Packet) rawFrom(from int) []byte { return p.buf[from : Reserve+p.length] }
