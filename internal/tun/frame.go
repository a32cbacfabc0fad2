package tun

import (
	"encoding/binary"
	"fmt"
)

// PrefixLen is the size of the packet-info header some tunnel drivers
// require in front of each L3 frame: 2 bytes of flags (always zero) plus 2
// bytes of protocol in network byte order.
const PrefixLen = 4

// ProtocolResolver maps a Protocol to the platform's packet-info protocol
// field. It returns ErrPacketProtoUnsupported for anything other than
// IPv4/IPv6, and ErrConfigUnsupported where the platform never implements
// packet-info framing at all (Windows).
type ProtocolResolver func(Protocol) (uint16, error)

// defaultResolver is assigned per-platform by platformInfo (see frame_*.go).
var defaultResolver ProtocolResolver

func init() {
	_, defaultResolver = platformInfo()
}

// FillPacketInfo writes the 4-byte packet-info prefix into dst[0:4]. The
// protocol is inferred from dst[4:] — the payload is assumed to start
// immediately after the prefix — per spec: position 0 is still zero at this
// point, so inferring from it would always yield "Other" and fail; reading
// at the payload position (offset 4) is the corrected behavior.
func FillPacketInfo(dst []byte) error {
	return FillPacketInfoWith(defaultResolver, dst)
}

// FillPacketInfoWith is FillPacketInfo parameterized over the protocol
// mapping, so platform behavior can be exercised without build tags in tests.
func FillPacketInfoWith(resolve ProtocolResolver, dst []byte) error {
	if len(dst) <= PrefixLen {
		return fmt.Errorf("tun: packet-info prefix needs %d bytes plus payload, got %d", PrefixLen, len(dst))
	}
	proto := InferProto(dst[PrefixLen:])
	v, err := resolve(proto)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint16(dst[0:2], 0)
	binary.BigEndian.PutUint16(dst[2:4], v)
	return nil
}

// IntoBytes produces the bytes that should be handed to the tunnel write
// sink for packet p: the packet-info prefix plus payload when hasPacketInfo
// is set, or the bare payload otherwise. Panics if p's payload offset is
// less than PrefixLen, since that would require an allocation the spec
// forbids (invariant I3).
func IntoBytes(p *Packet, hasPacketInfo bool) ([]byte, error) {
	off := p.PayloadOffset()
	if off < PrefixLen {
		panic("tun: payload offset below packet-info prefix length")
	}
	if !hasPacketInfo {
		return p.rawFrom(off), nil
	}
	buf := p.rawFrom(off - PrefixLen)
	if err := FillPacketInfo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
