//go:build darwin || ios

package tun

import "golang.org/x/sys/unix"

// platformInfo returns this platform's packet-info posture. macOS (and iOS)
// tunnel drivers supply/consume the 4-byte prefix themselves, so we mirror
// it on every frame.
func platformInfo() (bool, ProtocolResolver) {
	return true, func(p Protocol) (uint16, error) {
		switch {
		case p.IsIPv4():
			return uint16(unix.AF_INET), nil
		case p.IsIPv6():
			return uint16(unix.AF_INET6), nil
		default:
			return 0, ErrPacketProtoUnsupported
		}
	}
}
