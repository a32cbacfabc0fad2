//go:build linux || android

package tun

import "golang.org/x/sys/unix"

// platformInfo returns this platform's packet-info posture. Linux (and
// Android) disable the driver's own packet-info header and rely on
// protocol inference instead, so has_packet_info is always false here.
func platformInfo() (bool, ProtocolResolver) {
	return false, func(p Protocol) (uint16, error) {
		switch {
		case p.IsIPv4():
			return uint16(unix.ETH_P_IP), nil
		case p.IsIPv6():
			return uint16(unix.ETH_P_IPV6), nil
		default:
			return 0, ErrPacketProtoUnsupported
		}
	}
}
