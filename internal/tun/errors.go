package tun

import "errors"

// Error kinds surfaced by the virtual NIC bridge. Fatal ones (ConfigUnsupported,
// DeviceCreate, InterfaceNotReady) propagate to the caller of CreateDev; the rest
// are either absorbed per-packet (PacketProtoUnsupported) or surfaced per-op
// (InterfaceConfig, DeviceIO).
var (
	ErrConfigUnsupported      = errors.New("tun: unsupported configuration")
	ErrDeviceCreate           = errors.New("tun: device create failed")
	ErrInterfaceNotReady      = errors.New("tun: interface did not become ready")
	ErrInterfaceConfig        = errors.New("tun: interface configuration failed")
	ErrPacketProtoUnsupported = errors.New("tun: packet is neither IPv4 nor IPv6")
	ErrDeviceIO               = errors.New("tun: device io error")
)
