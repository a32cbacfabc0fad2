package tun

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/songgao/water"
)

// opener creates the underlying kernel device for a given interface name.
// It is a function value rather than an interface so tests can substitute an
// in-memory device without touching the host's TUN driver.
type opener func(name string) (device, error)

func defaultOpener(name string) (device, error) {
	cfg := water.Config{DeviceType: water.TUN}
	cfg.Name = name
	iface, err := water.New(cfg)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// VirtualNic is C5: the single entry point a caller uses to stand up one
// virtual network interface and obtain its framed Tunnel. It owns the
// device's lifecycle but delegates all platform-specific interface
// configuration to an injected IfConfigurer, and all namespace pinning to an
// injected NamespaceGuard.
type VirtualNic struct {
	devName   string
	queueNum  int
	ifconfig  IfConfigurer
	nsGuard   NamespaceGuard
	openDev   opener
	hasPktInf bool

	ifname string
	ready  bool
}

// NewVirtualNic builds a VirtualNic bound to a concrete IfConfigurer. A
// NamespaceGuard may be nil, in which case NoopNamespaceGuard is used.
func NewVirtualNic(ifconfig IfConfigurer, nsGuard NamespaceGuard) *VirtualNic {
	if nsGuard == nil {
		nsGuard = NoopNamespaceGuard{}
	}
	hasPktInf, _ := platformInfo()
	return &VirtualNic{
		queueNum:  1,
		ifconfig:  ifconfig,
		nsGuard:   nsGuard,
		openDev:   defaultOpener,
		hasPktInf: hasPktInf,
	}
}

// WithOpener overrides the device opener, for tests.
func (n *VirtualNic) WithOpener(o opener) *VirtualNic {
	n.openDev = o
	return n
}

// SetDevName sets the kernel-requested interface name. An empty name lets
// the OS assign one.
func (n *VirtualNic) SetDevName(name string) { n.devName = name }

// SetQueueNum sets the number of device queues. Only a single queue is
// supported (C5 Non-goal: multi-queue TUN), so any other value is rejected.
func (n *VirtualNic) SetQueueNum(q int) error {
	if q != 1 {
		return fmt.Errorf("%w: queue_num %d, only 1 is supported", ErrConfigUnsupported, q)
	}
	n.queueNum = q
	return nil
}

// CreateDev opens the kernel device, waits for the interface to appear, and
// returns the resulting Tunnel. It is the only place a sharedDevice gets
// split into its read/write halves.
func (n *VirtualNic) CreateDev(ctx context.Context) (*Tunnel, error) {
	release, err := n.nsGuard.Guard(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: namespace guard: %v", ErrDeviceCreate, err)
	}
	defer release()

	dev, err := n.openDev(n.devName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceCreate, err)
	}

	name := dev.Name()
	if err := n.ifconfig.WaitInterfaceShow(ctx, name); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("%w: %v", ErrInterfaceNotReady, err)
	}

	rh, wh, closeFn := split(dev)
	n.ifname = name
	n.ready = true

	return &Tunnel{
		Read:          &ReadStream{half: rh},
		Write:         &WriteSink{half: wh},
		hasPacketInfo: n.hasPktInf,
		ifname:        name,
		closeFn:       closeFn,
	}, nil
}

// Ifname returns the kernel-assigned interface name. It is only valid after
// CreateDev has succeeded; calling it earlier is a caller bug and panics,
// matching the reference design's assumption that no caller observes a NIC
// before it exists.
func (n *VirtualNic) Ifname() string {
	if !n.ready {
		panic("tun: Ifname called before CreateDev")
	}
	return n.ifname
}

// LinkUp brings the interface administratively up.
func (n *VirtualNic) LinkUp(ctx context.Context) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.SetLinkStatus(ctx, n.ifname, true)
	})
}

// LinkDown brings the interface administratively down.
func (n *VirtualNic) LinkDown(ctx context.Context) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.SetLinkStatus(ctx, n.ifname, false)
	})
}

// AddIP assigns an IPv4 address with the given CIDR prefix length.
func (n *VirtualNic) AddIP(ctx context.Context, ip netip.Addr, cidr uint8) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.AddIPv4IP(ctx, n.ifname, ip, cidr)
	})
}

// RemoveIP removes an assigned address, or all of them when ip is nil.
func (n *VirtualNic) RemoveIP(ctx context.Context, ip *netip.Addr) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.RemoveIP(ctx, n.ifname, ip)
	})
}

// AddRoute installs a route through this interface.
func (n *VirtualNic) AddRoute(ctx context.Context, ip netip.Addr, cidr uint8) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.AddIPv4Route(ctx, n.ifname, ip, cidr)
	})
}

// SetMTU sets the interface's maximum transmission unit.
func (n *VirtualNic) SetMTU(ctx context.Context, mtu int) error {
	return n.withNamespace(ctx, func(ctx context.Context) error {
		return n.ifconfig.SetMTU(ctx, n.ifname, mtu)
	})
}

func (n *VirtualNic) withNamespace(ctx context.Context, fn func(context.Context) error) error {
	release, err := n.nsGuard.Guard(ctx)
	if err != nil {
		return fmt.Errorf("%w: namespace guard: %v", ErrInterfaceConfig, err)
	}
	defer release()
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInterfaceConfig, err)
	}
	return nil
}
