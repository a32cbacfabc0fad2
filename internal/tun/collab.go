package tun

import (
	"context"
	"net/netip"
)

// IfConfigurer is the platform interface-configuration helper: IP add/
// remove, routes, link up/down, and a readiness poll. It is an external
// collaborator per spec; ExecIfConfigurer (ifconfig_linux.go) is the one
// concrete backend this module ships.
type IfConfigurer interface {
	WaitInterfaceShow(ctx context.Context, name string) error
	SetLinkStatus(ctx context.Context, name string, up bool) error
	AddIPv4IP(ctx context.Context, name string, ip netip.Addr, cidr uint8) error
	RemoveIP(ctx context.Context, name string, ip *netip.Addr) error
	AddIPv4Route(ctx context.Context, name string, ip netip.Addr, cidr uint8) error
	SetMTU(ctx context.Context, name string, mtu int) error
}

// NamespaceGuard is the network-namespace guard: a scoped token that pins
// the current execution context to a named network namespace while held.
// It is an external collaborator; NoopNamespaceGuard is the default used
// where namespace isolation is not in play.
type NamespaceGuard interface {
	Guard(ctx context.Context) (release func(), err error)
}

// NoopNamespaceGuard does not change namespace; it exists so VirtualNic can
// be constructed and tested without a real namespace facility.
type NoopNamespaceGuard struct{}

func (NoopNamespaceGuard) Guard(ctx context.Context) (func(), error) {
	return func() {}, nil
}
