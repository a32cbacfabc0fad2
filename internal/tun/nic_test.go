package tun

import (
	"context"
	"net/netip"
	"testing"
)

// recordingIfConfigurer records the sequence of calls made to it so tests
// can assert ordering without a real kernel interface.
type recordingIfConfigurer struct {
	calls []string
}

func (r *recordingIfConfigurer) WaitInterfaceShow(ctx context.Context, name string) error {
	r.calls = append(r.calls, "wait:"+name)
	return nil
}

func (r *recordingIfConfigurer) SetLinkStatus(ctx context.Context, name string, up bool) error {
	if up {
		r.calls = append(r.calls, "up:"+name)
	} else {
		r.calls = append(r.calls, "down:"+name)
	}
	return nil
}

func (r *recordingIfConfigurer) AddIPv4IP(ctx context.Context, name string, ip netip.Addr, cidr uint8) error {
	r.calls = append(r.calls, "addip:"+name)
	return nil
}

func (r *recordingIfConfigurer) RemoveIP(ctx context.Context, name string, ip *netip.Addr) error {
	r.calls = append(r.calls, "rmip:"+name)
	return nil
}

func (r *recordingIfConfigurer) AddIPv4Route(ctx context.Context, name string, ip netip.Addr, cidr uint8) error {
	r.calls = append(r.calls, "route:"+name)
	return nil
}

func (r *recordingIfConfigurer) SetMTU(ctx context.Context, name string, mtu int) error {
	r.calls = append(r.calls, "mtu:"+name)
	return nil
}

func TestVirtualNic_CreateDevAndConfigure(t *testing.T) {
	ifc := &recordingIfConfigurer{}
	nic := NewVirtualNic(ifc, nil)
	nic.WithOpener(func(name string) (device, error) {
		return newFakeDevice("meshtun0"), nil
	})

	tun, err := nic.CreateDev(context.Background())
	if err != nil {
		t.Fatalf("CreateDev: %v", err)
	}
	if tun.Ifname() != "meshtun0" {
		t.Fatalf("ifname = %q, want meshtun0", tun.Ifname())
	}
	if nic.Ifname() != "meshtun0" {
		t.Fatalf("nic.Ifname() = %q, want meshtun0", nic.Ifname())
	}

	addr := netip.MustParseAddr("10.0.0.1")
	if err := nic.LinkUp(context.Background()); err != nil {
		t.Fatalf("LinkUp: %v", err)
	}
	if err := nic.AddIP(context.Background(), addr, 24); err != nil {
		t.Fatalf("AddIP: %v", err)
	}
	if err := nic.AddRoute(context.Background(), addr, 24); err != nil {
		t.Fatalf("AddRoute: %v", err)
	}

	want := []string{"wait:meshtun0", "up:meshtun0", "addip:meshtun0", "route:meshtun0"}
	if len(ifc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ifc.calls, want)
	}
	for i := range want {
		if ifc.calls[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q", i, ifc.calls[i], want[i])
		}
	}
}

func TestVirtualNic_SetQueueNumRejectsMultiQueue(t *testing.T) {
	nic := NewVirtualNic(&recordingIfConfigurer{}, nil)
	if err := nic.SetQueueNum(2); err == nil {
		t.Fatalf("expected error for queue_num=2")
	}
	if err := nic.SetQueueNum(1); err != nil {
		t.Fatalf("unexpected error for queue_num=1: %v", err)
	}
}

func TestVirtualNic_IfnamePanicsBeforeCreate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Ifname before CreateDev")
		}
	}()
	nic := NewVirtualNic(&recordingIfConfigurer{}, nil)
	_ = nic.Ifname()
}
