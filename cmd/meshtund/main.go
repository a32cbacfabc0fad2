// Command meshtund runs one mesh node's virtual NIC bridge and peer-center
// coordinator.
package main

import (
	"context"
	"flag"
	"log"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"meshtun/internal/config"
	"meshtun/internal/meshtest"
	"meshtun/internal/metrics"
	"meshtun/internal/peercenter"
	"meshtun/internal/tun"
)

func main() {
	var cfgPath string
	var metricsAddr string
	flag.StringVar(&cfgPath, "c", "config.yaml", "config path")
	flag.StringVar(&metricsAddr, "metrics", "", "metrics listen address, overrides config; e.g. :9400")
	flag.Parse()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if metricsAddr != "" {
		cfg.Metrics.Listen = metricsAddr
		cfg.Metrics.Enable = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enable {
		metrics.Enable()
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Listen); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
		log.Printf("metrics listening on %s", cfg.Metrics.Listen)
	}

	nic := tun.NewVirtualNic(&tun.ExecIfConfigurer{}, tun.NoopNamespaceGuard{})
	nic.SetDevName(cfg.Tun.DevName)
	if err := nic.SetQueueNum(cfg.Tun.QueueNum); err != nil {
		log.Fatalf("tun: %v", err)
	}

	tunnel, err := nic.CreateDev(ctx)
	if err != nil {
		log.Fatalf("tun: create device: %v", err)
	}
	defer tunnel.Close()
	log.Printf("virtual nic %q up", tunnel.Ifname())

	if err := nic.LinkUp(ctx); err != nil {
		log.Fatalf("tun: link up: %v", err)
	}
	if cfg.Tun.IP != "" {
		addr := netip.MustParseAddr(cfg.Tun.IP)
		if err := nic.AddIP(ctx, addr, cfg.Tun.CIDR); err != nil {
			log.Fatalf("tun: add ip: %v", err)
		}
	}
	if err := nic.SetMTU(ctx, cfg.Tun.MTU); err != nil {
		log.Fatalf("tun: set mtu: %v", err)
	}
	for _, r := range cfg.Tun.Routes {
		prefix, err := netip.ParsePrefix(r)
		if err != nil {
			log.Fatalf("tun: route %q: %v", r, err)
		}
		if err := nic.AddRoute(ctx, prefix.Addr(), uint8(prefix.Bits())); err != nil {
			log.Fatalf("tun: add route %q: %v", r, err)
		}
	}

	// The real mesh's PeerManager and PeerRPCTransport are genuinely
	// external per the coordinator's design: a running node's connection
	// table and wire transport live outside this package. Standalone runs
	// use the in-process fake so this binary still boots and serves
	// /metrics without a live mesh to join.
	peerMgr := meshtest.NewFakePeerManager(peercenter.PeerId(cfg.PeerCenter.MyPeerID))
	mesh := meshtest.NewFakeMesh()
	inst := peercenter.NewInstance(peerMgr, mesh)
	inst.SetFetchPeriod(cfg.PeerCenter.FetchPeriod)
	mesh.Register(peercenter.PeerId(cfg.PeerCenter.MyPeerID), inst)
	inst.Start(ctx)
	defer inst.Stop()

	go readLoop(ctx, tunnel)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Printf("shutting down...")
	cancel()
}

// readLoop drains inbound packets until the stream ends; ReadStream.Next
// already accounts rx packets and errors, so this loop has nothing left to
// do with each one until a real packet-forwarding path exists.
func readLoop(ctx context.Context, tunnel *tun.Tunnel) {
	for {
		pkt, err := tunnel.Read.Next(ctx)
		if err != nil {
			return
		}
		if pkt == nil {
			return
		}
	}
}
