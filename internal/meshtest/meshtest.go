// Package meshtest provides in-process test doubles for the collaborators
// internal/peercenter treats as external: the per-node PeerManager and the
// mesh-wide RPC transport. A real mesh runs these over the network; for
// unit and convergence tests a direct in-process dispatch is enough to
// exercise the coordinator's logic without a real transport.
package meshtest

import (
	"context"
	"fmt"
	"sync"

	"meshtun/internal/peercenter"
)

// FakePeerManager is a settable PeerManager: tests push routes and direct
// -peer latencies into it directly instead of running real link discovery.
type FakePeerManager struct {
	mu     sync.Mutex
	myID   peercenter.PeerId
	routes []peercenter.RouteEntry
	direct map[peercenter.PeerId]peercenter.PeerEdge
}

// NewFakePeerManager builds a FakePeerManager for the given node id.
func NewFakePeerManager(id peercenter.PeerId) *FakePeerManager {
	return &FakePeerManager{
		myID:   id,
		direct: make(map[peercenter.PeerId]peercenter.PeerEdge),
	}
}

func (f *FakePeerManager) MyPeerID() peercenter.PeerId { return f.myID }

// SetRoutes replaces the node's visible route table.
func (f *FakePeerManager) SetRoutes(routes []peercenter.RouteEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = routes
}

// SetDirectPeer records a direct link to peer with the given latency.
func (f *FakePeerManager) SetDirectPeer(peer peercenter.PeerId, latencyMs int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct[peer] = peercenter.PeerEdge{LatencyMs: latencyMs}
}

func (f *FakePeerManager) ListRoutes(ctx context.Context) ([]peercenter.RouteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]peercenter.RouteEntry, len(f.routes))
	copy(out, f.routes)
	return out, nil
}

func (f *FakePeerManager) ListPeers(ctx context.Context) (peercenter.PeerInfoForGlobalMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info := peercenter.PeerInfoForGlobalMap{DirectPeers: make(map[peercenter.PeerId]peercenter.PeerEdge, len(f.direct))}
	for k, v := range f.direct {
		info.DirectPeers[k] = v
	}
	return info, nil
}

// FakeMesh is an in-process PeerRPCTransport: it dispatches a call for
// "leader" straight to that leader's registered *peercenter.Instance,
// standing in for a real network hop to the elected center peer.
type FakeMesh struct {
	mu        sync.Mutex
	instances map[peercenter.PeerId]*peercenter.Instance
}

// NewFakeMesh builds an empty mesh; register nodes with Register.
func NewFakeMesh() *FakeMesh {
	return &FakeMesh{instances: make(map[peercenter.PeerId]*peercenter.Instance)}
}

// Register associates a node id with its Instance, so later calls naming
// that id as leader reach it.
func (m *FakeMesh) Register(id peercenter.PeerId, inst *peercenter.Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[id] = inst
}

func (m *FakeMesh) lookup(id peercenter.PeerId) (*peercenter.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such peer %d", peercenter.ErrRPCTransport, id)
	}
	return inst, nil
}

func (m *FakeMesh) GetGlobalPeerMap(ctx context.Context, leader peercenter.PeerId, knownDigest peercenter.Digest) (*peercenter.GlobalMapReply, error) {
	inst, err := m.lookup(leader)
	if err != nil {
		return nil, err
	}
	return inst.ServeGetGlobalPeerMap(ctx, knownDigest)
}

func (m *FakeMesh) ReportPeers(ctx context.Context, leader, reporter peercenter.PeerId, peers peercenter.PeerInfoForGlobalMap) error {
	inst, err := m.lookup(leader)
	if err != nil {
		return err
	}
	return inst.ServeReportPeers(ctx, reporter, peers)
}
