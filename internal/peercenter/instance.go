package peercenter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"meshtun/internal/metrics"
)

// defaultFetchPeriod is the fetch job's steady-state cadence when no
// PeerCenterConfig override is supplied.
const defaultFetchPeriod = 5 * time.Second

// Instance is one node's peer-center coordinator: it runs the fetch and
// report periodic jobs as a follower, and answers the matching RPCs when
// this node happens to be the elected leader. Both roles live on the same
// type because any node in the mesh can become leader at any time.
type Instance struct {
	peerMgr   PeerManager
	transport PeerRPCTransport
	lock      sync.Mutex

	mapMu     sync.RWMutex
	globalMap GlobalPeerMap

	digest       atomic.Pointer[Digest]
	lastUpdateNs atomic.Int64

	fetchPeriod time.Duration
	report      reportState

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewInstance builds an Instance bound to the node's PeerManager and the
// mesh's PeerRPCTransport. Both are external collaborators this package
// never constructs itself.
func NewInstance(peerMgr PeerManager, transport PeerRPCTransport) *Instance {
	inst := &Instance{
		peerMgr:     peerMgr,
		transport:   transport,
		globalMap:   NewGlobalPeerMap(),
		fetchPeriod: defaultFetchPeriod,
	}
	d := ComputeDigest(inst.globalMap)
	inst.digest.Store(&d)
	inst.lastUpdateNs.Store(time.Now().UnixNano())
	return inst
}

// SetFetchPeriod overrides the fetch job's steady-state cadence (the
// PeerCenterConfig.FetchPeriod knob). Call it before Start; d <= 0 is
// ignored and the default is kept.
func (inst *Instance) SetFetchPeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	inst.fetchPeriod = d
}

// Start launches the fetch and report periodic jobs. It is safe to call at
// most once per Instance; call Stop to tear them down.
func (inst *Instance) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	inst.cancel = cancel

	runner := NewRunner[struct{}](inst.peerMgr, inst.transport, &inst.lock)

	inst.wg.Add(2)
	go func() {
		defer inst.wg.Done()
		runner.Run(ctx, struct{}{}, inst.runFetchJob)
	}()
	go func() {
		defer inst.wg.Done()
		runner.Run(ctx, struct{}{}, inst.runReportJob)
	}()
}

// Stop cancels both periodic jobs and waits for them to return.
func (inst *Instance) Stop() {
	if inst.cancel != nil {
		inst.cancel()
	}
	inst.wg.Wait()
}

// GlobalMap returns a snapshot of the current global peer map.
func (inst *Instance) GlobalMap() GlobalPeerMap {
	inst.mapMu.RLock()
	defer inst.mapMu.RUnlock()
	return inst.globalMap.clone()
}

// Digest returns the digest of the current global peer map.
func (inst *Instance) Digest() Digest {
	return *inst.digest.Load()
}

func (inst *Instance) lastUpdateNanos() int64 {
	return inst.lastUpdateNs.Load()
}

// updateGlobalMap replaces the local copy of the global map, most recently
// fetched from the leader. The map write, digest store, and timestamp store
// are intentionally three separate steps rather than one atomic swap — a
// reader can observe the new map before the new digest, matching the
// reference design, since nothing in this package depends on them changing
// together.
func (inst *Instance) updateGlobalMap(m GlobalPeerMap, d Digest) {
	inst.mapMu.Lock()
	inst.globalMap = m
	size := len(inst.globalMap.Map)
	inst.mapMu.Unlock()

	inst.digest.Store(&d)
	inst.lastUpdateNs.Store(time.Now().UnixNano())
	metrics.SetGlobalMapSize(size)
}

// ServeGetGlobalPeerMap answers a follower's GetGlobalPeerMap call: this is
// the leader-role RPC handler, invoked when this node is the elected center
// peer and another node's fetch job calls in. A nil reply means the
// caller's digest already matches.
func (inst *Instance) ServeGetGlobalPeerMap(ctx context.Context, knownDigest Digest) (*GlobalMapReply, error) {
	cur := inst.Digest()
	if cur == knownDigest {
		return nil, nil
	}
	return &GlobalMapReply{Map: inst.GlobalMap(), Digest: cur}, nil
}

// ServeReportPeers answers a follower's ReportPeers call: the leader-role
// handler that merges one reporter's direct-peer set into the global map
// and recomputes the digest.
func (inst *Instance) ServeReportPeers(ctx context.Context, reporter PeerId, peers PeerInfoForGlobalMap) error {
	inst.mapMu.Lock()
	inst.globalMap.Map[reporter] = peers.clone()
	snapshot := inst.globalMap.clone()
	size := len(inst.globalMap.Map)
	inst.mapMu.Unlock()

	d := ComputeDigest(snapshot)
	inst.digest.Store(&d)
	inst.lastUpdateNs.Store(time.Now().UnixNano())
	metrics.SetGlobalMapSize(size)
	return nil
}
