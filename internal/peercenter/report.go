package peercenter

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"meshtun/internal/metrics"
)

// reportState is the runReportJob's private memory of its last successful
// report, used to decide whether the next tick has anything new to send.
type reportState struct {
	mu              sync.Mutex
	lastCenterPeer  PeerId
	lastReportTime  time.Time
	lastReportPeers map[PeerId]struct{}
}

// runReportJob is the C9 follower job: tell the elected leader which peers
// this node can see directly. Invariant I5 (skip condition): do nothing
// when the leader hasn't changed, the last report was under 60s ago, and
// the reported peer set hasn't changed either — this is what keeps steady
// -state mesh chatter to one report per minute per node instead of one
// every 5 seconds.
func (inst *Instance) runReportJob(ctx context.Context, transport PeerRPCTransport, leader PeerId, jc *JobContext[struct{}]) (int, error) {
	peers, err := inst.peerMgr.ListPeers(ctx)
	if err != nil {
		return 0, err
	}
	peerSet := peerIDSet(peers)

	inst.report.mu.Lock()
	unchanged := leader == inst.report.lastCenterPeer &&
		time.Since(inst.report.lastReportTime) < 60*time.Second &&
		peerSetEqual(peerSet, inst.report.lastReportPeers)
	inst.report.mu.Unlock()
	if unchanged {
		return 5000, nil
	}

	rpcCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = transport.ReportPeers(rpcCtx, leader, inst.peerMgr.MyPeerID(), peers)
	if err != nil {
		if errors.Is(err, ErrRPCApplication) {
			log.Printf("[peercenter] report peers to center peer %d rejected: %v", leader, err)
			return 5000, nil
		}
		metrics.ObserveRPCFailure("report")
		return 0, err
	}
	metrics.ObserveReport(strconv.FormatUint(uint64(leader), 10))

	inst.report.mu.Lock()
	inst.report.lastCenterPeer = leader
	inst.report.lastReportPeers = peerSet
	inst.report.lastReportTime = time.Now()
	inst.report.mu.Unlock()

	return 5000, nil
}

func peerIDSet(p PeerInfoForGlobalMap) map[PeerId]struct{} {
	out := make(map[PeerId]struct{}, len(p.DirectPeers))
	for id := range p.DirectPeers {
		out[id] = struct{}{}
	}
	return out
}

func peerSetEqual(a, b map[PeerId]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
