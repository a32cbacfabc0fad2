package peercenter

import (
	"context"
	"log"
	"strconv"
	"time"

	"meshtun/internal/metrics"
)

// runFetchJob is the C8 follower job: ask the elected leader for the global
// map, but only pull the payload when our digest is stale. The steady-state
// cadence (fetchPeriod, defaulting to 5s) mirrors the reference design
// exactly for both the "nothing changed" and the "map updated" outcomes;
// a leader-returned application error shortens the next wait to 1s, while a
// transport failure is handled by Runner's own 3s backoff via the returned
// error.
func (inst *Instance) runFetchJob(ctx context.Context, transport PeerRPCTransport, leader PeerId, jc *JobContext[struct{}]) (int, error) {
	rpcCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	leaderLabel := strconv.FormatUint(uint64(leader), 10)

	reply, err := transport.GetGlobalPeerMap(rpcCtx, leader, inst.Digest())
	if err != nil {
		metrics.ObserveRPCFailure("fetch")
		return 0, err
	}
	metrics.ObserveFetch(leaderLabel)

	period := int(inst.fetchPeriod / time.Millisecond)

	if reply == nil {
		return period, nil
	}
	if reply.Err != nil {
		log.Printf("[peercenter] get global info from center peer %d returned error: %v", leader, reply.Err)
		return 1000, nil
	}

	inst.updateGlobalMap(reply.Map, reply.Digest)
	return period, nil
}
