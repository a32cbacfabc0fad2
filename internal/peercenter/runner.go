package peercenter

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// JobContext is the state one periodic job shares across iterations: the
// peer manager it elects a leader through, the leader found on the most
// recent iteration (exposed so the job function can read it without racing
// the runner), and whatever job-specific data T the caller needs.
type JobContext[T any] struct {
	PeerMgr     PeerManager
	CenterPeer  atomic.Uint64
	Data        T
}

// JobFunc is one periodic job's body: given the elected leader, it talks to
// transport and returns either a positive sleep duration in milliseconds
// (success — wait that long before the next iteration), zero (success — run
// again immediately), or an error (the runner treats this as a transport
// failure and backs off 3s regardless of what the function returns).
type JobFunc[T any] func(ctx context.Context, transport PeerRPCTransport, leader PeerId, jc *JobContext[T]) (sleepMs int, err error)

// Runner drives one periodic job: elect a leader, serialize against the
// node's other periodic jobs via lock, call fn, then sleep per its result.
// Generic over T so the fetch job and the report job — which carry
// different per-job state — can share one loop implementation, mirroring
// the reference design's single generic job-context type.
type Runner[T any] struct {
	peerMgr   PeerManager
	transport PeerRPCTransport
	lock      Locker
}

// Locker is the minimal mutex surface Runner needs; *sync.Mutex satisfies
// it directly.
type Locker interface {
	Lock()
	Unlock()
}

// NewRunner builds a Runner sharing lock across every periodic job on one
// node, so at most one of them is mid-RPC to the center peer at a time.
func NewRunner[T any](peerMgr PeerManager, transport PeerRPCTransport, lock Locker) *Runner[T] {
	return &Runner[T]{peerMgr: peerMgr, transport: transport, lock: lock}
}

// Run loops fn until ctx is done. See spec §4.7 for the exact step order:
// elect (or wait 1s and retry), store the leader, take the shared lock, run
// fn, release the lock, then sleep per fn's result (3s backoff on error).
func (r *Runner[T]) Run(ctx context.Context, data T, fn JobFunc[T]) {
	jc := &JobContext[T]{PeerMgr: r.peerMgr, Data: data}

	for {
		if ctx.Err() != nil {
			return
		}

		leader, ok := SelectCenterPeer(ctx, r.peerMgr)
		if !ok {
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}
		jc.CenterPeer.Store(uint64(leader))

		r.lock.Lock()
		sleepMs, err := fn(ctx, r.transport, leader, jc)
		r.lock.Unlock()

		if err != nil {
			log.Printf("[peercenter] periodic job to center peer %d failed: %v", leader, err)
			if !sleepCtx(ctx, 3*time.Second) {
				return
			}
			continue
		}

		if sleepMs > 0 {
			if !sleepCtx(ctx, time.Duration(sleepMs)*time.Millisecond) {
				return
			}
		}
	}
}

// sleepCtx sleeps for d or until ctx is done, reporting whether it slept the
// full duration (false means the caller should stop, not retry).
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
