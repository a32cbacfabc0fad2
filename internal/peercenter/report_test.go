package peercenter

import (
	"context"
	"testing"
)

// countingTransport counts ReportPeers calls so the suppression test can
// assert exactly one RPC went out across repeated identical ticks.
type countingTransport struct {
	reportCalls int
}

func (c *countingTransport) GetGlobalPeerMap(ctx context.Context, leader PeerId, knownDigest Digest) (*GlobalMapReply, error) {
	return nil, nil
}

func (c *countingTransport) ReportPeers(ctx context.Context, leader, reporter PeerId, peers PeerInfoForGlobalMap) error {
	c.reportCalls++
	return nil
}

func TestRunReportJob_SuppressesUnchangedReport(t *testing.T) {
	pm := newChainPeerManager(1)
	pm.direct[2] = PeerEdge{LatencyMs: 10}
	transport := &countingTransport{}
	inst := NewInstance(pm, transport)
	jc := &JobContext[struct{}]{PeerMgr: pm}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := inst.runReportJob(ctx, transport, 2, jc); err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
	}

	if transport.reportCalls != 1 {
		t.Fatalf("reportCalls = %d, want 1 (identical peer set within 60s should report once)", transport.reportCalls)
	}
}

func TestRunReportJob_ReportsAgainWhenPeerSetChanges(t *testing.T) {
	pm := newChainPeerManager(1)
	pm.direct[2] = PeerEdge{LatencyMs: 10}
	transport := &countingTransport{}
	inst := NewInstance(pm, transport)
	jc := &JobContext[struct{}]{PeerMgr: pm}

	ctx := context.Background()
	if _, err := inst.runReportJob(ctx, transport, 2, jc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pm.direct[3] = PeerEdge{LatencyMs: 12}
	if _, err := inst.runReportJob(ctx, transport, 2, jc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transport.reportCalls != 2 {
		t.Fatalf("reportCalls = %d, want 2 (peer set changed between ticks)", transport.reportCalls)
	}
}

func TestRunReportJob_ReportsAgainWhenLeaderChanges(t *testing.T) {
	pm := newChainPeerManager(1)
	pm.direct[2] = PeerEdge{LatencyMs: 10}
	transport := &countingTransport{}
	inst := NewInstance(pm, transport)
	jc := &JobContext[struct{}]{PeerMgr: pm}

	ctx := context.Background()
	if _, err := inst.runReportJob(ctx, transport, 2, jc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := inst.runReportJob(ctx, transport, 3, jc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transport.reportCalls != 2 {
		t.Fatalf("reportCalls = %d, want 2 (leader changed between ticks)", transport.reportCalls)
	}
}
