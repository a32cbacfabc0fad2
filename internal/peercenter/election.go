package peercenter

import "context"

// SelectCenterPeer picks the current leader: the numerically smallest peer
// id across {self} union the local route table. It returns (0, false) when
// the node has no routes at all — a freshly-started or fully isolated node —
// matching the reference design's "no center peer found" case, which the
// periodic job runner treats as "retry in a second" rather than an error.
func SelectCenterPeer(ctx context.Context, pm PeerManager) (PeerId, bool) {
	routes, err := pm.ListRoutes(ctx)
	if err != nil || len(routes) == 0 {
		return 0, false
	}

	min := pm.MyPeerID()
	for _, r := range routes {
		if r.PeerID < min {
			min = r.PeerID
		}
	}
	return min, true
}
