package peercenter

// PeerId identifies one node in the mesh. The original design picks the
// numerically smallest id as center peer, so an unsigned integer (rather
// than e.g. a UUID) keeps that comparison a plain "<".
type PeerId uint64

// RouteEntry is one row of a node's local route table, as reported by a
// PeerManager. Only the peer id matters to this package; a real PeerManager
// carries far more per-route state than this.
type RouteEntry struct {
	PeerID PeerId
}

// PeerEdge is the direct-link cost from one peer to a neighbor it reports.
type PeerEdge struct {
	LatencyMs int32
}

// PeerInfoForGlobalMap is one node's contribution to the global map: the set
// of peers it can reach directly, and the per-neighbor link cost.
type PeerInfoForGlobalMap struct {
	DirectPeers map[PeerId]PeerEdge
}

func newPeerInfoForGlobalMap() PeerInfoForGlobalMap {
	return PeerInfoForGlobalMap{DirectPeers: make(map[PeerId]PeerEdge)}
}

func (p PeerInfoForGlobalMap) clone() PeerInfoForGlobalMap {
	out := newPeerInfoForGlobalMap()
	for k, v := range p.DirectPeers {
		out.DirectPeers[k] = v
	}
	return out
}

// GlobalPeerMap is the center peer's merged view of the whole mesh: every
// node that has reported in, and what each one can see directly. It is the
// unit gossiped between the center peer and its followers.
type GlobalPeerMap struct {
	Map map[PeerId]PeerInfoForGlobalMap
}

// NewGlobalPeerMap returns an empty map, ready to be merged into.
func NewGlobalPeerMap() GlobalPeerMap {
	return GlobalPeerMap{Map: make(map[PeerId]PeerInfoForGlobalMap)}
}

// clone deep-copies m, so a caller holding the returned value is immune to
// later mutation of the original (needed both for the route-cost snapshot
// and for handing a map out across the RPC boundary).
func (m GlobalPeerMap) clone() GlobalPeerMap {
	out := NewGlobalPeerMap()
	for k, v := range m.Map {
		out.Map[k] = v.clone()
	}
	return out
}
