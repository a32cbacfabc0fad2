package peercenter

import "time"

// defaultEdgeCostMs is the fallback cost used whenever two peers share no
// direct link in the current snapshot, matching the reference design's
// treatment of an unmeasured edge as "expensive but not infinite".
const defaultEdgeCostMs = 80

// RouteCostSnapshot is C10: a point-in-time clone of the global peer map
// used by route-cost calculation. Cloning up front means CalculateCost never
// takes a lock, so a routing algorithm can call it many times per run
// without contending with the background fetch job's map updates.
type RouteCostSnapshot struct {
	inst           *Instance
	snapshot       GlobalPeerMap
	lastUpdateTime int64
}

// NewRouteCostSnapshot binds a snapshot to inst. lastUpdateTime is seeded
// one second behind the instance's last update so the first NeedUpdate call
// always reports true, forcing a caller to BeginUpdate before computing any
// cost.
func NewRouteCostSnapshot(inst *Instance) *RouteCostSnapshot {
	return &RouteCostSnapshot{
		inst:           inst,
		snapshot:       NewGlobalPeerMap(),
		lastUpdateTime: inst.lastUpdateNanos() - int64(time.Second),
	}
}

// NeedUpdate reports whether the global map has changed since the last
// BeginUpdate/EndUpdate pair.
func (s *RouteCostSnapshot) NeedUpdate() bool {
	return s.lastUpdateTime < s.inst.lastUpdateNanos()
}

// BeginUpdate refreshes the snapshot from the instance's current map.
func (s *RouteCostSnapshot) BeginUpdate() {
	s.snapshot = s.inst.GlobalMap()
}

// CalculateCost returns the direct-link latency from src to dst in the
// current snapshot, or defaultEdgeCostMs when no such link is known.
func (s *RouteCostSnapshot) CalculateCost(src, dst PeerId) int32 {
	info, ok := s.snapshot.Map[src]
	if !ok {
		return defaultEdgeCostMs
	}
	edge, ok := info.DirectPeers[dst]
	if !ok {
		return defaultEdgeCostMs
	}
	return edge.LatencyMs
}

// EndUpdate marks the snapshot as current as of the instance's latest
// update, so NeedUpdate returns false until the next change.
func (s *RouteCostSnapshot) EndUpdate() {
	s.lastUpdateTime = s.inst.lastUpdateNanos()
}
