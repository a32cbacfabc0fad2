package peercenter

import "context"

// PeerManager is the mesh's local-node view: its own id, its current route
// table, and the neighbors it can see directly. It is genuinely external to
// this package — a real mesh's peer manager owns connection state this
// package has no business touching.
type PeerManager interface {
	MyPeerID() PeerId
	ListRoutes(ctx context.Context) ([]RouteEntry, error)
	ListPeers(ctx context.Context) (PeerInfoForGlobalMap, error)
}

// GlobalMapReply is the leader's answer to a GetGlobalPeerMap call. A nil
// *GlobalMapReply means "your digest is already current, nothing to send" —
// modeled as a nil pointer rather than a zero value so it is unambiguous at
// the call site. Err carries an application-level failure distinct from a
// transport failure (see ErrRPCApplication vs ErrRPCTransport).
type GlobalMapReply struct {
	Map    GlobalPeerMap
	Digest Digest
	Err    error
}

// PeerRPCTransport is this package's only network dependency: calling into
// the elected center peer's service (registered under ServiceID in a real
// mesh) and getting back either data or a transport-level error.
type PeerRPCTransport interface {
	GetGlobalPeerMap(ctx context.Context, leader PeerId, knownDigest Digest) (*GlobalMapReply, error)
	ReportPeers(ctx context.Context, leader PeerId, reporter PeerId, peers PeerInfoForGlobalMap) error
}

// ServiceID is the RPC service id this coordinator registers itself under
// on a real mesh transport (mirroring the service id a node's peer manager
// dispatches to). The in-process fakes in internal/meshtest route calls
// directly and do not consult it.
const ServiceID uint32 = 50
