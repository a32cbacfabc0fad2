package peercenter

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// Digest is an opaque, deterministic fingerprint of a GlobalPeerMap's
// contents. Two maps with the same nodes, neighbors, and latencies hash to
// the same Digest regardless of how they were built, so a follower can skip
// a transfer entirely by comparing digests instead of payloads.
type Digest [32]byte

// ComputeDigest hashes m over a canonical encoding: peer ids in ascending
// order, then each peer's direct-peer ids in ascending order with their
// latencies. Sorting is required because Go map iteration order is
// randomized per-run; without it the same map would hash differently across
// processes and digest comparison would be useless.
func ComputeDigest(m GlobalPeerMap) Digest {
	h := sha256.New()
	var scratch [8]byte

	ids := make([]PeerId, 0, len(m.Map))
	for id := range m.Map {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		binary.BigEndian.PutUint64(scratch[:], uint64(id))
		h.Write(scratch[:])

		info := m.Map[id]
		peers := make([]PeerId, 0, len(info.DirectPeers))
		for p := range info.DirectPeers {
			peers = append(peers, p)
		}
		sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })

		binary.BigEndian.PutUint64(scratch[:], uint64(len(peers)))
		h.Write(scratch[:])

		for _, p := range peers {
			binary.BigEndian.PutUint64(scratch[:], uint64(p))
			h.Write(scratch[:])
			binary.BigEndian.PutUint32(scratch[:4], uint32(info.DirectPeers[p].LatencyMs))
			h.Write(scratch[:4])
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
