// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019-2022 Bernd Fix  >Y<
//
// gnunet-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnunet-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package core

import (
	"crypto/sha256"
	"sync"

	"gnunet/crypto"
	"gnunet/util"

	"github.com/bfix/gospel/math"
)

// Routing table constants (bucket bookkeeping only; insert routing
// itself is driven by circular distance on routing locations, not by
// XOR distance between peer ids).
const (
	numBuckets = 256 // bits of the peer-id hash used for bucket indexing
	numK       = 20  // max entries per bucket before eviction kicks in
)

//----------------------------------------------------------------------
// PeerEntry is a single routing table slot: a known peer plus its
// advertised overlay location (a value in [0,1) analogous to an SSK
// routing target, used to score candidates for pickNext).
//----------------------------------------------------------------------

type PeerEntry struct {
	peer     *Peer
	location float64
}

// peerHash returns the bucket-indexing hash of a peer id.
func peerHash(id *util.PeerID) [32]byte {
	return sha256.Sum256(id.Key)
}

// bucketIndex returns the bucket a peer falls into relative to ref:
// numBuckets minus the bit length of the byte-wise XOR distance, i.e.
// larger index means "nearer" in the XOR metric; a zero distance is
// clamped to the last bucket (mirrors the teacher's DHT bucket
// indexing, computed over a SHA-256 hash instead of SHA-512).
func bucketIndex(ref, other [32]byte) int {
	var d [32]byte
	for i := range d {
		d[i] = ref[i] ^ other[i]
	}
	idx := numBuckets - math.NewIntFromBytes(d[:]).BitLen()
	if idx >= numBuckets {
		// zero distance (hash collision with self); clamp into range
		idx = numBuckets - 1
	}
	return idx
}

//----------------------------------------------------------------------
// Bucket holds peer entries at approximately the same XOR distance
// from the local node; it bounds table growth. When full, a new entry
// replaces the first entry whose peer is not connected, and is refused
// if every entry is connected.
//----------------------------------------------------------------------

type bucket struct {
	entries []*PeerEntry
}

func newBucket() *bucket {
	return &bucket{entries: make([]*PeerEntry, 0, numK)}
}

func (b *bucket) add(e *PeerEntry) bool {
	for _, existing := range b.entries {
		if existing.peer.GetID().Equals(e.peer.GetID()) {
			existing.location = e.location
			return true
		}
	}
	if len(b.entries) >= numK {
		// evict the first entry that looks disconnected; if none,
		// refuse the insert and let the caller keep the existing set.
		for i, existing := range b.entries {
			if !existing.peer.Connected() {
				b.entries[i] = e
				return true
			}
		}
		return false
	}
	b.entries = append(b.entries, e)
	return true
}

func (b *bucket) remove(id *util.PeerID) {
	for i, existing := range b.entries {
		if existing.peer.GetID().Equals(id) {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

//----------------------------------------------------------------------
// PeerTable is the node-wide registry the insert sender consults via
// pickNext: ClosestPeer returns the connected, non-excluded peer whose
// location minimizes circular distance to a routing target.
//----------------------------------------------------------------------

type PeerTable struct {
	mu      sync.RWMutex
	ref     [32]byte
	buckets []*bucket
}

// NewPeerTable creates a peer table local to the given node id.
func NewPeerTable(local *util.PeerID) *PeerTable {
	t := &PeerTable{
		ref:     peerHash(local),
		buckets: make([]*bucket, numBuckets),
	}
	for i := range t.buckets {
		t.buckets[i] = newBucket()
	}
	return t
}

// Add registers or updates a peer with its advertised routing location.
// Returns false if the peer's bucket was full and no slot could be
// reclaimed.
func (t *PeerTable) Add(p *Peer, location float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := bucketIndex(t.ref, peerHash(p.GetID()))
	return t.buckets[idx].add(&PeerEntry{peer: p, location: location})
}

// Remove drops a peer from the table.
func (t *PeerTable) Remove(id *util.PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := bucketIndex(t.ref, peerHash(id))
	t.buckets[idx].remove(id)
}

// ClosestPeer implements the peers.closerPeer(...) collaborator: it
// returns the connected peer, not present in excluded, whose location
// minimizes distance to target. admit, when non-nil, is an additional
// admission policy predicate (e.g. overload/backoff checks); a peer is
// only a candidate if admit(peer) is true.
func (t *PeerTable) ClosestPeer(target float64, excluded map[string]bool, admit func(*Peer) bool) (best *Peer) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bestDist := 2.0 // worse than any real distance (max is 0.5)
	for _, b := range t.buckets {
		for _, e := range b.entries {
			if excluded != nil && excluded[e.peer.GetIDString()] {
				continue
			}
			if !e.peer.Connected() {
				continue
			}
			if admit != nil && !admit(e.peer) {
				continue
			}
			d := crypto.Distance(e.location, target)
			if d < bestDist {
				bestDist = d
				best = e.peer
			}
		}
	}
	return
}

// Size returns the number of peers currently tracked.
func (t *PeerTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, b := range t.buckets {
		n += len(b.entries)
	}
	return n
}
