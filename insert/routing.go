// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2022 Bernd Fix  >Y<
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

package insert

import (
	"math/rand"

	"gnunet/core"
)

// RoutingController tracks the already-routed set for one job and picks
// the next hop (spec §4.2). It is owned by the job's worker and needs
// no synchronization of its own (spec §5: "accessed only by the owning
// worker").
type RoutingController struct {
	table    *core.PeerTable
	excluded map[string]bool
}

// NewRoutingController starts with an empty exclusion set.
func NewRoutingController(table *core.PeerTable) *RoutingController {
	return &RoutingController{
		table:    table,
		excluded: make(map[string]bool),
	}
}

// PickNext implements peers.closerPeer(...): the connected, non-excluded
// peer whose routing location minimizes distance to target, or nil if
// none remain. admit carries node mode/admission policy (may be nil).
// The returned peer (if any) is immediately added to the exclusion set,
// so it can never be re-selected within this job (spec §8.3).
func (r *RoutingController) PickNext(target float64, admit func(*core.Peer) bool) *core.Peer {
	p := r.table.ClosestPeer(target, r.excluded, admit)
	if p == nil {
		return nil
	}
	r.excluded[p.GetIDString()] = true
	return p
}

// boundaryDecrementProbability is the chance of decrementing HTL when
// sitting at a boundary value (the configured maximum, or 1). Below 1.0
// this dampens both ends of the HTL range so a request's distance from
// its origin cannot be inferred purely from observing its HTL (spec §4.1
// step 1 rationale, §6 decrementHTL, GLOSSARY "HTL").
const boundaryDecrementProbability = 1.0 / 3.0

// HTLPolicy implements the node's decrementHTL(requestor, htl) policy
// (spec §6), standing in for the node-specific policy the spec leaves
// external. Rand is swappable so tests can force deterministic boundary
// behavior instead of depending on real randomness (spec §8 scenario 1
// requires htl=1 to survive at least one hop before reaching zero).
type HTLPolicy struct {
	MaxHTL         uint32
	DecrementAtMax bool
	DecrementAtMin bool
	Rand           func() float64
}

// NewHTLPolicy builds the default policy: probabilistic dampening at
// both boundaries, using the real math/rand source.
func NewHTLPolicy(maxHTL uint32) *HTLPolicy {
	return &HTLPolicy{MaxHTL: maxHTL, Rand: rand.Float64}
}

// Decrement applies the policy to htl. It never returns a value above
// MaxHTL or below 0, and the result is non-increasing (spec §8
// invariant 2).
func (p *HTLPolicy) Decrement(htl uint32) uint32 {
	if htl == 0 {
		return 0
	}
	if p.MaxHTL > 0 && htl > p.MaxHTL {
		htl = p.MaxHTL
	}
	switch {
	case p.MaxHTL > 0 && htl == p.MaxHTL:
		if p.DecrementAtMax || p.Rand() < boundaryDecrementProbability {
			return htl - 1
		}
		return htl
	case htl == 1:
		if p.DecrementAtMin || p.Rand() < boundaryDecrementProbability {
			return 0
		}
		return 1
	default:
		return htl - 1
	}
}
