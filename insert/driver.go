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
	"context"
	"time"

	"gnunet/core"
	"gnunet/message"
	"gnunet/store"
	"gnunet/waiter"

	"github.com/bfix/gospel/logger"
)

// HopKind classifies a hop's outcome for the sender loop (spec §4.1
// "Per-iteration algorithm", step 4).
type HopKind int

const (
	// HopRetry: stay in the outer loop, selected peer remains routed.
	HopRetry HopKind = iota
	// HopAdjustHTL: clamp htl down, then retry.
	HopAdjustHTL
	// HopTerminate: the job has reached a terminal status.
	HopTerminate
)

// HopOutcome is what RunHop reports back to the sender loop.
type HopOutcome struct {
	Kind      HopKind
	Status    Status // valid when Kind == HopTerminate
	NewHTL    uint32 // valid when Kind == HopAdjustHTL
	LastPeer  *core.Peer
}

// Driver runs the per-hop message protocol against one chosen peer
// (spec §4.3).
type Driver struct {
	core      *core.Core
	datastore *store.BlockStore
	cache     *store.BlockStore

	acceptTimeout     time.Duration
	searchTimeout     time.Duration
	dataInsertTimeout time.Duration
	fetchTimeout      time.Duration
}

// NewDriver builds a driver bound to c's event bus, datastore for the
// persistent fromStore/collision tier, and cache for the short-lived
// client-cache tier (spec §6 canWriteDatastore/canWriteClientCache).
// Timeouts are the spec §4.3/§6 constants, overridable via
// config.InsertConfig.Timeouts().
func NewDriver(c *core.Core, datastore, cache *store.BlockStore, accept, search, dataInsert, fetch time.Duration) *Driver {
	return &Driver{
		core:              c,
		datastore:         datastore,
		cache:             cache,
		acceptTimeout:     accept,
		searchTimeout:     search,
		dataInsertTimeout: dataInsert,
		fetchTimeout:      fetch,
	}
}

// persistOnSuccess writes job's current block into whichever local tiers
// its propagation-time policy flags permit (spec §6). Failures are logged,
// not propagated: a local caching miss never turns a successful remote
// insert into a failed one.
func (d *Driver) persistOnSuccess(job *Job) {
	b := job.GetBlock()
	if job.CanWriteDatastore() {
		if err := d.datastore.Put(b); err != nil {
			logger.Printf(logger.WARN, "[driver] datastore write failed uid=%d: %s", job.UID(), err.Error())
		}
	}
	if job.CanWriteClientCache() {
		if err := d.cache.Put(b); err != nil {
			logger.Printf(logger.WARN, "[driver] client cache write failed uid=%d: %s", job.UID(), err.Error())
		}
	}
}

// RunHop drives one hop against peer for job. It never panics on
// protocol events (timeouts, rejections): those are translated into the
// returned HopOutcome (spec §5: "a timeout is a protocol event").
func (d *Driver) RunHop(ctx context.Context, job *Job, peer *core.Peer) HopOutcome {
	req := message.NewInsertRequestMsg(job.UID(), job.GetHTL(), job.Key())
	if err := peer.SendAsync(ctx, req); err != nil {
		// not connected: abort this peer silently, retry another
		return HopOutcome{Kind: HopRetry}
	}
	job.markSentRequest()

	needPubKey, outcome, ok := d.phase1Acceptance(ctx, job, peer)
	if !ok {
		return outcome
	}

	if outcome, ok := d.phase2Payload(ctx, job, peer, needPubKey); !ok {
		return outcome
	}

	return d.phase3Reply(ctx, job, peer)
}

// phase1Acceptance awaits {ACCEPTED, REJECTED_LOOP, REJECTED_OVERLOAD},
// tolerating reordered non-local overload reports (spec §4.3 Phase 1).
func (d *Driver) phase1Acceptance(ctx context.Context, job *Job, peer *core.Peer) (needPubKey bool, outcome HopOutcome, accepted bool) {
	deadline := time.Now().Add(d.acceptTimeout)
	f := waiter.NewFilter(peer.GetID(), job.UID(),
		message.ACCEPTED, message.REJECTED_LOOP, message.REJECTED_OVERLOAD)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			peer.LocalRejectedOverload("AfterInsertRequestTimeout")
			job.forwardRejectedOverload()
			return false, HopOutcome{Kind: HopRetry}, false
		}
		msg, err := waiter.WaitFor(ctx, d.core, f, remaining)
		if err != nil {
			peer.LocalRejectedOverload("AfterInsertRequestTimeout")
			job.forwardRejectedOverload()
			return false, HopOutcome{Kind: HopRetry}, false
		}
		switch m := msg.(type) {
		case *message.AcceptedMsg:
			return m.NeedsPubKey(), HopOutcome{}, true
		case *message.RejectedLoopMsg:
			peer.SuccessNotOverload()
			return false, HopOutcome{Kind: HopRetry}, false
		case *message.RejectedOverloadMsg:
			if m.Local() {
				peer.LocalRejectedOverload("Local")
				return false, HopOutcome{Kind: HopRetry}, false
			}
			job.forwardRejectedOverload()
			// non-local: keep waiting for the real reply
			continue
		}
	}
}

// phase2Payload pushes headers, throttled data, and the optional pubkey
// exchange (spec §4.3 Phase 2).
func (d *Driver) phase2Payload(ctx context.Context, job *Job, peer *core.Peer, needPubKey bool) (HopOutcome, bool) {
	b := job.GetBlock()

	hdrMsg := message.NewInsertHeadersMsg(job.UID(), b.Headers())
	if err := peer.SendAsync(ctx, hdrMsg); err != nil {
		return HopOutcome{Kind: HopRetry}, false
	}
	job.addBytesSent(len(b.Headers()))

	dataMsg := message.NewInsertDataMsg(job.UID(), b.Data())
	n, err := peer.SendThrottledMessage(ctx, dataMsg, d.dataInsertTimeout)
	if err != nil {
		// not connected, waited too long, or peer restarted: all retry
		return HopOutcome{Kind: HopRetry}, false
	}
	job.addBytesSent(n)

	if !needPubKey {
		return HopOutcome{}, true
	}

	pkMsg := message.NewPubKeyMsg(job.UID(), b.PubKey().Bytes())
	if err := peer.SendAsync(ctx, pkMsg); err != nil {
		return HopOutcome{Kind: HopRetry}, false
	}
	f := waiter.NewFilter(peer.GetID(), job.UID(), message.PUBKEY_ACCEPTED)
	if _, err := waiter.WaitFor(ctx, d.core, f, d.acceptTimeout); err != nil {
		job.forwardRejectedOverload()
		return HopOutcome{Kind: HopRetry}, false
	}
	return HopOutcome{}, true
}

// phase3Reply awaits the final reply, handling collision resolution
// in-line (spec §4.3 Phases 3-4).
func (d *Driver) phase3Reply(ctx context.Context, job *Job, peer *core.Peer) HopOutcome {
	deadline := time.Now().Add(d.searchTimeout)
	f := waiter.NewFilter(peer.GetID(), job.UID(),
		message.INSERT_REPLY, message.ROUTE_NOT_FOUND, message.REJECTED_OVERLOAD,
		message.DATA_INSERT_REJECTED, message.COLLISION_HEADERS)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			peer.LocalRejectedOverload("AfterInsertAcceptedTimeout")
			return HopOutcome{Kind: HopTerminate, Status: TIMED_OUT}
		}
		msg, err := waiter.WaitFor(ctx, d.core, f, remaining)
		if err != nil {
			peer.LocalRejectedOverload("AfterInsertAcceptedTimeout")
			return HopOutcome{Kind: HopTerminate, Status: TIMED_OUT}
		}

		switch m := msg.(type) {
		case *message.InsertReplyMsg:
			d.persistOnSuccess(job)
			return HopOutcome{Kind: HopTerminate, Status: SUCCESS, LastPeer: peer}

		case *message.RouteNotFoundMsg:
			peer.SuccessNotOverload()
			return HopOutcome{Kind: HopAdjustHTL, NewHTL: m.HTL}

		case *message.DataInsertRejectedMsg:
			peer.SuccessNotOverload()
			logger.Printf(logger.WARN, "[driver] DATA_INSERT_REJECTED uid=%d reason=%d", job.UID(), m.Reason)
			if m.Reason == message.ReasonVerifyFailed {
				store.LogVerifyFailure(job.FromStore(), job.Key())
			}
			return HopOutcome{Kind: HopRetry}

		case *message.RejectedOverloadMsg:
			if m.Local() {
				peer.LocalRejectedOverload("Local")
				return HopOutcome{Kind: HopRetry}
			}
			job.forwardRejectedOverload()
			continue

		case *message.CollisionHeadersMsg:
			if outcome, done := d.phase4Collision(ctx, job, peer, m); done {
				return outcome
			}
			// collision adopted; keep waiting on the same filter for the
			// eventual terminal reply (spec step 6)
			continue
		}
	}
}

// phase4Collision fetches COLLISION_DATA and reconstructs the job's
// block around the preexisting remote content (spec §4.3 Phase 4).
// It returns done=true when the hop must terminate or retry instead of
// continuing to wait on the same peer.
func (d *Driver) phase4Collision(ctx context.Context, job *Job, peer *core.Peer, hdrs *message.CollisionHeadersMsg) (HopOutcome, bool) {
	// Step 1: overwrite headers immediately, transcribed verbatim from
	// the observed source behavior (spec §9 open question 1).
	oldHeaders := job.beginCollisionHeaders(hdrs.Headers)

	f := waiter.NewFilter(peer.GetID(), job.UID(), message.COLLISION_DATA)
	msg, err := waiter.WaitFor(ctx, d.core, f, d.fetchTimeout)
	if err != nil {
		// timeout or disconnect: retry another peer with the (possibly
		// partially overwritten) state, per spec step 2
		return HopOutcome{Kind: HopRetry}, true
	}
	dataMsg := msg.(*message.CollisionDataMsg)
	job.addBytesReceived(len(dataMsg.Data))

	// Step 3: reconstruct with the *original* (pre-overwrite) headers,
	// not the ones just written in step 1 — see the same open question.
	if err := job.finishCollision(oldHeaders, dataMsg.Data); err != nil {
		return HopOutcome{Kind: HopTerminate, Status: INTERNAL_ERROR}, true
	}
	return HopOutcome{}, false
}
