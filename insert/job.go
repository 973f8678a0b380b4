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

// Package insert drives a single SSK block through the overlay: per-request
// state (this file), the node-wide loop-detection registry, the routing
// controller, the per-hop protocol driver, and the top-level sender loop.
package insert

import (
	"errors"
	"sync"
	"time"

	"gnunet/block"
	"gnunet/crypto"
	"gnunet/util"
)

// Status is the job's one-shot terminal outcome.
type Status int

// Terminal (and the initial running) status values.
const (
	RUNNING Status = iota
	SUCCESS
	ROUTE_NOT_FOUND
	ROUTE_REALLY_NOT_FOUND
	INTERNAL_ERROR
	TIMED_OUT
	GENERATED_REJECTED_OVERLOAD
)

// String renders the canonical external label for a status code.
func (s Status) String() string {
	switch s {
	case RUNNING:
		return "NOT FINISHED"
	case SUCCESS:
		return "SUCCESS"
	case ROUTE_NOT_FOUND:
		return "ROUTE NOT FOUND"
	case ROUTE_REALLY_NOT_FOUND:
		return "ROUTE REALLY NOT FOUND"
	case INTERNAL_ERROR:
		return "INTERNAL ERROR"
	case TIMED_OUT:
		return "TIMED OUT"
	case GENERATED_REJECTED_OVERLOAD:
		return "GENERATED REJECTED OVERLOAD"
	default:
		return "UNKNOWN STATUS CODE: " + itoa(int(s))
	}
}

func itoa(n int) string {
	// tiny local helper to avoid pulling in strconv for one call site
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ErrJobNoPublicKey rejects construction of a job around a keyless block.
var ErrJobNoPublicKey = errors.New("insert job: block has no public key")

// ErrJobAlreadyFinished is the invariant-violation signaled when finish
// is called on a job that already left RUNNING.
var ErrJobAlreadyFinished = errors.New("insert job: finish called twice")

// Job is the per-request insert state machine's data, per spec §3.
type Job struct {
	uid    uint64
	origHTL uint32

	mu         sync.Mutex
	cond       *sync.Cond
	block      *block.SSKBlock
	target     float64
	htl        uint32
	source     *util.PeerID
	fromStore  bool
	canWriteClientCache bool
	canWriteDatastore   bool
	sentRequest bool
	status      Status
	hasCollided bool
	hasRecentlyCollided bool
	hasForwardedRejectedOverload bool
	startTime time.Time

	bytesMu  sync.Mutex
	bytesSent     uint64
	bytesReceived uint64
}

// NewJob builds a job around b. It rejects blocks with no public key, per
// spec §6 ("rejects if block.pubKey is null").
func NewJob(b *block.SSKBlock, uid uint64, htl uint32, source *util.PeerID, fromStore, canWriteClientCache, canWriteDatastore bool) (*Job, error) {
	if b == nil || b.PubKey() == nil {
		return nil, ErrJobNoPublicKey
	}
	j := &Job{
		uid:                 uid,
		origHTL:              htl,
		block:                b,
		target:               crypto.DeriveTarget(b.PubKeyHash()),
		htl:                  htl,
		source:               source,
		fromStore:            fromStore,
		canWriteClientCache:  canWriteClientCache,
		canWriteDatastore:    canWriteDatastore,
		status:               RUNNING,
		startTime:            time.Now(),
	}
	j.cond = sync.NewCond(&j.mu)
	return j, nil
}

// UID returns the job's stable request identifier.
func (j *Job) UID() uint64 { return j.uid }

// OrigHTL returns the HTL the job was created with — the registry key
// component that must never change even as j.htl decreases.
func (j *Job) OrigHTL() uint32 { return j.origHTL }

// Key returns the block's routing key, used for registry lookups.
func (j *Job) Key() []byte { return j.block.Key() }

// Target returns the routing coordinate the routing controller steers
// toward.
func (j *Job) Target() float64 { return j.target }

// Source returns the originating peer, or nil if locally initiated.
func (j *Job) Source() *util.PeerID { return j.source }

// FromStore reports whether the block came from the local store.
func (j *Job) FromStore() bool { return j.fromStore }

// CanWriteDatastore reports whether this job may persist its block to the
// local persistent datastore on success.
func (j *Job) CanWriteDatastore() bool { return j.canWriteDatastore }

// CanWriteClientCache reports whether this job may persist its block to
// the short-lived client-cache tier on success.
func (j *Job) CanWriteClientCache() bool { return j.canWriteClientCache }

// GetStatus returns the current status.
func (j *Job) GetStatus() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// GetStatusString returns the canonical external label for the status.
func (j *Job) GetStatusString() string {
	return j.GetStatus().String()
}

// GetHTL returns the current (possibly clamped) HTL.
func (j *Job) GetHTL() uint32 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.htl
}

// SentRequest reports whether any INSERT_REQUEST has ever been sent.
func (j *Job) SentRequest() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sentRequest
}

// HasCollided reports the sticky collision bit.
func (j *Job) HasCollided() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.hasCollided
}

// HasRecentlyCollided consumes the edge-triggered collision bit: it
// returns true at most once per collision event.
func (j *Job) HasRecentlyCollided() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	v := j.hasRecentlyCollided
	j.hasRecentlyCollided = false
	return v
}

// ReceivedRejectedOverload reports whether overload has been forwarded
// upstream for this job.
func (j *Job) ReceivedRejectedOverload() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.hasForwardedRejectedOverload
}

// GetBlock returns the job's current block (replaced wholesale on
// collision).
func (j *Job) GetBlock() *block.SSKBlock {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.block
}

// GetData returns the current block's payload.
func (j *Job) GetData() []byte {
	return j.GetBlock().Data()
}

// GetHeaders returns the current block's headers.
func (j *Job) GetHeaders() []byte {
	return j.GetBlock().Headers()
}

// markSentRequest flips sentRequest true; idempotent, never reverts.
func (j *Job) markSentRequest() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sentRequest = true
}

// clampHTL lowers htl to min(htl, newHTL); never raises it.
func (j *Job) clampHTL(newHTL uint32) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if newHTL < j.htl {
		j.htl = newHTL
	}
}

// setHTL overwrites htl unconditionally; used only by the sender's own
// decrement step, which is the sole writer allowed to raise-then-lower
// across iterations (decrement never raises in practice, but the job
// itself does not need to re-enforce monotonicity beyond clampHTL's use
// from peer-advertised values).
func (j *Job) setHTL(htl uint32) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.htl = htl
}

// forwardRejectedOverload is idempotent: the first call sets the sticky
// bit and wakes waiters; later calls are no-ops (spec §4.5, §8.6).
func (j *Job) forwardRejectedOverload() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.hasForwardedRejectedOverload {
		return
	}
	j.hasForwardedRejectedOverload = true
	j.cond.Broadcast()
}

// beginCollisionHeaders overwrites the job's current headers with the
// remote's COLLISION_HEADERS payload (spec §4.3 Phase 4, step 1) and
// returns the headers that were in effect beforehand. This overwrite is
// transcribed verbatim even though the final reconstruction in
// finishCollision uses the pre-overwrite headers, not these — see the
// open question in spec §9 item 1. If the overwrite itself fails
// reconstruction, the job's visible headers are left unchanged.
func (j *Job) beginCollisionHeaders(remoteHeaders []byte) (oldHeaders []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	oldHeaders = j.block.Headers()
	if overwritten, err := block.NewSSKBlock(&block.Params{
		Key:     j.block.Key(),
		Headers: remoteHeaders,
		Data:    j.block.Data(),
		PubKey:  j.block.PubKey(),
	}); err == nil {
		j.block = overwritten
	}
	return oldHeaders
}

// finishCollision reconstructs the block from oldHeaders (the headers in
// effect before beginCollisionHeaders ran) and the remote's COLLISION_DATA
// payload, then flips the collision bits (spec §4.3 Phase 4, steps 3 and
// 5). It returns the block construction error, if any (step 4:
// INTERNAL_ERROR); the block is rebuilt with VerifyOnConstruct unset, so
// only the construction checks (public key present, data size) apply.
func (j *Job) finishCollision(oldHeaders, remoteData []byte) error {
	j.mu.Lock()
	key, pub := j.block.Key(), j.block.PubKey()
	j.mu.Unlock()

	newBlock, err := block.NewSSKBlock(&block.Params{
		Key:     key,
		Headers: oldHeaders,
		Data:    remoteData,
		PubKey:  pub,
	})
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.block = newBlock
	j.hasCollided = true
	j.hasRecentlyCollided = true
	j.cond.Broadcast()
	return nil
}

// finish atomically transitions status from RUNNING to code exactly once
// (spec §4.4, §8.1). lastPeerSuccess, when non-nil, is invoked with the
// job's monitor already released (spec: "outside the critical section").
func (j *Job) finish(code Status, lastPeerSuccess func()) {
	j.mu.Lock()
	if j.status != RUNNING {
		j.mu.Unlock()
		panic(ErrJobAlreadyFinished)
	}
	if code == ROUTE_NOT_FOUND && !j.sentRequest {
		code = ROUTE_REALLY_NOT_FOUND
	}
	j.status = code
	j.cond.Broadcast()
	j.mu.Unlock()

	if code == SUCCESS && lastPeerSuccess != nil {
		lastPeerSuccess()
	}
}

// addBytesSent/addBytesReceived are the byte-accounting sinks (spec §3,
// "Byte Accounting"), guarded by their own monitor per spec §5 so
// observers never block behind the job's critical-path state monitor.
func (j *Job) addBytesSent(n int) {
	j.bytesMu.Lock()
	defer j.bytesMu.Unlock()
	j.bytesSent += uint64(n)
}

func (j *Job) addBytesReceived(n int) {
	j.bytesMu.Lock()
	defer j.bytesMu.Unlock()
	j.bytesReceived += uint64(n)
}

// BytesSent returns the cumulative bytes sent on this job's behalf.
func (j *Job) BytesSent() uint64 {
	j.bytesMu.Lock()
	defer j.bytesMu.Unlock()
	return j.bytesSent
}

// BytesReceived returns the cumulative bytes received on this job's behalf.
func (j *Job) BytesReceived() uint64 {
	j.bytesMu.Lock()
	defer j.bytesMu.Unlock()
	return j.bytesReceived
}
