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

	"gnunet/block"
	"gnunet/core"
	"gnunet/util"

	"github.com/bfix/gospel/logger"
)

// Sender is the top-level Insert Sender loop (spec §4.1): it owns one
// Job plus the Routing Controller and Driver needed to drive it, and
// deregisters itself from the node-wide Registry on every exit path.
type Sender struct {
	job       *Job
	registry  *Registry
	routing   *RoutingController
	driver    *Driver
	htlPolicy *HTLPolicy
}

// NewSender builds an InsertJob around b and the executor state needed to
// run it, and registers it under (key, origHTL). Returns ErrJobLoop if
// a job is already registered for that pair (spec §4.1 "Registration").
func NewSender(reg *Registry, table *core.PeerTable, driver *Driver, policy *HTLPolicy, b *block.SSKBlock, uid uint64, htl uint32, source *util.PeerID, fromStore, canWriteClientCache, canWriteDatastore bool) (*Sender, error) {
	job, err := NewJob(b, uid, htl, source, fromStore, canWriteClientCache, canWriteDatastore)
	if err != nil {
		return nil, err
	}
	s := &Sender{
		job:       job,
		registry:  reg,
		routing:   NewRoutingController(table),
		driver:    driver,
		htlPolicy: policy,
	}
	if !reg.Add(job) {
		return nil, ErrJobLoop
	}
	return s, nil
}

// Job exposes the running job for observers (spec §6 "Exposed to callers").
func (s *Sender) Job() *Job { return s.job }

// Start runs the job synchronously on the calling goroutine. The caller
// is expected to invoke this from the node's worker pool (spec §4.1
// "start() schedules the job ... at high priority"); this package does
// not itself own a scheduler (see Executor in executor.go, which the
// node's cmd/ wiring creates).
func (s *Sender) Start(ctx context.Context) {
	defer s.registry.Remove(s.job)
	defer s.recoverPanic()
	s.run(ctx)
}

// recoverPanic logs any uncaught fault and finalizes the job as
// INTERNAL_ERROR if it is still RUNNING. The explicit double-finish panic
// (spec §4.1, §7) is recovered and logged the same way; the job keeps the
// terminal status it already had.
func (s *Sender) recoverPanic() {
	if r := recover(); r != nil {
		logger.Printf(logger.ERROR, "[sender] uid=%d panic: %v", s.job.UID(), r)
		s.job.mu.Lock()
		if s.job.status == RUNNING {
			s.job.status = INTERNAL_ERROR
			s.job.cond.Broadcast()
		}
		s.job.mu.Unlock()
	}
}

// run executes the per-iteration algorithm of spec §4.1 until the job
// reaches a terminal status.
func (s *Sender) run(ctx context.Context) {
	var lastPeer *core.Peer

	for {
		// 1. HTL decrement. The policy (HTLPolicy.Decrement) depends on the
		// HTL value only; it takes no requestor input, so the previously
		// chosen peer and the original source are not told apart here.
		newHTL := s.htlPolicy.Decrement(s.job.GetHTL())
		s.job.setHTL(newHTL)

		// 2. Boundary check.
		if s.job.GetHTL() == 0 {
			s.driver.persistOnSuccess(s.job)
			s.job.finish(SUCCESS, successCallback(lastPeer))
			return
		}

		// 3. Peer selection.
		peer := s.routing.PickNext(s.job.Target(), nil)
		if peer == nil {
			s.job.finish(ROUTE_NOT_FOUND, nil)
			return
		}

		// 4. Hop protocol.
		outcome := s.driver.RunHop(ctx, s.job, peer)
		switch outcome.Kind {
		case HopTerminate:
			s.job.finish(outcome.Status, successCallback(outcome.LastPeer))
			return
		case HopAdjustHTL:
			s.job.clampHTL(outcome.NewHTL)
			lastPeer = peer
		case HopRetry:
			lastPeer = peer
		}
	}
}

// successCallback wraps the spec §4.4 "on SUCCESS with a known lastPeer,
// additionally invoke lastPeer.onSuccess(local=true, insert=true)
// outside the critical section" rule.
func successCallback(p *core.Peer) func() {
	if p == nil {
		return nil
	}
	return func() { p.OnSuccess(true, true) }
}

// ErrJobLoop is returned when a job is already registered for this
// (key, origHTL) pair — a loop or duplicate request.
var ErrJobLoop = jobLoopErr{}

type jobLoopErr struct{}

func (jobLoopErr) Error() string { return "insert: job already registered for this key/htl (loop)" }
