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

// Package waiter implements the insert driver's typed, timed message wait:
// the spec's abstract usm.waitFor(filter, counter), built on core's event
// listener/filter machinery (see core.Listener, core.EventFilter).
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnunet/core"
	"gnunet/message"
	"gnunet/util"
)

// ErrTimeout is returned when no matching message arrives before the
// deadline. The driver treats this as a protocol event, not a fault.
var ErrTimeout = errors.New("waitFor: timed out")

// Filter narrows a wait to one peer, one request uid, and a set of
// acceptable message types. The insert protocol matches replies by uid
// rather than arrival order, so every message type handled by the wait
// loops must carry GetUID().
type Filter struct {
	Peer     *util.PeerID
	UID      uint64
	MsgTypes map[uint16]bool
}

// NewFilter builds a Filter for one peer/uid pair accepting msgTypes.
func NewFilter(peer *util.PeerID, uid uint64, msgTypes ...uint16) *Filter {
	f := &Filter{Peer: peer, UID: uid, MsgTypes: make(map[uint16]bool, len(msgTypes))}
	for _, t := range msgTypes {
		f.MsgTypes[t] = true
	}
	return f
}

func (f *Filter) matches(ev *core.Event) (message.InsertMessage, bool) {
	if ev.ID != core.EV_MESSAGE || ev.Msg == nil {
		return nil, false
	}
	if f.Peer != nil && (ev.Peer == nil || !ev.Peer.Equals(f.Peer)) {
		return nil, false
	}
	if !f.MsgTypes[ev.Msg.Header().Type()] {
		return nil, false
	}
	im, ok := ev.Msg.(message.InsertMessage)
	if !ok || im.GetUID() != f.UID {
		return nil, false
	}
	return im, true
}

// WaitFor blocks until a message matching f arrives on c, the context is
// canceled, or timeout elapses, whichever comes first. It registers and
// unregisters its own core.Listener, so callers need not manage one.
//
// Because the insert protocol tolerates reordering within a phase, the
// caller may need to call WaitFor repeatedly against the same filter
// (e.g. to pass a REJECTED_OVERLOAD upstream and keep waiting for
// the real reply) — each call is a single wait, not a subscription.
func WaitFor(ctx context.Context, c *core.Core, f *Filter, timeout time.Duration) (message.InsertMessage, error) {
	ch := make(chan *core.Event, 8)
	ef := core.NewEventFilter()
	ef.AddEvent(core.EV_MESSAGE)
	for mt := range f.MsgTypes {
		ef.AddMsgType(mt)
	}
	name := fmt.Sprintf("waiter-%d-%p", f.UID, f)
	c.Register(name, core.NewListener(ch, ef))
	defer c.Unregister(name)

	deadline, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		select {
		case ev := <-ch:
			if im, ok := f.matches(ev); ok {
				return im, nil
			}
		case <-deadline.Done():
			return nil, ErrTimeout
		}
	}
}
