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
	"context"
	"errors"

	"gnunet/config"
	"gnunet/message"
	"gnunet/util"

	"github.com/bfix/gospel/logger"
)

// Core-related error codes
var (
	ErrCoreUnknownPeer = errors.New("unknown peer")
	ErrCoreNotSent     = errors.New("message not sent")
)

// CtxKey is a value-context key
type CtxKey string

//----------------------------------------------------------------------
// Core service
//
// Core owns the local peer identity, the registry of known remote
// peers (each carrying its own Link into the transport), and the
// event fan-out used by the insert sender to learn about incoming
// messages. It intentionally knows nothing about how a Link is
// established; that is the concern of whatever wires a Peer's Link
// field before handing it to AddPeer.
//----------------------------------------------------------------------
type Core struct {
	// local peer instance
	local *Peer

	// registered signal listeners
	listeners map[string]*Listener

	// known remote peers by id string
	peers *util.Map[string, *Peer]

	// peers we have already announced as connected
	connected *util.Map[string, bool]
}

//----------------------------------------------------------------------

// NewCore creates a new core instance around the local node identity.
func NewCore(ctx context.Context, node *config.NodeConfig) (c *Core, err error) {
	var peer *Peer
	if peer, err = NewLocalPeer(node); err != nil {
		return
	}
	logger.Printf(logger.INFO, "[core] Local node is %s", peer.GetID().Short())

	c = &Core{
		local:     peer,
		listeners: make(map[string]*Listener),
		peers:     util.NewMap[string, *Peer](),
		connected: util.NewMap[string, bool](),
	}
	return
}

//----------------------------------------------------------------------

// AddPeer registers a remote peer (with its link already attached) and
// fires an EV_CONNECT event the first time it is seen.
func (c *Core) AddPeer(p *Peer) {
	id := p.GetIDString()
	c.peers.Put(id, p, 0)
	if _, seen := c.connected.Get(id, 0); !seen {
		c.connected.Put(id, true, 0)
		c.dispatch(&Event{
			ID:   EV_CONNECT,
			Peer: p.GetID(),
		})
	}
}

// RemovePeer drops a remote peer from the registry and fires EV_DISCONNECT.
func (c *Core) RemovePeer(id *util.PeerID) {
	s := id.String()
	c.peers.Delete(s, 0)
	c.connected.Delete(s, 0)
	c.dispatch(&Event{
		ID:   EV_DISCONNECT,
		Peer: id,
	})
}

// Peer looks up a known remote peer by id.
func (c *Core) Peer(id *util.PeerID) (p *Peer, ok bool) {
	return c.peers.Get(id.String(), 0)
}

// Deliver hands an incoming message to core for event dispatch. It is
// called by whatever owns the actual wire connection to a peer.
func (c *Core) Deliver(peer *util.PeerID, msg message.Message, link Link) {
	c.dispatch(&Event{
		ID:   EV_MESSAGE,
		Peer: peer,
		Msg:  msg,
		Link: link,
	})
}

// Shutdown releases core resources.
func (c *Core) Shutdown() {}

//----------------------------------------------------------------------

// Send looks up a registered peer and fires an asynchronous send.
func (c *Core) Send(ctx context.Context, peer *util.PeerID, msg message.Message) error {
	p, ok := c.Peer(peer)
	if !ok {
		return ErrCoreUnknownPeer
	}
	return p.SendAsync(ctx, msg)
}

//----------------------------------------------------------------------

// LocalPeer returns the local peer
func (c *Core) LocalPeer() *Peer {
	return c.local
}

// PeerID returns the peer id of the local node.
func (c *Core) PeerID() *util.PeerID {
	return c.local.GetID()
}

//----------------------------------------------------------------------
// Event listener and event dispatch.
//----------------------------------------------------------------------

// Register a named event listener.
func (c *Core) Register(name string, l *Listener) {
	c.listeners[name] = l
}

// Unregister named event listener.
func (c *Core) Unregister(name string) *Listener {
	if l, ok := c.listeners[name]; ok {
		delete(c.listeners, name)
		return l
	}
	return nil
}

// internal: dispatch event to listeners
func (c *Core) dispatch(ev *Event) {
	for _, l := range c.listeners {
		if l.filter.CheckEvent(ev.ID) {
			if ev.ID == EV_MESSAGE && ev.Msg != nil {
				mt := ev.Msg.Header().Type()
				if mt != 0 && !l.filter.CheckMsgType(mt) {
					continue
				}
			}
			go func(l *Listener) {
				l.ch <- ev
			}(l)
		}
	}
}
