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
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"gnunet/config"
	"gnunet/message"
	"gnunet/util"

	"github.com/bfix/gospel/crypto/ed25519"
	"github.com/bfix/gospel/logger"
)

// Errors returned by peer operations.
var (
	ErrPeerNoPrivateKey = errors.New("peer has no private key")
	ErrPeerNotConnected = errors.New("peer not connected")
)

// Link is the abstract, narrow interface onto the underlying reliable/
// throttled transport. Its implementation (connection pooling, wire
// framing, retransmission) is not specified here; the insert sender
// only ever calls through this interface.
type Link interface {
	// Connected reports whether a send attempt is expected to succeed.
	Connected() bool
	// Send transmits a message to the peer and reports bytes written.
	Send(ctx context.Context, msg message.Message) (int, error)
}

//----------------------------------------------------------------------
// P2P overlay node (local or remote):
//
// * A LOCAL node has a long-term EdDSA key pair used for signing. The
//   public key is the node identifier (PeerID).
// * A REMOTE node only has a public EdDSA key used by the local node
//   to verify signatures from the remote node, plus the reputation and
//   link state the insert sender consults on every hop.
//----------------------------------------------------------------------

// Peer represents a node in the overlay network.
type Peer struct {
	prv      *ed25519.PrivateKey // node private key (long-term signing key); nil for remote peers
	pub      *ed25519.PublicKey  // node public key (=identifier)
	idString string              // node identifier as string
	link     Link                // transport link to this peer (nil for the local peer)

	mu                      sync.Mutex
	localOverloadCount      int
	successNotOverloadCount int
	successCount            int
}

// NewLocalPeer creates a new local node from configuration data.
func NewLocalPeer(cfg *config.NodeConfig) (p *Peer, err error) {
	p = new(Peer)
	var seed []byte
	if seed, err = base64.StdEncoding.DecodeString(cfg.PrivateSeed); err != nil {
		return
	}
	p.prv = ed25519.NewPrivateKeyFromSeed(seed)
	p.pub = p.prv.Public()
	p.idString = util.EncodeBinaryToString(p.pub.Bytes())
	return
}

// NewPeer instantiates a new remote peer object from a peer ID string
// and the link used to reach it.
func NewPeer(peerID string, link Link) (p *Peer, err error) {
	p = new(Peer)
	var data []byte
	if data, err = util.DecodeStringToBinary(peerID, 32); err != nil {
		return
	}
	p.pub = ed25519.NewPublicKeyFromBytes(data)
	p.idString = util.EncodeBinaryToString(p.pub.Bytes())
	p.link = link
	return
}

//----------------------------------------------------------------------

// PrvKey return the private key of the node.
func (p *Peer) PrvKey() *ed25519.PrivateKey {
	return p.prv
}

// PubKey return the public key of the node.
func (p *Peer) PubKey() *ed25519.PublicKey {
	return p.pub
}

// GetID returns the node ID (public key) in binary format
func (p *Peer) GetID() *util.PeerID {
	return &util.PeerID{
		Key: util.Clone(p.pub.Bytes()),
	}
}

// GetIDString returns the string representation of the public key of the node.
func (p *Peer) GetIDString() string {
	return p.idString
}

// Sign a message with the (long-term) private key.
func (p *Peer) Sign(msg []byte) (*ed25519.EdSignature, error) {
	if p.prv == nil {
		return nil, ErrPeerNoPrivateKey
	}
	return p.prv.EdSign(msg)
}

// Verify a message signature with the public key of a peer.
func (p *Peer) Verify(msg []byte, sig *ed25519.EdSignature) (bool, error) {
	return p.pub.EdVerify(msg, sig)
}

//----------------------------------------------------------------------
// Connection state and message dispatch
//----------------------------------------------------------------------

// Connected reports whether the peer currently looks reachable.
func (p *Peer) Connected() bool {
	return p.link != nil && p.link.Connected()
}

// SendAsync is a fire-and-forget send; it reports ErrPeerNotConnected
// immediately rather than blocking if the link is down, matching the
// "may throw not connected" contract the insert sender relies on.
func (p *Peer) SendAsync(ctx context.Context, msg message.Message) error {
	if !p.Connected() {
		return ErrPeerNotConnected
	}
	go func() {
		if _, err := p.link.Send(ctx, msg); err != nil {
			logger.Printf(logger.WARN, "[peer %s] send failed: %s", p.GetID().Short(), err.Error())
		}
	}()
	return nil
}

// SendThrottledMessage is a rate-limited send used for the data push:
// it blocks until the message is handed to the link or the timeout
// elapses, whichever comes first.
func (p *Peer) SendThrottledMessage(ctx context.Context, msg message.Message, timeout time.Duration) (int, error) {
	if !p.Connected() {
		return 0, ErrPeerNotConnected
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := p.link.Send(cctx, msg)
		ch <- result{n, err}
	}()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-cctx.Done():
		return 0, cctx.Err()
	}
}

//----------------------------------------------------------------------
// Reputation bookkeeping
//----------------------------------------------------------------------

// LocalRejectedOverload records that this peer itself rejected a
// request as overloaded (as opposed to forwarding a downstream one).
func (p *Peer) LocalRejectedOverload(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.localOverloadCount++
	logger.Printf(logger.INFO, "[peer %s] local overload (%s), total=%d",
		p.GetID().Short(), label, p.localOverloadCount)
}

// SuccessNotOverload records a non-overload outcome that nonetheless
// didn't amount to a full insert success (e.g. ROUTE_NOT_FOUND, REJECTED_LOOP).
func (p *Peer) SuccessNotOverload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.successNotOverloadCount++
}

// OnSuccess records a fully successful exchange with this peer.
func (p *Peer) OnSuccess(local, insert bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.successCount++
}

// Stats returns the raw reputation counters (for tests and diagnostics).
func (p *Peer) Stats() (localOverload, successNotOverload, success int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localOverloadCount, p.successNotOverloadCount, p.successCount
}
