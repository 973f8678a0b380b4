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
	"testing"
	"time"

	"gnunet/config"
	"gnunet/message"
)

var testCfg = &config.NodeConfig{
	PrivateSeed: "YGoe6XFH3XdvFRl+agx9gIzPTvxA229WFdkazEMdcOs=",
	Endpoints: []*config.EndpointConfig{
		{
			ID:      "test",
			Network: "r5n+ip+udp",
			Address: "127.0.0.1",
			Port:    6666,
		},
	},
}

func TestLocalPeerSignVerify(t *testing.T) {
	p, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("an SSK insert request")
	sig, err := p.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := p.Verify(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("signature did not verify")
	}
}

//----------------------------------------------------------------------
// fakeLink is a minimal in-memory Link for tests: always connected
// (unless told otherwise), records sent messages.
//----------------------------------------------------------------------

type fakeLink struct {
	sent      []message.Message
	connected bool
}

func (l *fakeLink) Connected() bool { return l.connected }

func (l *fakeLink) Send(ctx context.Context, msg message.Message) (int, error) {
	l.sent = append(l.sent, msg)
	return 1, nil
}

func TestRemotePeerSendAsync(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	link := &fakeLink{connected: true}
	remote, err := NewPeer(local.GetIDString(), link)
	if err != nil {
		t.Fatal(err)
	}
	if !remote.Connected() {
		t.Fatal("expected peer to be connected")
	}
	req := message.NewInsertRequestMsg(1, 10, []byte("key"))
	if err := remote.SendAsync(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	// give the fire-and-forget goroutine a moment to run
	time.Sleep(10 * time.Millisecond)
	if len(link.sent) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(link.sent))
	}
}

func TestRemotePeerNotConnected(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	link := &fakeLink{connected: false}
	remote, err := NewPeer(local.GetIDString(), link)
	if err != nil {
		t.Fatal(err)
	}
	req := message.NewInsertRequestMsg(1, 10, []byte("key"))
	if err := remote.SendAsync(context.Background(), req); err != ErrPeerNotConnected {
		t.Fatalf("expected ErrPeerNotConnected, got %v", err)
	}
}

func TestPeerReputationCounters(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	link := &fakeLink{connected: true}
	p, err := NewPeer(local.GetIDString(), link)
	if err != nil {
		t.Fatal(err)
	}
	p.LocalRejectedOverload("test")
	p.SuccessNotOverload()
	p.OnSuccess(true, true)
	lo, sno, s := p.Stats()
	if lo != 1 || sno != 1 || s != 1 {
		t.Fatalf("unexpected counters: %d %d %d", lo, sno, s)
	}
}
