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

package waiter

import (
	"context"
	"testing"
	"time"

	"gnunet/config"
	"gnunet/core"
	"gnunet/message"
	"gnunet/util"
)

var testCfg = &config.NodeConfig{
	PrivateSeed: "YGoe6XFH3XdvFRl+agx9gIzPTvxA229WFdkazEMdcOs=",
}

func mustCore(t *testing.T) (*core.Core, *util.PeerID) {
	c, err := core.NewCore(context.Background(), testCfg)
	if err != nil {
		t.Fatal(err)
	}
	remoteID := util.NewPeerID([]byte("remote-peer-for-waiter-test....."))
	return c, remoteID
}

func TestWaitForMatchesByUID(t *testing.T) {
	c, remote := mustCore(t)
	f := NewFilter(remote, 42, message.ACCEPTED)

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Deliver(remote, message.NewAcceptedMsg(42, false), nil)
	}()

	msg, err := WaitFor(context.Background(), c, f, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if msg.GetUID() != 42 {
		t.Fatalf("expected uid 42, got %d", msg.GetUID())
	}
}

func TestWaitForIgnoresWrongUID(t *testing.T) {
	c, remote := mustCore(t)
	f := NewFilter(remote, 42, message.ACCEPTED)

	go func() {
		c.Deliver(remote, message.NewAcceptedMsg(99, false), nil)
		time.Sleep(20 * time.Millisecond)
		c.Deliver(remote, message.NewAcceptedMsg(42, false), nil)
	}()

	msg, err := WaitFor(context.Background(), c, f, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if msg.GetUID() != 42 {
		t.Fatalf("expected uid 42, got %d", msg.GetUID())
	}
}

func TestWaitForTimeout(t *testing.T) {
	c, remote := mustCore(t)
	f := NewFilter(remote, 1, message.ACCEPTED)

	_, err := WaitFor(context.Background(), c, f, 20*time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestWaitForMultipleMsgTypes(t *testing.T) {
	c, remote := mustCore(t)
	f := NewFilter(remote, 7, message.REJECTED_LOOP, message.ACCEPTED)

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Deliver(remote, message.NewRejectedLoopMsg(7), nil)
	}()

	msg, err := WaitFor(context.Background(), c, f, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Header().Type() != message.REJECTED_LOOP {
		t.Fatalf("expected REJECTED_LOOP, got %d", msg.Header().Type())
	}
}
