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

package core

import (
	"testing"

	"gnunet/config"
)

func mkPeer(t *testing.T, seed string, connected bool) *Peer {
	local, err := NewLocalPeer(&config.NodeConfig{PrivateSeed: seed})
	if err != nil {
		t.Fatal(err)
	}
	link := &fakeLink{connected: connected}
	p, err := NewPeer(local.GetIDString(), link)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPeerTableClosestPeer(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	pt := NewPeerTable(local.GetID())

	near := mkPeer(t, "iYK1wSi5XtCP774eNFk1LYXqKlOPEpwKBw+2/bMkE24=", true)
	far := mkPeer(t, "Bv9umksEO51jjWWrOGEH+4r8wl9Vi+LItpdBpTOi2PE=", true)

	pt.Add(near, 0.1)
	pt.Add(far, 0.9)

	if got := pt.ClosestPeer(0.12, nil, nil); got != near {
		t.Fatalf("expected near peer to win, got %v", got)
	}
	if got := pt.ClosestPeer(0.88, nil, nil); got != far {
		t.Fatalf("expected far peer to win, got %v", got)
	}
}

func TestPeerTableExclusionAndConnectivity(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	pt := NewPeerTable(local.GetID())

	p1 := mkPeer(t, "iYK1wSi5XtCP774eNFk1LYXqKlOPEpwKBw+2/bMkE24=", true)
	p2 := mkPeer(t, "Bv9umksEO51jjWWrOGEH+4r8wl9Vi+LItpdBpTOi2PE=", false)

	pt.Add(p1, 0.5)
	pt.Add(p2, 0.5)

	// p2 is disconnected, must never be returned
	if got := pt.ClosestPeer(0.5, nil, nil); got != p1 {
		t.Fatalf("expected p1 (only connected peer), got %v", got)
	}

	excluded := map[string]bool{p1.GetIDString(): true}
	if got := pt.ClosestPeer(0.5, excluded, nil); got != nil {
		t.Fatalf("expected no candidates once p1 excluded and p2 disconnected, got %v", got)
	}
}

func TestPeerTableRemove(t *testing.T) {
	local, err := NewLocalPeer(testCfg)
	if err != nil {
		t.Fatal(err)
	}
	pt := NewPeerTable(local.GetID())
	p := mkPeer(t, "iYK1wSi5XtCP774eNFk1LYXqKlOPEpwKBw+2/bMkE24=", true)
	pt.Add(p, 0.3)
	if pt.Size() != 1 {
		t.Fatalf("expected size 1, got %d", pt.Size())
	}
	pt.Remove(p.GetID())
	if pt.Size() != 0 {
		t.Fatalf("expected size 0 after remove, got %d", pt.Size())
	}
}
