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

package crypto

import "testing"

func TestDeriveTargetRange(t *testing.T) {
	for _, key := range [][]byte{
		[]byte("some-pubkey-hash-a"),
		[]byte("some-pubkey-hash-b"),
		{},
	} {
		target := DeriveTarget(key)
		if target < 0 || target >= 1 {
			t.Fatalf("target %f out of [0,1) range for key %v", target, key)
		}
	}
}

func TestDeriveTargetDeterministic(t *testing.T) {
	key := []byte("same-key-every-time")
	a := DeriveTarget(key)
	b := DeriveTarget(key)
	if a != b {
		t.Fatalf("expected deterministic target, got %f and %f", a, b)
	}
}

func TestDeriveTargetDistinctKeys(t *testing.T) {
	a := DeriveTarget([]byte("key-one"))
	b := DeriveTarget([]byte("key-two"))
	if a == b {
		t.Fatal("expected different keys to map to different targets")
	}
}

func TestDistanceWraparound(t *testing.T) {
	// 0.01 and 0.99 are close on the circle (distance 0.02), not far
	// apart as a naive linear difference (0.98) would suggest.
	d := Distance(0.01, 0.99)
	if d < 0.015 || d > 0.025 {
		t.Fatalf("expected wraparound distance near 0.02, got %f", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	if Distance(0.3, 0.7) != Distance(0.7, 0.3) {
		t.Fatal("distance must be symmetric")
	}
}

func TestDistanceZero(t *testing.T) {
	if d := Distance(0.42, 0.42); d != 0 {
		t.Fatalf("expected zero distance for equal coordinates, got %f", d)
	}
}

func TestDistanceMaxBound(t *testing.T) {
	// maximum possible circular distance is 0.5 (diametrically opposite)
	if d := Distance(0, 0.5); d != 0.5 {
		t.Fatalf("expected max distance of 0.5, got %f", d)
	}
}
