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

package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// targetSpace is 2^256, the normalization modulus for routing coordinates.
var targetSpace = new(big.Int).Lsh(big.NewInt(1), 256)

// DeriveTarget turns an SSK routing key into a normalized coordinate in
// [0,1) on the overlay's routing ring. It follows the same HKDF
// extract/expand shape as DeriveH, but with its own domain-separation
// label so the two derivations can never collide.
func DeriveTarget(key []byte) float64 {
	prk := hkdf.Extract(sha512.New, key, []byte("ssk-routing-target"))
	rdr := hkdf.Expand(sha256.New, prk, []byte("target-coordinate"))
	b := make([]byte, 32)
	if _, err := rdr.Read(b); err != nil {
		// HKDF.Read only fails if asked for more output than the
		// expand step allows; 32 bytes from a SHA-256 expand never does.
		panic(err)
	}
	n := new(big.Int).SetBytes(b)
	f := new(big.Float).SetInt(n)
	f.Quo(f, new(big.Float).SetInt(targetSpace))
	coord, _ := f.Float64()
	return coord
}

// Distance returns the absolute distance between two routing coordinates
// on the [0,1) ring, taking wraparound into account.
func Distance(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 0.5 {
		d = 1 - d
	}
	return d
}
