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
	"crypto/dsa" //nolint:staticcheck // SSK subspace keys are DSA by definition, not a new design choice
	"crypto/sha256"
	"errors"
	"math/big"
)

// Errors returned by SSK public key handling
var (
	ErrSSKInvalidKey       = errors.New("invalid SSK public key encoding")
	ErrSSKSignatureInvalid = errors.New("SSK signature does not verify")
)

// SSKPublicKey is the DSA public key identifying a signed subspace. Its
// SHA-256 hash is the routing identity used throughout the insert path.
//
// crypto/dsa is the only DSA implementation in reach here: no package in
// the dependency pack offers subspace-style DSA keys, and the spec fixes
// the key type, so there is no library choice to make.
type SSKPublicKey struct {
	Y *big.Int
	P *big.Int
	Q *big.Int
	G *big.Int
}

// NewSSKPublicKey wraps a raw DSA public key as an SSK routing identity.
func NewSSKPublicKey(pub *dsa.PublicKey) *SSKPublicKey {
	return &SSKPublicKey{
		Y: pub.Y,
		P: pub.P,
		Q: pub.Q,
		G: pub.G,
	}
}

// Raw returns the standard library representation for verification.
func (k *SSKPublicKey) Raw() *dsa.PublicKey {
	return &dsa.PublicKey{
		Parameters: dsa.Parameters{P: k.P, Q: k.Q, G: k.G},
		Y:          k.Y,
	}
}

// Bytes returns a deterministic binary encoding of the public key,
// suitable for hashing and for wire transfer in a PUBKEY message.
func (k *SSKPublicKey) Bytes() []byte {
	out := make([]byte, 0, 4*64)
	for _, v := range []*big.Int{k.P, k.Q, k.G, k.Y} {
		b := v.Bytes()
		var len4 [4]byte
		len4[0] = byte(len(b) >> 24)
		len4[1] = byte(len(b) >> 16)
		len4[2] = byte(len(b) >> 8)
		len4[3] = byte(len(b))
		out = append(out, len4[:]...)
		out = append(out, b...)
	}
	return out
}

// SSKPublicKeyFromBytes decodes the wire encoding produced by Bytes.
func SSKPublicKeyFromBytes(buf []byte) (*SSKPublicKey, error) {
	vals := make([]*big.Int, 0, 4)
	pos := 0
	for i := 0; i < 4; i++ {
		if pos+4 > len(buf) {
			return nil, ErrSSKInvalidKey
		}
		n := int(buf[pos])<<24 | int(buf[pos+1])<<16 | int(buf[pos+2])<<8 | int(buf[pos+3])
		pos += 4
		if pos+n > len(buf) {
			return nil, ErrSSKInvalidKey
		}
		vals = append(vals, new(big.Int).SetBytes(buf[pos:pos+n]))
		pos += n
	}
	return &SSKPublicKey{P: vals[0], Q: vals[1], G: vals[2], Y: vals[3]}, nil
}

// Hash returns the SHA-256 hash of the public key encoding: the routing
// identity the spec calls pubKeyHash.
func (k *SSKPublicKey) Hash() []byte {
	sum := sha256.Sum256(k.Bytes())
	return sum[:]
}

// VerifySSKSignature checks a DSA signature (r,s) over data with this key.
func VerifySSKSignature(pub *SSKPublicKey, data []byte, r, s *big.Int) error {
	if !dsa.Verify(pub.Raw(), data, r, s) {
		return ErrSSKSignatureInvalid
	}
	return nil
}
