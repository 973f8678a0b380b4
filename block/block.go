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

// Package block defines the Signed Subspace Key block: the immutable
// (except for collision-driven replacement) payload the insert sender
// pushes through the overlay.
package block

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"gnunet/crypto"
)

// MaxDataSize is the largest permitted payload for one SSK block.
const MaxDataSize = 1024

// Errors returned while building or reconstructing a block.
var (
	ErrBlockNoPublicKey     = errors.New("SSK block has no public key")
	ErrBlockDataTooBig      = errors.New("SSK block data exceeds 1 KiB")
	ErrBlockVerifyFailed    = errors.New("SSK block failed verification")
	ErrBlockDecodeTruncated = errors.New("SSK block encoding truncated")
)

// SSKBlock is the immutable tuple {key, headers, data, publicKey}.
// "Immutable" is a per-construction property only: the insert job
// replaces the whole block wholesale when a collision hands it a
// different one to propagate (see insert.Job.beginCollisionHeaders and
// insert.Job.finishCollision).
type SSKBlock struct {
	key        []byte
	headers    []byte
	data       []byte
	pubKey     *crypto.SSKPublicKey
	pubKeyHash []byte
}

// Params bundles the constructor arguments for a new SSKBlock.
type Params struct {
	Key            []byte
	Headers        []byte
	Data           []byte
	PubKey         *crypto.SSKPublicKey
	VerifyOnConstruct bool
	Sig            struct {
		R, S []byte
	}
}

// NewSSKBlock builds a block from its parts. If VerifyOnConstruct is set
// and a public key is present, the signature over headers+data is
// checked; pass VerifyOnConstruct=false for collision-reconstructed
// blocks whose signature the driver has already accepted once upstream.
func NewSSKBlock(p *Params) (*SSKBlock, error) {
	if p.PubKey == nil {
		return nil, ErrBlockNoPublicKey
	}
	if len(p.Data) > MaxDataSize {
		return nil, ErrBlockDataTooBig
	}
	b := &SSKBlock{
		key:        cloneBytes(p.Key),
		headers:    cloneBytes(p.Headers),
		data:       cloneBytes(p.Data),
		pubKey:     p.PubKey,
		pubKeyHash: p.PubKey.Hash(),
	}
	if p.VerifyOnConstruct {
		r := new(big.Int).SetBytes(p.Sig.R)
		s := new(big.Int).SetBytes(p.Sig.S)
		if err := crypto.VerifySSKSignature(p.PubKey, b.signedData(), r, s); err != nil {
			return nil, ErrBlockVerifyFailed
		}
	}
	return b, nil
}

// signedData returns the digest the block's DSA signature covers.
func (b *SSKBlock) signedData() []byte {
	h := sha256.New()
	h.Write(b.headers)
	h.Write(b.data)
	return h.Sum(nil)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Key returns the SSK routing key.
func (b *SSKBlock) Key() []byte { return b.key }

// Headers returns the opaque header bytes.
func (b *SSKBlock) Headers() []byte { return b.headers }

// Data returns the payload bytes (at most MaxDataSize).
func (b *SSKBlock) Data() []byte { return b.data }

// PubKey returns the block's DSA public key.
func (b *SSKBlock) PubKey() *crypto.SSKPublicKey { return b.pubKey }

// PubKeyHash returns the SHA-256 hash of the public key: the routing
// identity. Note this is deliberately distinct from Headers(); an
// earlier revision of this logic conflated the two (see spec notes on
// getPubkeyHash), which this implementation does not reproduce.
func (b *SSKBlock) PubKeyHash() []byte { return b.pubKeyHash }

// Encode serializes the block (including its public key) for storage.
// It deliberately skips the signature: a block read back out of the
// store is treated as already-verified (VerifyOnConstruct=false).
func (b *SSKBlock) Encode() []byte {
	var out []byte
	for _, part := range [][]byte{b.key, b.headers, b.data, b.pubKey.Bytes()} {
		var len4 [4]byte
		len4[0] = byte(len(part) >> 24)
		len4[1] = byte(len(part) >> 16)
		len4[2] = byte(len(part) >> 8)
		len4[3] = byte(len(part))
		out = append(out, len4[:]...)
		out = append(out, part...)
	}
	return out
}

// DecodeBlock reverses Encode.
func DecodeBlock(buf []byte) (*SSKBlock, error) {
	parts := make([][]byte, 0, 4)
	pos := 0
	for i := 0; i < 4; i++ {
		if pos+4 > len(buf) {
			return nil, ErrBlockDecodeTruncated
		}
		n := int(buf[pos])<<24 | int(buf[pos+1])<<16 | int(buf[pos+2])<<8 | int(buf[pos+3])
		pos += 4
		if pos+n > len(buf) {
			return nil, ErrBlockDecodeTruncated
		}
		parts = append(parts, buf[pos:pos+n])
		pos += n
	}
	pub, err := crypto.SSKPublicKeyFromBytes(parts[3])
	if err != nil {
		return nil, err
	}
	return NewSSKBlock(&Params{Key: parts[0], Headers: parts[1], Data: parts[2], PubKey: pub})
}

// String returns a human-readable representation of the block.
func (b *SSKBlock) String() string {
	return fmt.Sprintf("SSKBlock{key=%s,pubKeyHash=%s,data=[%d]byte}",
		hex.EncodeToString(b.key), hex.EncodeToString(b.pubKeyHash), len(b.data))
}

// Query is a lookup descriptor for an SSK key, used by the local store
// to check for an existing (possibly colliding) block under the key.
type Query struct {
	Key []byte
}

// NewQuery creates a Query for the given routing key.
func NewQuery(key []byte) *Query {
	return &Query{Key: cloneBytes(key)}
}

// Matches reports whether a stored block answers this query.
func (q *Query) Matches(b *SSKBlock) bool {
	return bytes.Equal(q.Key, b.key)
}
