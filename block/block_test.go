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

package block

import (
	"bytes"
	"crypto/dsa" //nolint:staticcheck // mirrors the production package's justified use
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"gnunet/crypto"
)

func genSignedBlock(t *testing.T, headers, data []byte) (*SSKBlock, *dsa.PrivateKey) {
	var params dsa.Parameters
	if err := dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160); err != nil {
		t.Fatal(err)
	}
	prv := new(dsa.PrivateKey)
	prv.Parameters = params
	if err := dsa.GenerateKey(prv, rand.Reader); err != nil {
		t.Fatal(err)
	}
	pub := crypto.NewSSKPublicKey(&prv.PublicKey)

	digest := sha256.New()
	digest.Write(headers)
	digest.Write(data)
	r, s, err := dsa.Sign(rand.Reader, prv, digest.Sum(nil))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSSKBlock(&Params{
		Key:               []byte("routing-key"),
		Headers:           headers,
		Data:              data,
		PubKey:            pub,
		VerifyOnConstruct: true,
		Sig:               struct{ R, S []byte }{R: r.Bytes(), S: s.Bytes()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return b, prv
}

func TestNewSSKBlockVerifies(t *testing.T) {
	genSignedBlock(t, []byte("hdr"), []byte("payload"))
}

func TestNewSSKBlockRejectsBadSignature(t *testing.T) {
	var params dsa.Parameters
	if err := dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160); err != nil {
		t.Fatal(err)
	}
	prv := new(dsa.PrivateKey)
	prv.Parameters = params
	if err := dsa.GenerateKey(prv, rand.Reader); err != nil {
		t.Fatal(err)
	}
	pub := crypto.NewSSKPublicKey(&prv.PublicKey)

	_, err := NewSSKBlock(&Params{
		Key:               []byte("routing-key"),
		Headers:           []byte("hdr"),
		Data:              []byte("payload"),
		PubKey:            pub,
		VerifyOnConstruct: true,
		Sig:               struct{ R, S []byte }{R: []byte{1}, S: []byte{2}},
	})
	if err != ErrBlockVerifyFailed {
		t.Fatalf("expected ErrBlockVerifyFailed, got %v", err)
	}
}

func TestNewSSKBlockRequiresPubKey(t *testing.T) {
	_, err := NewSSKBlock(&Params{Key: []byte("k"), Data: []byte("d")})
	if err != ErrBlockNoPublicKey {
		t.Fatalf("expected ErrBlockNoPublicKey, got %v", err)
	}
}

func TestNewSSKBlockRejectsOversizedData(t *testing.T) {
	var params dsa.Parameters
	if err := dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160); err != nil {
		t.Fatal(err)
	}
	prv := new(dsa.PrivateKey)
	prv.Parameters = params
	if err := dsa.GenerateKey(prv, rand.Reader); err != nil {
		t.Fatal(err)
	}
	pub := crypto.NewSSKPublicKey(&prv.PublicKey)

	_, err := NewSSKBlock(&Params{
		Key:    []byte("k"),
		Data:   make([]byte, MaxDataSize+1),
		PubKey: pub,
	})
	if err != ErrBlockDataTooBig {
		t.Fatalf("expected ErrBlockDataTooBig, got %v", err)
	}
}

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	b, _ := genSignedBlock(t, []byte("hdr"), []byte("payload"))
	buf := b.Encode()
	b2, err := DecodeBlock(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b2.Key(), b.Key()) || !bytes.Equal(b2.Headers(), b.Headers()) ||
		!bytes.Equal(b2.Data(), b.Data()) || !bytes.Equal(b2.PubKeyHash(), b.PubKeyHash()) {
		t.Fatal("decoded block does not match original")
	}
}

func TestBlockDecodeTruncated(t *testing.T) {
	if _, err := DecodeBlock([]byte{0, 0, 0}); err != ErrBlockDecodeTruncated {
		t.Fatalf("expected ErrBlockDecodeTruncated, got %v", err)
	}
}

func TestQueryMatches(t *testing.T) {
	b, _ := genSignedBlock(t, []byte("h"), []byte("d"))
	q := NewQuery(b.Key())
	if !q.Matches(b) {
		t.Fatal("expected query to match its own block's key")
	}
	other := NewQuery([]byte("different-key"))
	if other.Matches(b) {
		t.Fatal("expected query with different key to not match")
	}
}
