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

package store

import (
	"crypto/dsa" //nolint:staticcheck // mirrors production package's justified use
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"gnunet/block"
	"gnunet/crypto"
)

// memKVS is a minimal in-process util.KeyValueStore for tests.
type memKVS struct {
	data map[string]string
}

func newMemKVS() *memKVS { return &memKVS{data: make(map[string]string)} }

func (m *memKVS) Put(key, value string) error { m.data[key] = value; return nil }
func (m *memKVS) Get(key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}
func (m *memKVS) List() ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func genBlock(t *testing.T, key, headers, data []byte) *block.SSKBlock {
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
	b, err := block.NewSSKBlock(&block.Params{
		Key:               key,
		Headers:           headers,
		Data:              data,
		PubKey:            pub,
		VerifyOnConstruct: true,
		Sig:               struct{ R, S []byte }{R: r.Bytes(), S: s.Bytes()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBlockStorePutGet(t *testing.T) {
	s := NewBlockStoreFromKVS(newMemKVS())
	b := genBlock(t, []byte("key-a"), []byte("hdr"), []byte("data"))

	if err := s.Put(b); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(b.Key())
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != b.String() {
		t.Fatalf("round-tripped block differs: %s vs %s", got, b)
	}
}

func TestBlockStoreGetMissing(t *testing.T) {
	s := NewBlockStoreFromKVS(newMemKVS())
	if _, err := s.Get([]byte("nope")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckCollisionNoPriorBlock(t *testing.T) {
	s := NewBlockStoreFromKVS(newMemKVS())
	incoming := genBlock(t, []byte("key-a"), []byte("hdr"), []byte("data"))

	existing, fromStore, collides := s.CheckCollision(incoming)
	if existing != nil || fromStore || collides {
		t.Fatal("expected no collision data when nothing is stored yet")
	}
}

func TestCheckCollisionSameKeySamePubkey(t *testing.T) {
	s := NewBlockStoreFromKVS(newMemKVS())
	stored := genBlock(t, []byte("key-a"), []byte("hdr"), []byte("data"))
	if err := s.Put(stored); err != nil {
		t.Fatal(err)
	}

	existing, fromStore, _ := s.CheckCollision(stored)
	if existing == nil || !fromStore {
		t.Fatal("expected fromStore lookup to find the stored block")
	}
}

func TestCheckCollisionDifferentPubkey(t *testing.T) {
	s := NewBlockStoreFromKVS(newMemKVS())
	stored := genBlock(t, []byte("key-a"), []byte("hdr"), []byte("data"))
	if err := s.Put(stored); err != nil {
		t.Fatal(err)
	}

	other := genBlock(t, []byte("key-a"), []byte("hdr"), []byte("different-data-under-same-key"))
	_, fromStore, collides := s.CheckCollision(other)
	if !fromStore || !collides {
		t.Fatal("expected a collision against a different signer under the same key")
	}
}
