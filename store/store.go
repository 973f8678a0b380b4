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

// Package store holds the local SSK block store the insert driver writes
// successful inserts into, on top of the generic string key/value store
// abstraction.
package store

import (
	"encoding/base64"
	"errors"

	"github.com/bfix/gospel/logger"

	"gnunet/block"
	"gnunet/config"
	"gnunet/util"
)

// ErrNotFound is returned when a key has no stored block.
var ErrNotFound = errors.New("no block under this key")

// BlockStore persists SSK blocks keyed by their routing key, backed by a
// util.KeyValueStore (redis/sqlite3/mysql, chosen by spec string).
type BlockStore struct {
	kvs util.KeyValueStore
}

// NewBlockStore opens the store named by cfg.DataStore.
func NewBlockStore(cfg *config.StoreConfig) (*BlockStore, error) {
	return NewBlockStoreFromSpec(cfg.DataStore)
}

// NewClientCache opens the short-lived client-cache tier named by
// cfg.ClientCache. It is a distinct backing store from NewBlockStore's
// persistent datastore, typically pointed at a redis spec string (spec
// §6 "canWriteClientCache" vs. "canWriteDatastore").
func NewClientCache(cfg *config.StoreConfig) (*BlockStore, error) {
	return NewBlockStoreFromSpec(cfg.ClientCache)
}

// NewBlockStoreFromSpec opens a BlockStore from a raw util.OpenKVStore
// spec string, independent of which StoreConfig field named it.
func NewBlockStoreFromSpec(spec string) (*BlockStore, error) {
	kvs, err := util.OpenKVStore(spec)
	if err != nil {
		return nil, err
	}
	return &BlockStore{kvs: kvs}, nil
}

// NewBlockStoreFromKVS wraps an already-open store; used by tests to avoid
// standing up a real redis/sqlite backend.
func NewBlockStoreFromKVS(kvs util.KeyValueStore) *BlockStore {
	return &BlockStore{kvs: kvs}
}

func encodeKey(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

// Get returns the block stored under key, or ErrNotFound.
func (s *BlockStore) Get(key []byte) (*block.SSKBlock, error) {
	raw, err := s.kvs.Get(encodeKey(key))
	if err != nil {
		return nil, ErrNotFound
	}
	buf, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	return block.DecodeBlock(buf)
}

// Put stores b under its own routing key, overwriting any prior block.
func (s *BlockStore) Put(b *block.SSKBlock) error {
	return s.kvs.Put(encodeKey(b.Key()), base64.StdEncoding.EncodeToString(b.Encode()))
}

// CheckCollision looks up the existing block (if any) under incoming's key
// and reports whether incoming collides with a different, already-stored
// block; fromStore is true exactly when this lookup found a prior block to
// compare against. The insert driver does not call it: its Phase-4
// collision handling works from the remote's COLLISION_* messages.
func (s *BlockStore) CheckCollision(incoming *block.SSKBlock) (existing *block.SSKBlock, fromStore bool, collides bool) {
	existing, err := s.Get(incoming.Key())
	if err != nil {
		return nil, false, false
	}
	fromStore = true
	collides = string(existing.PubKeyHash()) != string(incoming.PubKeyHash()) ||
		string(existing.Headers()) != string(incoming.Headers())
	return existing, fromStore, collides
}

// LogVerifyFailure emits the error-level log the spec requires when a
// verification failure is traced back to a block that came from this
// store rather than the network (see driver's DATA_INSERT_REJECTED path).
func LogVerifyFailure(fromStore bool, key []byte) {
	if fromStore {
		logger.Printf(logger.ERROR, "[store] VERIFY_FAILED on locally stored block %s\n", encodeKey(key))
	}
}
