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

package insert

import (
	"encoding/hex"
	"fmt"

	"gnunet/util"
)

// Registry is the node-wide table of in-flight inserts keyed on
// (key, origHTL), used by peers to detect loops (spec §4.1
// "Registration"). Modeled on the teacher's TaskList (same generic
// Map-backed add/remove shape), repurposed for loop detection instead
// of result dispatch.
type Registry struct {
	list  *util.Map[string, *Job]
	byUID *util.Map[uint64, *Job]
}

// NewRegistry creates an empty insert registry.
func NewRegistry() *Registry {
	return &Registry{
		list:  util.NewMap[string, *Job](),
		byUID: util.NewMap[uint64, *Job](),
	}
}

// registryKey is the canonical (key, origHTL) registry key. origHTL is
// the job's HTL at registration time, never the possibly-mutated
// current HTL (spec §4.1: "deregistered under the original HTL").
func registryKey(key []byte, origHTL uint32) string {
	return fmt.Sprintf("%s:%d", hex.EncodeToString(key), origHTL)
}

// Add registers j under (key, origHTL). Returns false if a job is
// already registered under that key, signaling the caller should treat
// this as a loop.
func (r *Registry) Add(j *Job) bool {
	k := registryKey(j.Key(), j.OrigHTL())
	if _, ok := r.list.Get(k, 0); ok {
		return false
	}
	r.list.Put(k, j, 0)
	r.byUID.Put(j.UID(), j, 0)
	return true
}

// Remove deregisters a job under its original HTL.
func (r *Registry) Remove(j *Job) {
	r.list.Delete(registryKey(j.Key(), j.OrigHTL()), 0)
	r.byUID.Delete(j.UID(), 0)
}

// Lookup finds a running job by (key, origHTL), used by inbound
// INSERT_REQUEST handling to detect an already-serviced uid.
func (r *Registry) Lookup(key []byte, origHTL uint32) (*Job, bool) {
	return r.list.Get(registryKey(key, origHTL), 0)
}

// ByUID finds a running job by its request uid, used by the RPC admin
// surface to answer status queries without knowing (key, origHTL).
func (r *Registry) ByUID(uid uint64) (*Job, bool) {
	return r.byUID.Get(uid, 0)
}

// Size returns the number of currently registered jobs.
func (r *Registry) Size() int {
	return r.list.Size()
}
