// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
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

package config

import (
	"encoding/json"
	"io/ioutil"
	"reflect"
	"regexp"
	"strings"
	"time"

	"gnunet/message"

	"github.com/bfix/gospel/logger"
)

///////////////////////////////////////////////////////////////////////
// Insert protocol configuration

// InsertConfig tunes the per-request insert state machine.
type InsertConfig struct {
	MaxHTL           uint32 `json:"maxHtl"`           // upper bound on hop-to-live for new inserts
	AcceptTimeoutMs  int    `json:"acceptTimeoutMs"`  // Phase-1 ACCEPTED wait, milliseconds
	SearchTimeoutMs  int    `json:"searchTimeoutMs"`  // Phase-3 final reply wait, milliseconds
	DataInsertTOMs   int    `json:"dataInsertTOMs"`   // Phase-2 throttled DATA_INSERT send, milliseconds
	FetchTimeoutMs   int    `json:"fetchTimeoutMs"`   // collision-resolution fetch timeout, milliseconds
	ExecutorPoolSize int    `json:"executorPoolSize"` // max concurrently active insert jobs
}

// Timeouts converts the millisecond config fields into time.Duration,
// falling back to the protocol defaults for zero values.
func (c *InsertConfig) Timeouts() (accept, search, dataInsert, fetch time.Duration) {
	accept = message.AcceptTimeout
	search = message.SearchTimeout
	dataInsert = message.DataInsertTimeout
	fetch = message.FetchTimeout
	if c.AcceptTimeoutMs > 0 {
		accept = time.Duration(c.AcceptTimeoutMs) * time.Millisecond
	}
	if c.SearchTimeoutMs > 0 {
		search = time.Duration(c.SearchTimeoutMs) * time.Millisecond
	}
	if c.DataInsertTOMs > 0 {
		dataInsert = time.Duration(c.DataInsertTOMs) * time.Millisecond
	}
	if c.FetchTimeoutMs > 0 {
		fetch = time.Duration(c.FetchTimeoutMs) * time.Millisecond
	}
	return
}

///////////////////////////////////////////////////////////////////////
// Store configuration

// StoreConfig names the backing key/value stores for the insert sender.
type StoreConfig struct {
	DataStore  string `json:"dataStore"`  // spec string for util.OpenKVStore (local block store)
	ClientCache string `json:"clientCache"` // spec string for util.OpenKVStore (short-lived client cache)
}

///////////////////////////////////////////////////////////////////////
// RPC configuration

// RPCConfig configures the JSON-RPC admin surface.
type RPCConfig struct {
	Endpoint string `json:"endpoint"` // listen address, e.g. "127.0.0.1:8120"
}

///////////////////////////////////////////////////////////////////////
// Bootstrap configuration

// BootstrapConfig configures DNS-based seed-peer discovery.
type BootstrapConfig struct {
	Zone string `json:"zone"` // DNS zone to query for TXT seed records
}

///////////////////////////////////////////////////////////////////////

// Environment settings
type Environ map[string]string

// Config is the aggregated configuration for the insert sender node.
type Config struct {
	Env       Environ          `json:"environ"`
	Node      *NodeConfig      `json:"node"`
	Insert    *InsertConfig    `json:"insert"`
	Store     *StoreConfig     `json:"store"`
	RPC       *RPCConfig       `json:"rpc"`
	Bootstrap *BootstrapConfig `json:"bootstrap"`
}

var (
	// Cfg is the global configuration
	Cfg *Config
)

// Parse a JSON-encoded configuration file map it to the Config data structure.
func ParseConfig(fileName string) (err error) {
	// parse configuration file
	file, err := ioutil.ReadFile(fileName)
	if err != nil {
		return
	}
	// unmarshal to Config data structure
	Cfg = new(Config)
	if err = json.Unmarshal(file, Cfg); err == nil {
		// process all string-based config settings and apply
		// string substitutions.
		applySubstitutions(Cfg, Cfg.Env)
	}
	return
}

var (
	rx = regexp.MustCompile("\\$\\{([^\\}]*)\\}")
)

// substString is a helper function to substitute environment variables
// with actual values.
func substString(s string, env map[string]string) string {
	matches := rx.FindAllStringSubmatch(s, -1)
	for _, m := range matches {
		if len(m[1]) != 0 {
			subst, ok := env[m[1]]
			if !ok {
				continue
			}
			s = strings.Replace(s, "${"+m[1]+"}", subst, -1)
		}
	}
	return s
}

// applySubstitutions traverses the configuration data structure
// and applies string substitutions to all string values.
func applySubstitutions(x interface{}, env map[string]string) {

	var process func(v reflect.Value)
	process = func(v reflect.Value) {
		for i := 0; i < v.NumField(); i++ {
			fld := v.Field(i)
			if fld.CanSet() {
				switch fld.Kind() {
				case reflect.String:
					// check for substitution
					s := fld.Interface().(string)
					for {
						s1 := substString(s, env)
						if s1 == s {
							break
						}
						logger.Printf(logger.DBG, "[config] %s --> %s\n", s, s1)
						fld.SetString(s1)
						s = s1
					}

				case reflect.Struct:
					// handle nested struct
					process(fld)

				case reflect.Ptr:
					// handle pointer
					e := fld.Elem()
					if e.IsValid() {
						process(fld.Elem())
					} else {
						logger.Printf(logger.ERROR, "[config] 'nil' pointer encountered")
					}
				}
			}
		}
	}
	// start processing at the top-level structure
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr:
		// indirect top-level
		e := v.Elem()
		if e.IsValid() {
			process(e)
		} else {
			logger.Printf(logger.ERROR, "[config] 'nil' pointer encountered")
		}
	case reflect.Struct:
		// direct top-level
		process(v)
	}
}
