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

package config

import "fmt"

// EndpointConfig describes a single listening or dialing address of a node.
type EndpointConfig struct {
	ID      string `json:"id"`      // local identifier for this endpoint
	Network string `json:"network"` // transport network (e.g. "ip+udp")
	Address string `json:"address"` // host/IP part
	Port    int    `json:"port"`    // port number
	TTL     int    `json:"ttl"`     // address lifetime in seconds (advertised)
}

// Addr assembles the "network://address:port" string used by util.ParseAddress.
func (e *EndpointConfig) Addr() string {
	return fmt.Sprintf("%s://%s:%d", e.Network, e.Address, e.Port)
}

// NodeConfig describes the identity and wiring of a single overlay node.
type NodeConfig struct {
	Name        string            `json:"name"`        // human-readable node label (logging only)
	PrivateSeed string            `json:"privateSeed"`  // base64-encoded EdDSA seed
	Endpoints   []*EndpointConfig `json:"endpoints"`    // addresses this node is reachable on
}
