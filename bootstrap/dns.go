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

// Package bootstrap resolves seed-peer descriptors from DNS TXT records at
// startup and returns them to the caller. It does not add the seeds to a
// PeerTable or open links to them.
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bfix/gospel/logger"
	"github.com/miekg/dns"
)

// Seed is one parsed seed-peer descriptor: the peer id (as used by
// core.NewPeer) and its advertised routing location.
type Seed struct {
	PeerID   string
	Location float64
}

// seedTXTPrefix marks a TXT record as a seed-peer descriptor; other TXT
// records under the zone are ignored.
const seedTXTPrefix = "gnunet-ssk-seed="

// DiscoverSeeds queries zone's TXT records on server (host:port, default
// port 53 if bare) and parses every "gnunet-ssk-seed=<peerid>,<location>"
// record found, in the retry-loop shape of the teacher's QueryDNS.
func DiscoverSeeds(zone, server string) ([]*Seed, error) {
	if !strings.Contains(server, ":") {
		server += ":53"
	}
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(zone), dns.TypeTXT)
	m.RecursionDesired = true

	var (
		in  *dns.Msg
		err error
	)
	for retry := 0; retry < 5; retry++ {
		m.Id = dns.Id()
		in, err = dns.Exchange(m, server)
		if err == nil {
			break
		}
		logger.Printf(logger.WARN, "[bootstrap] TXT query for %s failed (%d/5): %s", zone, retry+1, err.Error())
	}
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("bootstrap: no DNS response for zone %s", zone)
	}

	var seeds []*Seed
	for _, rr := range in.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		for _, s := range txt.Txt {
			seed, ok := parseSeedTXT(s)
			if !ok {
				continue
			}
			seeds = append(seeds, seed)
		}
	}
	logger.Printf(logger.INFO, "[bootstrap] %d seed peer(s) resolved from %s", len(seeds), zone)
	return seeds, nil
}

func parseSeedTXT(s string) (*Seed, bool) {
	if !strings.HasPrefix(s, seedTXTPrefix) {
		return nil, false
	}
	body := strings.TrimPrefix(s, seedTXTPrefix)
	parts := strings.SplitN(body, ",", 2)
	if len(parts) != 2 {
		return nil, false
	}
	loc, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, false
	}
	return &Seed{PeerID: parts[0], Location: loc}, true
}
