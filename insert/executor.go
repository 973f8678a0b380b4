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

import "context"

// Executor bounds the number of concurrently-running Sender loops (spec
// §4.1: "start() schedules the job ... at high priority" on some pool;
// this package supplies the pool, the spec leaves it external).
type Executor struct {
	sem chan struct{}
}

// NewExecutor builds a pool admitting at most size concurrent jobs.
func NewExecutor(size int) *Executor {
	if size <= 0 {
		size = 1
	}
	return &Executor{sem: make(chan struct{}, size)}
}

// Submit runs s on the pool, blocking the caller only long enough to
// acquire a slot; the job itself runs on its own goroutine.
func (e *Executor) Submit(ctx context.Context, s *Sender) {
	e.sem <- struct{}{}
	go func() {
		defer func() { <-e.sem }()
		s.Start(ctx)
	}()
}
