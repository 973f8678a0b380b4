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

package message

import "time"

// Insert protocol message types.
const (
	INSERT_REQUEST uint16 = iota + 600
	ACCEPTED
	REJECTED_LOOP
	REJECTED_OVERLOAD
	INSERT_HEADERS
	INSERT_DATA
	PUBKEY
	PUBKEY_ACCEPTED
	INSERT_REPLY
	ROUTE_NOT_FOUND
	DATA_INSERT_REJECTED
	COLLISION_HEADERS
	COLLISION_DATA
)

// Insert protocol timeouts (overridable via config for tests).
const (
	AcceptTimeout    = 10 * time.Second
	SearchTimeout    = 60 * time.Second
	DataInsertTimeout = 20 * time.Second
	FetchTimeout     = 20 * time.Second
)

// DataInsertRejected reasons.
const (
	ReasonVerifyFailed uint8 = iota
	ReasonStoreFull
	ReasonOther
)
