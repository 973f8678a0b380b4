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

import "fmt"

// NewEmptyMessage creates a new empty message object for the given
// wire type, ready to be filled in by Unmarshal.
func NewEmptyMessage(msgType uint16) (Message, error) {
	switch msgType {
	case INSERT_REQUEST:
		return new(InsertRequestMsg), nil
	case ACCEPTED:
		return new(AcceptedMsg), nil
	case REJECTED_LOOP:
		return new(RejectedLoopMsg), nil
	case REJECTED_OVERLOAD:
		return new(RejectedOverloadMsg), nil
	case INSERT_HEADERS:
		return new(InsertHeadersMsg), nil
	case INSERT_DATA:
		return new(InsertDataMsg), nil
	case PUBKEY:
		return new(PubKeyMsg), nil
	case PUBKEY_ACCEPTED:
		return new(PubKeyAcceptedMsg), nil
	case INSERT_REPLY:
		return new(InsertReplyMsg), nil
	case ROUTE_NOT_FOUND:
		return new(RouteNotFoundMsg), nil
	case DATA_INSERT_REJECTED:
		return new(DataInsertRejectedMsg), nil
	case COLLISION_HEADERS:
		return new(CollisionHeadersMsg), nil
	case COLLISION_DATA:
		return new(CollisionDataMsg), nil
	}
	return nil, fmt.Errorf("unknown message type %d", msgType)
}
