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

// InsertMessage is implemented by every message in the insert protocol;
// the waiter package uses it to match replies to their request by uid
// regardless of arrival order.
type InsertMessage interface {
	Message
	GetUID() uint64
}

// InsertRequestMsg announces a new SSK insert to a chosen peer.
type InsertRequestMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	HTL       uint32 `order:"big"`
	Key       []byte `size:"*"`
}

// Header implements Message.
func (m *InsertRequestMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *InsertRequestMsg) GetUID() uint64 { return m.UID }

// NewInsertRequestMsg builds an INSERT_REQUEST for the given request.
func NewInsertRequestMsg(uid uint64, htl uint32, key []byte) *InsertRequestMsg {
	m := &InsertRequestMsg{UID: uid, HTL: htl, Key: key}
	m.MsgHeader.MsgType = INSERT_REQUEST
	return m
}

//----------------------------------------------------------------------

// AcceptedMsg is the positive Phase-1 reply.
type AcceptedMsg struct {
	MsgHeader  MessageHeader
	UID        uint64 `order:"big"`
	NeedPubKey uint8
}

func (m *AcceptedMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *AcceptedMsg) GetUID() uint64 { return m.UID }

func NewAcceptedMsg(uid uint64, needPubKey bool) *AcceptedMsg {
	m := &AcceptedMsg{UID: uid}
	if needPubKey {
		m.NeedPubKey = 1
	}
	m.MsgHeader.MsgType = ACCEPTED
	return m
}

// NeedsPubKey reports whether the peer still wants the public key.
func (m *AcceptedMsg) NeedsPubKey() bool { return m.NeedPubKey != 0 }

//----------------------------------------------------------------------

// RejectedLoopMsg reports that the peer already services this uid.
type RejectedLoopMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
}

func (m *RejectedLoopMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *RejectedLoopMsg) GetUID() uint64 { return m.UID }

func NewRejectedLoopMsg(uid uint64) *RejectedLoopMsg {
	m := &RejectedLoopMsg{UID: uid}
	m.MsgHeader.MsgType = REJECTED_LOOP
	return m
}

//----------------------------------------------------------------------

// RejectedOverloadMsg reports overload, local to the contacted peer or
// forwarded from a downstream one.
type RejectedOverloadMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	IsLocal   uint8
}

func (m *RejectedOverloadMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *RejectedOverloadMsg) GetUID() uint64 { return m.UID }

func NewRejectedOverloadMsg(uid uint64, isLocal bool) *RejectedOverloadMsg {
	m := &RejectedOverloadMsg{UID: uid}
	if isLocal {
		m.IsLocal = 1
	}
	m.MsgHeader.MsgType = REJECTED_OVERLOAD
	return m
}

// Local reports whether this overload is attributed to the directly
// contacted peer rather than forwarded from further downstream.
func (m *RejectedOverloadMsg) Local() bool { return m.IsLocal != 0 }

//----------------------------------------------------------------------

// InsertHeadersMsg carries the opaque block headers.
type InsertHeadersMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	Headers   []byte `size:"*"`
}

func (m *InsertHeadersMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *InsertHeadersMsg) GetUID() uint64 { return m.UID }

func NewInsertHeadersMsg(uid uint64, headers []byte) *InsertHeadersMsg {
	m := &InsertHeadersMsg{UID: uid, Headers: headers}
	m.MsgHeader.MsgType = INSERT_HEADERS
	return m
}

//----------------------------------------------------------------------

// InsertDataMsg carries the block payload (throttled on send).
type InsertDataMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	Data      []byte `size:"*"`
}

func (m *InsertDataMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *InsertDataMsg) GetUID() uint64 { return m.UID }

func NewInsertDataMsg(uid uint64, data []byte) *InsertDataMsg {
	m := &InsertDataMsg{UID: uid, Data: data}
	m.MsgHeader.MsgType = INSERT_DATA
	return m
}

//----------------------------------------------------------------------

// PubKeyMsg carries the wire encoding of the SSK public key.
type PubKeyMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	PubKey    []byte `size:"*"`
}

func (m *PubKeyMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *PubKeyMsg) GetUID() uint64 { return m.UID }

func NewPubKeyMsg(uid uint64, pubKey []byte) *PubKeyMsg {
	m := &PubKeyMsg{UID: uid, PubKey: pubKey}
	m.MsgHeader.MsgType = PUBKEY
	return m
}

//----------------------------------------------------------------------

// PubKeyAcceptedMsg acknowledges receipt of the public key.
type PubKeyAcceptedMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
}

func (m *PubKeyAcceptedMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *PubKeyAcceptedMsg) GetUID() uint64 { return m.UID }

func NewPubKeyAcceptedMsg(uid uint64) *PubKeyAcceptedMsg {
	m := &PubKeyAcceptedMsg{UID: uid}
	m.MsgHeader.MsgType = PUBKEY_ACCEPTED
	return m
}

//----------------------------------------------------------------------

// InsertReplyMsg is the successful terminal reply from a peer.
type InsertReplyMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
}

func (m *InsertReplyMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *InsertReplyMsg) GetUID() uint64 { return m.UID }

func NewInsertReplyMsg(uid uint64) *InsertReplyMsg {
	m := &InsertReplyMsg{UID: uid}
	m.MsgHeader.MsgType = INSERT_REPLY
	return m
}

//----------------------------------------------------------------------

// RouteNotFoundMsg reports the peer exhausted its own HTL; it may
// advertise a (lower) HTL that the job clamps down to.
type RouteNotFoundMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	HTL       uint32 `order:"big"`
}

func (m *RouteNotFoundMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *RouteNotFoundMsg) GetUID() uint64 { return m.UID }

func NewRouteNotFoundMsg(uid uint64, htl uint32) *RouteNotFoundMsg {
	m := &RouteNotFoundMsg{UID: uid, HTL: htl}
	m.MsgHeader.MsgType = ROUTE_NOT_FOUND
	return m
}

//----------------------------------------------------------------------

// DataInsertRejectedMsg reports a payload rejection with a reason code.
type DataInsertRejectedMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	Reason    uint8
}

func (m *DataInsertRejectedMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *DataInsertRejectedMsg) GetUID() uint64 { return m.UID }

func NewDataInsertRejectedMsg(uid uint64, reason uint8) *DataInsertRejectedMsg {
	m := &DataInsertRejectedMsg{UID: uid, Reason: reason}
	m.MsgHeader.MsgType = DATA_INSERT_REJECTED
	return m
}

//----------------------------------------------------------------------

// CollisionHeadersMsg announces a different preexisting block under
// this key and carries its headers; CollisionDataMsg follows with the
// body.
type CollisionHeadersMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	Headers   []byte `size:"*"`
}

func (m *CollisionHeadersMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *CollisionHeadersMsg) GetUID() uint64 { return m.UID }

func NewCollisionHeadersMsg(uid uint64, headers []byte) *CollisionHeadersMsg {
	m := &CollisionHeadersMsg{UID: uid, Headers: headers}
	m.MsgHeader.MsgType = COLLISION_HEADERS
	return m
}

// CollisionDataMsg carries the preexisting remote block's data.
type CollisionDataMsg struct {
	MsgHeader MessageHeader
	UID       uint64 `order:"big"`
	Data      []byte `size:"*"`
}

func (m *CollisionDataMsg) Header() *MessageHeader { return &m.MsgHeader }

// GetUID implements InsertMessage.
func (m *CollisionDataMsg) GetUID() uint64 { return m.UID }

func NewCollisionDataMsg(uid uint64, data []byte) *CollisionDataMsg {
	m := &CollisionDataMsg{UID: uid, Data: data}
	m.MsgHeader.MsgType = COLLISION_DATA
	return m
}
