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

// Package rpcapi exposes a JSON-RPC admin surface over running insert jobs:
// status, HTL, collision state and byte counters, addressed by request uid.
package rpcapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gnunet/block"
	"gnunet/core"
	"gnunet/crypto"
	"gnunet/insert"
	"gnunet/util"

	"github.com/bfix/gospel/logger"
	"github.com/gorilla/mux"
	gorillarpc "github.com/gorilla/rpc"
	"github.com/gorilla/rpc/json"
)

// ErrUnknownUID is returned when a status request names a uid with no
// registered job (never started, or already finished and deregistered).
var ErrUnknownUID = errors.New("rpcapi: no running job with that uid")

// Deps bundles the node-wide singletons a submitted insert needs. The
// rpcapi package owns none of these; main wires them once at startup.
type Deps struct {
	Registry  *insert.Registry
	Table     *core.PeerTable
	Driver    *insert.Driver
	Policy    *insert.HTLPolicy
	Executor  *insert.Executor
}

// Server is the JSON-RPC admin endpoint, routed through gorilla/mux the
// same way the teacher's service.Router wires per-module HTTP handlers,
// with gorilla/rpc's json codec doing request/reply marshaling instead
// of hand-rolled handler funcs.
type Server struct {
	router *mux.Router
	http   *http.Server
}

// NewServer builds the admin surface around deps, listening on addr.
func NewServer(addr string, deps *Deps) *Server {
	rpcSrv := gorillarpc.NewServer()
	rpcSrv.RegisterCodec(json.NewCodec(), "application/json")
	if err := rpcSrv.RegisterService(&InsertService{deps: deps}, "Insert"); err != nil {
		logger.Printf(logger.ERROR, "[rpcapi] failed to register Insert service: %s", err.Error())
	}

	router := mux.NewRouter()
	router.Handle("/rpc", rpcSrv)

	return &Server{
		router: router,
		http: &http.Server{
			Handler:      router,
			Addr:         addr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// Start runs the HTTP listener until ctx is canceled, mirroring the
// teacher's StartRPC shutdown-on-context shape.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf(logger.WARN, "[rpcapi] listen failed: %s", err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.http.Shutdown(context.Background()); err != nil {
			logger.Printf(logger.WARN, "[rpcapi] shutdown failed: %s", err.Error())
		}
	}()
}

//----------------------------------------------------------------------
// Command "Insert.Status"
//----------------------------------------------------------------------

// StatusRequest addresses a single running job; a finished job is removed
// from the registry and is no longer found.
type StatusRequest struct {
	UID uint64 `json:"uid"`
}

// StatusReply mirrors the observer surface spec §6 grants to callers.
type StatusReply struct {
	Status        string `json:"status"`
	HTL           uint32 `json:"htl"`
	SentRequest   bool   `json:"sentRequest"`
	Collided      bool   `json:"collided"`
	BytesSent     uint64 `json:"bytesSent"`
	BytesReceived uint64 `json:"bytesReceived"`
}

// InsertService answers status queries and accepts new inserts against
// the node-wide registry.
type InsertService struct {
	deps *Deps
}

// Status reports the current state of the job addressed by req.UID.
func (s *InsertService) Status(r *http.Request, req *StatusRequest, reply *StatusReply) error {
	job, ok := s.deps.Registry.ByUID(req.UID)
	if !ok {
		return ErrUnknownUID
	}
	*reply = StatusReply{
		Status:        job.GetStatusString(),
		HTL:           job.GetHTL(),
		SentRequest:   job.SentRequest(),
		Collided:      job.HasCollided(),
		BytesSent:     job.BytesSent(),
		BytesReceived: job.BytesReceived(),
	}
	return nil
}

//----------------------------------------------------------------------
// Command "Insert.Submit"
//----------------------------------------------------------------------

// SubmitRequest carries a locally-produced SSK block, wire-encoded the
// same way the insert protocol's own PUBKEY/headers/data messages are.
type SubmitRequest struct {
	Key     []byte `json:"key"`
	Headers []byte `json:"headers"`
	Data    []byte `json:"data"`
	PubKey  []byte `json:"pubKey"`
	SigR    []byte `json:"sigR"`
	SigS    []byte `json:"sigS"`
	HTL     uint32 `json:"htl"`
}

// SubmitReply returns the uid the caller polls Status with.
type SubmitReply struct {
	UID uint64 `json:"uid"`
}

// Submit verifies and starts a new locally-originated insert (spec §6:
// canWriteClientCache/canWriteDatastore default true for local inserts,
// since there is no upstream forwarder policy to defer to).
func (s *InsertService) Submit(r *http.Request, req *SubmitRequest, reply *SubmitReply) error {
	pub, err := crypto.SSKPublicKeyFromBytes(req.PubKey)
	if err != nil {
		return err
	}
	b, err := block.NewSSKBlock(&block.Params{
		Key:               req.Key,
		Headers:           req.Headers,
		Data:              req.Data,
		PubKey:            pub,
		VerifyOnConstruct: true,
		Sig:               struct{ R, S []byte }{R: req.SigR, S: req.SigS},
	})
	if err != nil {
		return err
	}

	uid := uint64(util.NextID())
	sender, err := insert.NewSender(s.deps.Registry, s.deps.Table, s.deps.Driver, s.deps.Policy,
		b, uid, req.HTL, nil, false, true, true)
	if err != nil {
		return err
	}
	s.deps.Executor.Submit(r.Context(), sender)
	*reply = SubmitReply{UID: uid}
	return nil
}
