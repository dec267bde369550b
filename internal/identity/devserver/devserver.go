// Package devserver assembles an in-memory Identity API for local
// development and end-to-end tests.
package devserver

import (
	"net/http"
	"time"

	httpcontext "github.com/dtroode/gophkeeper-session/internal/api/http/context"
	"github.com/dtroode/gophkeeper-session/internal/api/http/router"
	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/repository/memory"
	"github.com/dtroode/gophkeeper-session/internal/service"
	"github.com/dtroode/gophkeeper-session/internal/token"
)

// Options configures a Server. Nil stores default to in-memory ones.
type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	Users       model.UserStore
	Revocations model.RevocationStore
}

// Server is an http.Handler serving the identity routes under router.BasePath.
type Server struct {
	handler http.Handler
	outbox  *memory.Outbox
}

// New wires the stores, services and routes.
func New(opts Options, logger *logger.Logger) *Server {
	if opts.Users == nil {
		opts.Users = memory.NewUserRepository()
	}
	if opts.Revocations == nil {
		opts.Revocations = memory.NewRevocationRepository()
	}

	outbox := memory.NewOutbox(logger)
	tokens := service.NewTokenService(
		token.NewJWT(opts.JWTSecret, opts.TokenTTL),
		opts.Revocations,
		logger,
	)
	auth := service.NewAuth(
		opts.Users,
		memory.NewOneTimeTokenRepository(),
		outbox,
		tokens,
		logger,
	)

	r := router.New(auth, tokens, httpcontext.NewManager(), logger)

	return &Server{
		handler: r.Register(),
		outbox:  outbox,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Outbox returns the messages that would have been emailed.
func (s *Server) Outbox() *memory.Outbox {
	return s.outbox
}
