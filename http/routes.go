package http

import (
	"context"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"net/http"
	"time"
	"tower"
)

// RequestIDHeader carries a caller-chosen call ID, picked up by the log layer.
const RequestIDHeader = "X-Request-ID"

// Endpoints collects the endpoints exposed by the server.
type Endpoints struct {
	EchoEndpoint        endpoint.Endpoint
	AlternatingEndpoint endpoint.Endpoint
}

// MakeServerEndpoints returns an Endpoints struct where each endpoint drives a
// fresh service from the corresponding constructor.
func MakeServerEndpoints(newEcho func() tower.EchoService, newAlternating func() tower.AlternatingReadyService) Endpoints {
	return Endpoints{
		EchoEndpoint:        MakeEndpoint(newEcho),
		AlternatingEndpoint: MakeEndpoint(newAlternating),
	}
}

// MakeEndpoint returns an endpoint that builds a service with newService and
// drives it with tower.Oneshot for every request. Services are single-owner,
// so one instance is never shared between requests. A nil newService yields
// an endpoint answering ENOTIMPLEMENTED.
func MakeEndpoint[Req, Resp any](newService func() tower.Service[Req, Resp]) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		if newService == nil {
			return nil, tower.Errorf(tower.ENOTIMPLEMENTED, "Service not available.")
		}
		req, ok := request.(Req)
		if !ok {
			return nil, tower.Errorf(tower.EINVALID, "Unexpected request type %T.", request)
		}
		return tower.Oneshot(ctx, newService(), req)
	}
}

// CallIDMiddleware assigns a fresh call ID to requests that arrive without
// one, so every record logged for the call carries the same ID.
func CallIDMiddleware() endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			if tower.CallIDFromContext(ctx) == "" {
				ctx = tower.NewContextWithCallID(ctx, uuid.NewString())
			}
			return next(ctx, request)
		}
	}
}

// LoggingMiddleware returns an endpoint middleware logging the method, call ID,
// duration and error of every request.
func LoggingMiddleware(logger log.Logger, method string) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				_ = logger.Log("method", method, "call", tower.CallIDFromContext(ctx), "took", time.Since(begin), "err", err)
			}(time.Now())

			return next(ctx, request)
		}
	}
}

// registerRoutes sets up handlers for all of the service endpoints.
func (s *Server) registerRoutes() {
	e := MakeServerEndpoints(s.EchoService, s.AlternatingService)
	e.EchoEndpoint = endpoint.Chain(CallIDMiddleware(), LoggingMiddleware(s.Logger, "Echo"))(e.EchoEndpoint)
	e.AlternatingEndpoint = endpoint.Chain(CallIDMiddleware(), LoggingMiddleware(s.Logger, "Alternating"))(e.AlternatingEndpoint)

	options := []httptransport.ServerOption{
		httptransport.ServerBefore(contextWithRequestID),
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(s.Logger)),
	}

	s.router.Handle("/api/echo/{text}",
		httptransport.NewServer(
			e.EchoEndpoint,
			decodeEchoRequest,
			encodeResponse,
			options...,
		)).Methods("GET")

	s.router.Handle("/api/alternating",
		httptransport.NewServer(
			e.AlternatingEndpoint,
			decodeAlternatingRequest,
			encodeResponse,
			options...,
		)).Methods("POST")
}

func contextWithRequestID(ctx context.Context, r *http.Request) context.Context {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return tower.NewContextWithCallID(ctx, id)
	}
	return ctx
}

func decodeEchoRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	text, ok := mux.Vars(r)["text"]
	if !ok {
		return nil, tower.Errorf(tower.EINVALID, "Invalid value for param 'text'.")
	}
	return tower.NewEchoRequest(text), nil
}

func decodeAlternatingRequest(_ context.Context, _ *http.Request) (request interface{}, err error) {
	return tower.AlternatingReadyRequest{}, nil
}
