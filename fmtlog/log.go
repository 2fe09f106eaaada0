package fmtlog

import (
	"context"
	"fmt"
	"github.com/go-kit/kit/log"
	"github.com/google/uuid"
	"time"
	"tower"
)

// NewLogLayer returns a layer wrapping services in a LogService writing to logger.
func NewLogLayer[Req, Resp any](logger log.Logger) tower.Layer[Req, Resp] {
	return tower.Middleware[Req, Resp](func(inner tower.Service[Req, Resp]) tower.Service[Req, Resp] {
		return NewLogService(logger, inner)
	})
}

// LogService wraps another service, logging its requests and responses.
// Readiness is delegated untouched.
type LogService[Req, Resp any] struct {
	inner  tower.Service[Req, Resp]
	logger log.Logger
}

// NewLogService returns a LogService owning inner.
func NewLogService[Req, Resp any](logger log.Logger, inner tower.Service[Req, Resp]) *LogService[Req, Resp] {
	return &LogService[Req, Resp]{
		inner:  inner,
		logger: logger,
	}
}

func (s *LogService[Req, Resp]) PollReady(w tower.Waker) error {
	return s.inner.PollReady(w)
}

// Call logs req, delegates to the inner service and logs the result once the
// inner future resolves. The result is passed through unchanged.
func (s *LogService[Req, Resp]) Call(ctx context.Context, req Req) *tower.Future[Resp] {
	id := tower.CallIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = tower.NewContextWithCallID(ctx, id)
	}

	_ = s.logger.Log("call", id, "msg", "Service called with "+debug(req))

	begin := time.Now()
	return tower.Inspect(s.inner.Call(ctx, req), func(resp Resp, err error) {
		_ = s.logger.Log("call", id, "msg", "Service responded with "+formatResult(resp, err), "took", time.Since(begin))
	})
}

// formatResult renders a call result as Ok(resp) or Err(err), both in debug form.
func formatResult(resp interface{}, err error) string {
	if err != nil {
		return "Err(" + debug(err) + ")"
	}
	return "Ok(" + debug(resp) + ")"
}

// debug renders v in Go syntax, so empty or look-alike values stay
// distinguishable. Errors render as their quoted message.
func debug(v interface{}) string {
	if err, ok := v.(error); ok {
		return fmt.Sprintf("%q", err.Error())
	}
	return fmt.Sprintf("%#v", v)
}
