// Package pipeline runs an HTTP request through an ordered list of steps.
// Each step reads and fills a per-request Context and either lets the request
// continue, halts it with a response, or fails it with an error. The terminal
// handler runs only when every step continued. Errors become JSON responses
// here and nowhere else.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/observability"
)

const handlerStepName = "handler"

// maxBodyBytes caps the JSON body DecodeBody will read.
const maxBodyBytes = 1 << 20

// Executor carries the settings shared by every pipeline of the service.
type Executor struct {
	logger             *slog.Logger
	exposeErrorDetails bool
}

// NewExecutor creates an Executor. exposeErrorDetails adds the underlying error
// text to error responses.
func NewExecutor(logger *slog.Logger, exposeErrorDetails bool) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger, exposeErrorDetails: exposeErrorDetails}
}

// Pipeline is an ordered list of steps ending in a handler. It is immutable
// once built and safe for concurrent use.
type Pipeline struct {
	name    string
	steps   []Step
	handler StepFunc
	exec    *Executor
}

// Pipeline builds a named pipeline. The name labels logs and metrics.
func (e *Executor) Pipeline(name string, handler StepFunc, steps ...Step) *Pipeline {
	return &Pipeline{
		name:    name,
		steps:   append([]Step(nil), steps...),
		handler: handler,
		exec:    e,
	}
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string {
	return p.name
}

// ServeHTTP runs the pipeline for one request and writes its response.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rc := &Context{Request: r}

	resp := p.Execute(r.Context(), rc)
	writeJSON(w, resp.Status, resp.Body, p.exec.logger)

	observability.PipelineDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	observability.PipelineResponses.WithLabelValues(p.name, strconv.Itoa(resp.Status)).Inc()
}

// Execute runs the steps in order against rc and returns the response the
// pipeline terminated with. A handler that returns Continue is a programming
// error and yields a 500.
func (p *Pipeline) Execute(ctx context.Context, rc *Context) Response {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return p.fail(ctx, step.Name, apperror.NewInternalError("request cancelled", err))
		}

		res := p.run(ctx, step, rc)
		switch res.kind {
		case kindHalt:
			p.record(step.Name, observability.OutcomeHalt)
			return res.response
		case kindFail:
			return p.fail(ctx, step.Name, res.err)
		default:
			p.record(step.Name, observability.OutcomeContinue)
		}
	}

	if err := ctx.Err(); err != nil {
		return p.fail(ctx, handlerStepName, apperror.NewInternalError("request cancelled", err))
	}

	res := p.run(ctx, Step{Name: handlerStepName, Run: p.handler}, rc)
	switch res.kind {
	case kindHalt:
		p.record(handlerStepName, observability.OutcomeHalt)
		return res.response
	case kindFail:
		return p.fail(ctx, handlerStepName, res.err)
	default:
		return p.fail(ctx, handlerStepName, apperror.NewInternalError("internal server error",
			errors.New("handler completed without a response")))
	}
}

// run invokes one step, turning a panic into a failure.
func (p *Pipeline) run(ctx context.Context, step Step, rc *Context) (res Result) {
	defer func() {
		if rvr := recover(); rvr != nil {
			res = Fail(apperror.NewInternalError("internal server error",
				fmt.Errorf("panic in step %s: %v", step.Name, rvr)))
		}
	}()
	if step.Run == nil {
		return Fail(apperror.NewInternalError("internal server error",
			fmt.Errorf("step %s has no function", step.Name)))
	}
	return step.Run(ctx, rc)
}

func (p *Pipeline) fail(ctx context.Context, stepName string, err error) Response {
	p.record(stepName, observability.OutcomeFail)

	appErr := apperror.FromError(err)
	status := appErr.StatusCode()

	attrs := []any{
		"pipeline", p.name,
		"step", stepName,
		"status", status,
		"error", appErr.Error(),
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}
	if status >= http.StatusInternalServerError {
		p.exec.logger.ErrorContext(ctx, "pipeline failed", attrs...)
	} else {
		p.exec.logger.DebugContext(ctx, "pipeline rejected request", attrs...)
	}

	return Response{Status: status, Body: appErr.ToResponse(p.exec.exposeErrorDetails)}
}

func (p *Pipeline) record(stepName, outcome string) {
	observability.PipelineSteps.WithLabelValues(p.name, stepName, outcome).Inc()
}

// DecodeBody parses the JSON request body into rc.Body. An empty body leaves
// every field unset.
var DecodeBody = Step{
	Name: "decode_body",
	Run: func(_ context.Context, rc *Context) Result {
		if rc.Request == nil || rc.Request.Body == nil {
			return Continue()
		}
		dec := json.NewDecoder(io.LimitReader(rc.Request.Body, maxBodyBytes))
		if err := dec.Decode(&rc.Body); err != nil {
			if errors.Is(err, io.EOF) {
				return Continue()
			}
			return Fail(apperror.NewValidationError("invalid request body", err))
		}
		return Continue()
	},
}

func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
