package pipeline

import "context"

type kind int

const (
	kindContinue kind = iota
	kindHalt
	kindFail
)

// Response is what the executor writes once a pipeline terminates.
// A nil Body writes headers only.
type Response struct {
	Status int
	Body   any
}

// Result is the outcome of one step: continue, halt with a response, or fail.
type Result struct {
	kind     kind
	response Response
	err      error
}

// Continue moves on to the next step.
func Continue() Result {
	return Result{kind: kindContinue}
}

// Halt stops the pipeline and writes status and body.
func Halt(status int, body any) Result {
	return Result{kind: kindHalt, response: Response{Status: status, Body: body}}
}

// Fail stops the pipeline with an error; the executor maps it to a response.
func Fail(err error) Result {
	return Result{kind: kindFail, err: err}
}

// StepFunc is the signature shared by steps and terminal handlers.
type StepFunc func(ctx context.Context, rc *Context) Result

// Step is a named unit of a pipeline.
type Step struct {
	Name string
	Run  StepFunc
}
