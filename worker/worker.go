// Package worker runs simulations off the caller's goroutine so a host
// UI stays responsive. The boundary exchanges immutable messages only:
// a request in, progress/result/error messages out. Cancellation is
// coarse — the run is abandoned, not interrupted.
package worker

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/scenario"
)

// Kind discriminates request variants.
type Kind string

const (
	KindRun               Kind = "run"
	KindRunCounterfactual Kind = "run-counterfactual"
)

// Request asks the worker for one simulation run.
type Request struct {
	Kind     Kind
	Scenario scenario.Scenario
	Options  *engine.Options
}

// ResponseKind discriminates response variants.
type ResponseKind string

const (
	RespProgress             ResponseKind = "progress"
	RespResult               ResponseKind = "result"
	RespCounterfactualResult ResponseKind = "counterfactual-result"
	RespError                ResponseKind = "error"
)

// Response is one message from the worker. Exactly one of Result,
// Counterfactual, or Message is set for the terminal kinds; progress
// messages carry Day/TotalDays.
type Response struct {
	Kind           ResponseKind
	Day, TotalDays int
	Result         *engine.Result
	Counterfactual *engine.CounterfactualResult
	Message        string
}

// Run executes the request on its own goroutine and returns the
// response channel. The channel receives zero or more progress
// messages followed by exactly one terminal message, then closes.
//
// Cancelling the context abandons the run: pending messages are
// dropped and the channel closes as soon as the goroutine notices.
// The engine itself is never interrupted mid-day.
func Run(ctx context.Context, log *logrus.Logger, req Request) <-chan Response {
	out := make(chan Response, 8)

	go func() {
		defer close(out)

		send := func(resp Response) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case <-ctx.Done():
				return false
			case out <- resp:
				return true
			}
		}

		if err := req.Scenario.Validate(); err != nil {
			send(Response{Kind: RespError, Message: err.Error()})
			return
		}

		progress := func(day, totalDays int) {
			send(Response{Kind: RespProgress, Day: day, TotalDays: totalDays})
		}

		switch req.Kind {
		case KindRunCounterfactual:
			res, err := engine.RunCounterfactual(req.Scenario, req.Options, progress)
			if err != nil {
				send(Response{Kind: RespError, Message: err.Error()})
				return
			}
			if send(Response{Kind: RespCounterfactualResult, Counterfactual: res}) && log != nil {
				log.WithFields(logrus.Fields{
					"scenario": req.Scenario.Name,
					"days":     req.Scenario.HorizonDays,
				}).Debug("counterfactual run complete")
			}
		default:
			res, err := engine.Run(req.Scenario, req.Options, progress)
			if err != nil {
				send(Response{Kind: RespError, Message: err.Error()})
				return
			}
			if send(Response{Kind: RespResult, Result: res}) && log != nil {
				log.WithFields(logrus.Fields{
					"scenario": req.Scenario.Name,
					"days":     req.Scenario.HorizonDays,
					"ms":       res.ComputeTimeMs,
				}).Debug("run complete")
			}
		}
	}()

	return out
}
