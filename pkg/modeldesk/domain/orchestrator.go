package domain

import (
	"context"
	"fmt"
	"strings"

	"kgeyst.com/modeldesk/pkg/common"
)

type RunState int

const (
	RunStateIdle = RunState(iota)
	RunStateBusy
)

func (r RunState) String() string {
	if r == RunStateBusy {
		return "busy"
	}
	return "idle"
}

// Dispatcher schedules a job on the event loop which owns the display. common.JobQueue is one.
type Dispatcher interface {
	Enqueue(job common.Job)
}

// View is the display of a front end. It's only ever called from the event loop.
type View interface {
	// ShowBusy disables the run trigger and shows a busy indicator (or the other way around).
	ShowBusy(busy bool)
	// WriteOutput appends a line to the output log.
	WriteOutput(line string)
}

// RunOrchestrator runs one classifier call at a time off the event loop and brings the result back to it.
// Trigger, State and IsBusy must be called from the event loop; the orchestrator itself has no locks.
//
// There is no cancellation and no timeout: a hung pipeline keeps the orchestrator busy until it returns.
type RunOrchestrator struct {
	registry   *ModelRegistry
	dispatcher Dispatcher
	view       View
	logger     common.Logger
	state      RunState
}

func NewRunOrchestrator(registry *ModelRegistry, dispatcher Dispatcher, view View, logger common.Logger) *RunOrchestrator {
	return &RunOrchestrator{
		registry:   registry,
		dispatcher: dispatcher,
		view:       view,
		logger:     logger,
	}
}

func (r *RunOrchestrator) State() RunState {
	return r.state
}

func (r *RunOrchestrator) IsBusy() bool {
	return r.state == RunStateBusy
}

// Trigger validates the request and, if it's fine, goes busy and dispatches the run. Validation problems are written
// to the view right away and returned; nothing is dispatched then.
func (r *RunOrchestrator) Trigger(request RunRequest) error {
	if r.state == RunStateBusy {
		return ErrBusy
	}
	descriptor := r.registry.Descriptor(request.ModelName)
	if descriptor == nil {
		err := fmt.Errorf("%w: %q", ErrUnknownModel, request.ModelName)
		r.view.WriteOutput("❌ ERROR: " + err.Error())
		return err
	}
	if strings.TrimSpace(request.Input) == "" {
		r.view.WriteOutput(emptyInputMessage(descriptor.Kind))
		return ErrEmptyInput
	}
	// Resolved here rather than in the worker so that the cache is only written from the event loop.
	classifier, err := r.registry.GetOrCreate(request.ModelName)
	if err != nil {
		r.view.WriteOutput("❌ ERROR: " + err.Error())
		return err
	}
	r.state = RunStateBusy
	r.view.ShowBusy(true)
	r.view.WriteOutput("🔄 Processing model...")
	r.logger.Log(fmt.Sprintf("run %s: dispatching %q", request.ID, request.ModelName))
	go r.process(classifier, request)
	return nil
}

// process runs on its own goroutine and never touches the view.
func (r *RunOrchestrator) process(classifier Classifier, request RunRequest) {
	result := &RunResult{
		RequestID: request.ID,
		ModelName: request.ModelName,
	}
	func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				result.Result = nil
				result.Err = fmt.Errorf("%w: %v", ErrInference, recovered)
			}
		}()
		ctx := WithRequestID(context.Background(), request.ID)
		result.Result, result.Err = classifier.Process(ctx, request.Input)
	}()
	if reporter, ok := classifier.(RuntimeReporter); ok && result.Err == nil {
		result.Runtime, _ = reporter.LastRuntime()
	}
	r.dispatcher.Enqueue(func() error {
		r.complete(result)
		return nil
	})
}

func (r *RunOrchestrator) complete(result *RunResult) {
	for _, line := range result.Lines() {
		r.view.WriteOutput(line)
	}
	if result.Success() {
		r.logger.Log(fmt.Sprintf("run %s: done in %d ms", result.RequestID, result.Runtime.Milliseconds()))
	} else {
		r.logger.Log(fmt.Sprintf("run %s: failed: %s", result.RequestID, result.Err))
	}
	r.state = RunStateIdle
	r.view.ShowBusy(false)
}

func emptyInputMessage(kind ModelKind) string {
	if kind == ModelKindImage {
		return "ERROR: No image file selected."
	}
	return "ERROR: Text input is empty."
}
