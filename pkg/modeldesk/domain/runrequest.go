package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRequest is one user-triggered run.
type RunRequest struct {
	ID        string
	ModelName string
	Input     string
}

func NewRunRequest(modelName, input string) RunRequest {
	return RunRequest{
		ID:        uuid.NewString(),
		ModelName: modelName,
		Input:     input,
	}
}

// RunResult is produced once per RunRequest and displayed once.
type RunResult struct {
	RequestID string
	ModelName string
	Result    *Result
	// Runtime as measured by the classifier; zero if it doesn't report one.
	Runtime time.Duration
	Err     error
}

func (r *RunResult) Success() bool {
	return r.Err == nil
}

// Lines renders the result the way it goes to the output log.
func (r *RunResult) Lines() []string {
	if r.Err != nil {
		return []string{"❌ ERROR: " + r.Err.Error()}
	}
	lines := []string{
		fmt.Sprintf("✅ (%s) Result:", r.ModelName),
		r.Result.String(),
	}
	if r.Runtime > 0 {
		lines = append(lines, fmt.Sprintf("⏱️ Runtime: %.3fs", r.Runtime.Seconds()))
	}
	return lines
}

type requestIDKey struct{}

// WithRequestID attaches the run ID to the context, so pipelines can pass it on (as a request header, for example).
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
