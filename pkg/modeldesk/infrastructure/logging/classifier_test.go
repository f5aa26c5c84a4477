package logging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
)

type recordingLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recordingLogger) Log(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingLogger) Messages() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.messages...)
}

type stubClassifier struct {
	result  *domain.Result
	err     error
	loadErr error
	loads   int
}

func (s *stubClassifier) Name() string { return "Text-to-Sentiment" }
func (s *stubClassifier) Kind() domain.ModelKind { return domain.ModelKindText }

func (s *stubClassifier) Process(context.Context, any) (*domain.Result, error) {
	return s.result, s.err
}

func (s *stubClassifier) Load() error {
	s.loads++
	return s.loadErr
}

func TestClassifierDecorator_Process(t *testing.T) {
	logger := &recordingLogger{}
	wrapped := &stubClassifier{result: &domain.Result{Predictions: []domain.Prediction{{Label: "POSITIVE", Score: 0.99}}}}
	classifier := NewClassifierDecorator(wrapped, logger)
	ctx := domain.WithRequestID(context.Background(), "req-1")

	result, err := classifier.Process(ctx, "I love this")

	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", result.Top().Label)
	assert.Equal(t, "Text-to-Sentiment", classifier.Name())
	messages := logger.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, `call Text-to-Sentiment.Process("I love this") request=req-1`, messages[0])
	assert.Contains(t, messages[1], `returned "POSITIVE"`)
	assert.Contains(t, messages[1], "request=req-1")
}

func TestClassifierDecorator_ProcessFails(t *testing.T) {
	logger := &recordingLogger{}
	classifier := NewClassifierDecorator(&stubClassifier{err: domain.ErrInference}, logger)

	_, err := classifier.Process(context.Background(), "text")

	assert.ErrorIs(t, err, domain.ErrInference)
	messages := logger.Messages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1], "Text-to-Sentiment.Process failed after")
	assert.Contains(t, messages[1], domain.ErrInference.Error())
}

func TestClassifierDecorator_Load(t *testing.T) {
	logger := &recordingLogger{}
	wrapped := &stubClassifier{}
	loader, ok := NewClassifierDecorator(wrapped, logger).(domain.Loader)
	require.True(t, ok)

	require.NoError(t, loader.Load())
	assert.Equal(t, 1, wrapped.loads)
	assert.Contains(t, logger.Messages()[0], "Text-to-Sentiment loaded")

	wrapped.loadErr = errors.New("no such model")
	assert.Error(t, loader.Load())
	assert.Equal(t, "Text-to-Sentiment failed to load: no such model", logger.Messages()[1])
}

func TestDescribeInput(t *testing.T) {
	assert.Equal(t, `"short"`, describeInput("short"))
	assert.Equal(t, "int", describeInput(42))

	long := describeInput(strings.Repeat("é", 100))
	assert.True(t, strings.HasSuffix(long, `"...`))
	assert.Equal(t, `"`+strings.Repeat("é", 64)+`"...`, long)
}
