package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputGuard(t *testing.T) {
	provider := &fakeProvider{textPipeline: &fakeTextPipeline{}}
	guarded := NewInputGuard(NewTextClassifier(ModelNameTextToSentiment, DefaultTextModelID, provider))

	_, err := guarded.Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInputType)

	_, err = guarded.Process(context.Background(), "   \n")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, provider.Loads())

	result, err := guarded.Process(context.Background(), "I love this")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", result.Top().Label)

	assert.Equal(t, ModelNameTextToSentiment, guarded.Name())
	assert.Equal(t, ModelKindText, guarded.Kind())
}

func TestTimedClassifier(t *testing.T) {
	t.Run("records the last runtime", func(t *testing.T) {
		timed := NewTimedClassifier(NewTextClassifier(ModelNameTextToSentiment, DefaultTextModelID, &fakeProvider{textPipeline: &fakeTextPipeline{}}))
		_, measured := timed.LastRuntime()
		assert.False(t, measured)

		_, err := timed.Process(context.Background(), "ok")

		require.NoError(t, err)
		runtime, measured := timed.LastRuntime()
		assert.True(t, measured)
		assert.GreaterOrEqual(t, int64(runtime), int64(0))
	})

	t.Run("records failed calls too", func(t *testing.T) {
		timed := NewTimedClassifier(&blockingClassifier{name: "broken", err: errors.New("boom")})

		_, err := timed.Process(context.Background(), "ok")

		assert.Error(t, err)
		_, measured := timed.LastRuntime()
		assert.True(t, measured)
	})

	t.Run("passes Load through", func(t *testing.T) {
		provider := &fakeProvider{textPipeline: &fakeTextPipeline{}}
		timed := NewTimedClassifier(NewInputGuard(NewTextClassifier(ModelNameTextToSentiment, DefaultTextModelID, provider)))

		require.NoError(t, timed.Load())

		assert.Equal(t, 1, provider.Loads())
	})

	t.Run("Load without a loader is a no-op", func(t *testing.T) {
		timed := NewTimedClassifier(&blockingClassifier{name: "plain"})

		assert.NoError(t, timed.Load())
	})
}
