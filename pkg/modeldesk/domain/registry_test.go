package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/modeldesk/pkg/common"
)

func newCountingRegistry() (*ModelRegistry, map[string]int) {
	constructed := make(map[string]int)
	factory := func(descriptor *ModelDescriptor) (Classifier, error) {
		constructed[descriptor.DisplayName]++
		return &blockingClassifier{name: descriptor.DisplayName}, nil
	}
	registry := NewModelRegistry(DefaultModelDescriptors(common.NewConfig(nil), factory, factory))
	return registry, constructed
}

func TestModelRegistry_GetOrCreate(t *testing.T) {
	t.Run("caches one instance per model", func(t *testing.T) {
		registry, constructed := newCountingRegistry()

		for _, name := range registry.Names() {
			first, err := registry.GetOrCreate(name)
			require.NoError(t, err)
			second, err := registry.GetOrCreate(name)
			require.NoError(t, err)

			assert.Same(t, first, second)
			assert.Equal(t, 1, constructed[name])
			assert.True(t, registry.IsCached(name))
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		registry, _ := newCountingRegistry()

		_, err := registry.GetOrCreate("Speech-to-Text")

		assert.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("factory failure isn't cached", func(t *testing.T) {
		calls := 0
		registry := NewModelRegistry([]*ModelDescriptor{{
			DisplayName: "flaky",
			Factory: func(descriptor *ModelDescriptor) (Classifier, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("not yet")
				}
				return &blockingClassifier{name: descriptor.DisplayName}, nil
			},
		}})

		_, err := registry.GetOrCreate("flaky")
		require.Error(t, err)
		assert.False(t, registry.IsCached("flaky"))

		_, err = registry.GetOrCreate("flaky")
		assert.NoError(t, err)
	})
}

func TestModelRegistry_Clear(t *testing.T) {
	registry, constructed := newCountingRegistry()
	before, err := registry.GetOrCreate(ModelNameTextToSentiment)
	require.NoError(t, err)

	registry.Clear()
	after, err := registry.GetOrCreate(ModelNameTextToSentiment)

	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, 2, constructed[ModelNameTextToSentiment])
}

func TestModelRegistry_Reload(t *testing.T) {
	t.Run("drops only that model", func(t *testing.T) {
		registry, constructed := newCountingRegistry()
		text, err := registry.GetOrCreate(ModelNameTextToSentiment)
		require.NoError(t, err)
		img, err := registry.GetOrCreate(ModelNameImageClassification)
		require.NoError(t, err)

		require.NoError(t, registry.Reload(ModelNameTextToSentiment))

		newText, err := registry.GetOrCreate(ModelNameTextToSentiment)
		require.NoError(t, err)
		sameImg, err := registry.GetOrCreate(ModelNameImageClassification)
		require.NoError(t, err)
		assert.NotSame(t, text, newText)
		assert.Same(t, img, sameImg)
		assert.Equal(t, 2, constructed[ModelNameTextToSentiment])
		assert.Equal(t, 1, constructed[ModelNameImageClassification])
	})

	t.Run("unknown model", func(t *testing.T) {
		registry, _ := newCountingRegistry()

		assert.ErrorIs(t, registry.Reload("nope"), ErrUnknownModel)
	})
}

func TestDefaultModelDescriptors(t *testing.T) {
	t.Run("stock models", func(t *testing.T) {
		registry, _ := newCountingRegistry()

		assert.Equal(t, []string{ModelNameTextToSentiment, ModelNameImageClassification}, registry.Names())
		assert.Equal(t, DefaultTextModelID, registry.Descriptor(ModelNameTextToSentiment).ModelID)
		assert.Equal(t, ModelKindImage, registry.Descriptor(ModelNameImageClassification).Kind)
		assert.Nil(t, registry.Descriptor("nope"))
	})

	t.Run("model IDs come from config", func(t *testing.T) {
		config := common.NewConfig(map[string]any{ConfigKeyImageModelID: "microsoft/resnet-50"})

		descriptors := DefaultModelDescriptors(config, nil, nil)

		assert.Equal(t, DefaultTextModelID, descriptors[0].ModelID)
		assert.Equal(t, "microsoft/resnet-50", descriptors[1].ModelID)
	})
}
