package domain

import (
	"fmt"
	"sync"
)

// ModelRegistry maps display names to models and caches one classifier per model for the whole session.
// All methods are safe for concurrent use; front ends still call them from their event loop only.
type ModelRegistry struct {
	mutex       sync.Mutex
	descriptors []*ModelDescriptor
	byName      map[string]*ModelDescriptor
	instances   map[string]Classifier
}

func NewModelRegistry(descriptors []*ModelDescriptor) *ModelRegistry {
	byName := make(map[string]*ModelDescriptor, len(descriptors))
	for _, descriptor := range descriptors {
		byName[descriptor.DisplayName] = descriptor
	}
	return &ModelRegistry{
		descriptors: descriptors,
		byName:      byName,
		instances:   make(map[string]Classifier),
	}
}

// GetOrCreate returns the cached classifier for `name`, constructing it with the descriptor's factory on first use.
func (m *ModelRegistry) GetOrCreate(name string) (Classifier, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if instance, ok := m.instances[name]; ok {
		return instance, nil
	}
	descriptor, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	instance, err := descriptor.Factory(descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", name, err)
	}
	m.instances[name] = instance
	return instance, nil
}

// Clear drops every cached classifier: models are loaded again on next use.
func (m *ModelRegistry) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.instances = make(map[string]Classifier)
}

// Reload drops the cached classifier of a single model.
func (m *ModelRegistry) Reload(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	delete(m.instances, name)
	return nil
}

// IsCached reports whether a classifier for `name` currently exists.
func (m *ModelRegistry) IsCached(name string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.instances[name]
	return ok
}

// Descriptor returns nil if `name` isn't registered.
func (m *ModelRegistry) Descriptor(name string) *ModelDescriptor {
	return m.byName[name]
}

// Descriptors returns all models in the order they were registered.
func (m *ModelRegistry) Descriptors() []*ModelDescriptor {
	result := make([]*ModelDescriptor, len(m.descriptors))
	copy(result, m.descriptors)
	return result
}

func (m *ModelRegistry) Names() []string {
	names := make([]string, 0, len(m.descriptors))
	for _, descriptor := range m.descriptors {
		names = append(names, descriptor.DisplayName)
	}
	return names
}
