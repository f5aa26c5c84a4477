package logging

import (
	"context"
	"fmt"
	"time"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
)

type classifierDecorator struct {
	domain.Classifier
	logger common.Logger
}

// NewClassifierDecorator logs every Process call of the wrapped classifier: what came in, what came out and how long
// it took.
func NewClassifierDecorator(wrappedClassifier domain.Classifier, logger common.Logger) domain.Classifier {
	return &classifierDecorator{
		Classifier: wrappedClassifier,
		logger:     logger,
	}
}

func (c *classifierDecorator) Process(ctx context.Context, input any) (*domain.Result, error) {
	requestID := domain.RequestIDFromContext(ctx)
	c.logger.Log(fmt.Sprintf("call %s.Process(%s) request=%s", c.Name(), describeInput(input), requestID))
	t := time.Now()
	result, err := c.Classifier.Process(ctx, input)
	took := time.Since(t).Milliseconds()
	if err != nil {
		c.logger.Log(fmt.Sprintf("%s.Process failed after %d ms request=%s: %s", c.Name(), took, requestID, err))
		return nil, err
	}
	c.logger.Log(fmt.Sprintf("%s.Process returned %q (took %d ms) request=%s", c.Name(), result.Top().Label, took, requestID))
	return result, nil
}

func (c *classifierDecorator) Load() error {
	loader, ok := c.Classifier.(domain.Loader)
	if !ok {
		return nil
	}
	t := time.Now()
	err := loader.Load()
	if err != nil {
		c.logger.Log(fmt.Sprintf("%s failed to load: %s", c.Name(), err))
		return err
	}
	c.logger.Log(fmt.Sprintf("%s loaded (took %d ms)", c.Name(), time.Since(t).Milliseconds()))
	return nil
}

// Inputs can be long texts, only the beginning goes to the log.
func describeInput(input any) string {
	const maxLength = 64
	str, ok := input.(string)
	if !ok {
		return fmt.Sprintf("%T", input)
	}
	runes := []rune(str)
	if len(runes) > maxLength {
		return fmt.Sprintf("%q...", string(runes[:maxLength]))
	}
	return fmt.Sprintf("%q", str)
}
