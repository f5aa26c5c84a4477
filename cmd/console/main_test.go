package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveModelName(t *testing.T) {
	models := []string{"Text-to-Sentiment", "Image Classification"}
	tests := []struct {
		argument string
		expected string
	}{
		{"1", "Text-to-Sentiment"},
		{"2", "Image Classification"},
		{"image classification", "Image Classification"},
		{"3", "3"},
		{"0", "0"},
		{"Speech-to-Text", "Speech-to-Text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModelName(models, tt.argument), tt.argument)
	}
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer

	reportError(&out, nil)
	assert.Empty(t, out.String())

	reportError(&out, errors.New("unknown command :foo"))
	assert.Equal(t, "error: unknown command :foo\n", out.String())
}
