package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, isHTTPURL("https://example.com/cat.png"))
	assert.True(t, isHTTPURL("http://example.com/cat.png"))
	assert.False(t, isHTTPURL("/etc/passwd"))
	assert.False(t, isHTTPURL("file:///etc/passwd"))
	assert.False(t, isHTTPURL(""))
}
