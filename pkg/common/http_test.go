package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/small":
			_, _ = w.Write([]byte("tiny"))
		case "/large":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Run("saves the body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "small")

		err := DownloadFromURL(context.Background(), server.Client(), server.URL+"/small", path, 10)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "tiny", string(content))
	})

	t.Run("refuses oversized bodies", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "large")

		err := DownloadFromURL(context.Background(), server.Client(), server.URL+"/large", path, 10)

		assert.Error(t, err)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("reports bad status", func(t *testing.T) {
		err := DownloadFromURL(context.Background(), server.Client(), server.URL+"/missing", filepath.Join(t.TempDir(), "x"), 10)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}
