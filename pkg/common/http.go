package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DownloadFromURL saves the content behind `url` to `path`. At most `maxBytes` are read; anything larger is
// an error, so a page which streams forever can't fill the disk.
func DownloadFromURL(ctx context.Context, client *http.Client, url, path string, maxBytes int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", res.StatusCode)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	written, err := io.Copy(file, io.LimitReader(res.Body, maxBytes+1))
	closeErr := file.Close()
	if err == nil && written > maxBytes {
		err = fmt.Errorf("download exceeds %d bytes", maxBytes)
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
