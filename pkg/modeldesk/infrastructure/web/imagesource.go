package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/filesystem"
)

const (
	// ConfigKeyDownloadTimeout how long an image download may take, in milliseconds
	ConfigKeyDownloadTimeout = "downloadTimeout"
	// ConfigKeyMaxDownloadSize the largest image we agree to download, in bytes
	ConfigKeyMaxDownloadSize = "maxDownloadSize"
)

// ImageSource resolves what the user gave as an image into a local file path. Paths are returned as is; an image URL
// is downloaded to a temp file first.
type ImageSource struct {
	urlFinder        *URLFinder
	tempPathProvider *filesystem.TempFilePathProvider
	httpClient       *http.Client
	timeout          time.Duration
	maxBytes         int64
}

func NewImageSource(
	urlFinder *URLFinder,
	tempPathProvider *filesystem.TempFilePathProvider,
	httpClient *http.Client,
	config *common.Config,
) *ImageSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ImageSource{
		urlFinder:        urlFinder,
		tempPathProvider: tempPathProvider,
		httpClient:       httpClient,
		timeout:          config.GetDurationOrDefault(ConfigKeyDownloadTimeout, 30*time.Second),
		maxBytes:         int64(config.GetIntOrDefault(ConfigKeyMaxDownloadSize, 20<<20)),
	}
}

// IsURL reports whether the input is exactly one http(s) URL.
func (i *ImageSource) IsURL(input string) bool {
	_, ok := i.singleURL(input)
	return ok
}

func (i *ImageSource) Resolve(ctx context.Context, input string) (string, error) {
	rawURL, ok := i.singleURL(input)
	if !ok {
		return strings.TrimSpace(input), nil
	}
	if !common.IsImageFormat(rawURL) {
		return "", fmt.Errorf("%s doesn't look like an image", rawURL)
	}
	filePath := i.tempPathProvider.GetTempFilePath("modeldesk_" + uuid.NewString() + extensionOf(rawURL))
	ctx, cancelFunc := context.WithTimeout(ctx, i.timeout)
	defer cancelFunc()
	if err := common.DownloadFromURL(ctx, i.httpClient, rawURL, filePath, i.maxBytes); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	return filePath, nil
}

func (i *ImageSource) singleURL(input string) (string, bool) {
	input = strings.TrimSpace(input)
	urls := i.urlFinder.FindURLs(input)
	if len(urls) != 1 || urls[0] != input {
		return "", false
	}
	parsed, err := url.Parse(input)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", false
	}
	return input, true
}

func extensionOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(parsed.Path))
}
