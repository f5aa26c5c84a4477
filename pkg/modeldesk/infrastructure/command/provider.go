package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/filesystem"
)

const (
	// ConfigKeyPipelineCommand the command line of the pipeline runner, for example "python3 run_pipeline.py"
	ConfigKeyPipelineCommand = "pipelineCommand"
	// ConfigKeyPipelineCommandTimeout when to kill the runner if it takes too long, in milliseconds
	ConfigKeyPipelineCommandTimeout = "pipelineCommandTimeout"
)

const (
	taskTextClassification  = "text-classification"
	taskImageClassification = "image-classification"
)

var errEmptyCommand = errors.New("pipeline command is not configured")

// Provider runs pipelines as a subprocess, once per call:
//
//	<pipelineCommand> text-classification <modelID>               (text on stdin)
//	<pipelineCommand> image-classification <modelID> <png path>
//
// The runner prints a JSON list of {"label": ..., "score": ...} to stdout. A new process per call means a crash in
// the runner can't take the application down with it.
type Provider struct {
	// Only one call at a time: on commodity hardware, two models loaded at once usually don't fit in memory.
	mutex            sync.Mutex
	args             []string
	timeout          time.Duration
	tempPathProvider *filesystem.TempFilePathProvider
}

var _ domain.PipelineProvider = (*Provider)(nil)

func NewProvider(config *common.Config, tempPathProvider *filesystem.TempFilePathProvider) *Provider {
	return &Provider{
		args:             strings.Fields(config.GetString(ConfigKeyPipelineCommand)),
		timeout:          config.GetDurationOrDefault(ConfigKeyPipelineCommandTimeout, 5*time.Minute),
		tempPathProvider: tempPathProvider,
	}
}

func (p *Provider) TextPipeline(modelID string) (domain.TextPipeline, error) {
	if err := p.check(modelID); err != nil {
		return nil, err
	}
	return &textPipeline{provider: p, modelID: modelID}, nil
}

func (p *Provider) ImagePipeline(modelID string) (domain.ImagePipeline, error) {
	if err := p.check(modelID); err != nil {
		return nil, err
	}
	return &imagePipeline{provider: p, modelID: modelID}, nil
}

func (p *Provider) check(modelID string) error {
	if len(p.args) == 0 {
		return errEmptyCommand
	}
	if modelID == "" {
		return errors.New("empty model ID")
	}
	return nil
}

type textPipeline struct {
	provider *Provider
	modelID  string
}

func (t *textPipeline) ClassifyText(ctx context.Context, text string) ([]domain.Prediction, error) {
	return t.provider.run(ctx, strings.NewReader(text), taskTextClassification, t.modelID)
}

type imagePipeline struct {
	provider *Provider
	modelID  string
}

func (i *imagePipeline) ClassifyImage(ctx context.Context, img image.Image) ([]domain.Prediction, error) {
	path := i.provider.tempPathProvider.GetTempFilePath("modeldesk_" + uuid.NewString() + ".png")
	if err := writePNG(path, img); err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(path)
	}()
	return i.provider.run(ctx, nil, taskImageClassification, i.modelID, path)
}

func (p *Provider) run(ctx context.Context, stdin *strings.Reader, taskArgs ...string) ([]domain.Prediction, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	ctx, cancelFunc := context.WithTimeout(ctx, p.timeout)
	defer cancelFunc()
	args := append(append([]string{}, p.args[1:]...), taskArgs...)
	cmd := exec.CommandContext(ctx, p.args[0], args...)
	// Children of the runner may keep stdout open after it's killed.
	cmd.WaitDelay = time.Second
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pipeline command timed out after %s", p.timeout)
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			return nil, fmt.Errorf("pipeline command failed: %w", err)
		}
		return nil, fmt.Errorf("pipeline command failed: %w: %s", err, lastLine(message))
	}
	var predictions []domain.Prediction
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &predictions); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline output: %w", err)
	}
	return predictions, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = png.Encode(file, img)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// Tracebacks are long; the last line usually says what's wrong.
func lastLine(str string) string {
	index := strings.LastIndex(str, "\n")
	if index == -1 {
		return str
	}
	return str[index+1:]
}
