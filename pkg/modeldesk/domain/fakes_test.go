package domain

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"kgeyst.com/modeldesk/pkg/common"
)

type nopLogger struct{}

func (nopLogger) Log(string) {}

// fakeTextPipeline says POSITIVE for anything containing "love", NEGATIVE otherwise.
type fakeTextPipeline struct {
	err error
}

func (f *fakeTextPipeline) ClassifyText(_ context.Context, text string) ([]Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(strings.ToLower(text), "love") {
		return []Prediction{{Label: "NEGATIVE", Score: 0.0002}, {Label: "POSITIVE", Score: 0.9998}}, nil
	}
	return []Prediction{{Label: "NEGATIVE", Score: 0.97}, {Label: "POSITIVE", Score: 0.03}}, nil
}

type fakeImagePipeline struct {
	predictions []Prediction
	err         error
	images      int32
}

func (f *fakeImagePipeline) ClassifyImage(_ context.Context, img image.Image) ([]Prediction, error) {
	atomic.AddInt32(&f.images, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.predictions, nil
}

type fakeProvider struct {
	textPipeline  TextPipeline
	imagePipeline ImagePipeline
	loadErr       error
	loads         int32
}

func (f *fakeProvider) TextPipeline(string) (TextPipeline, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.textPipeline, nil
}

func (f *fakeProvider) ImagePipeline(string) (ImagePipeline, error) {
	atomic.AddInt32(&f.loads, 1)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.imagePipeline, nil
}

func (f *fakeProvider) Loads() int {
	return int(atomic.LoadInt32(&f.loads))
}

var errFileNotFound = errors.New("open missing.png: no such file or directory")

// fakeDecoder knows only the files it's been told about.
type fakeDecoder struct {
	files map[string]bool
}

func (f *fakeDecoder) Decode(path string) (image.Image, error) {
	if !f.files[path] {
		return nil, errFileNotFound
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

// blockingClassifier returns only once released.
type blockingClassifier struct {
	name    string
	release chan struct{}
	result  *Result
	err     error
	panics  bool
}

func (b *blockingClassifier) Name() string { return b.name }
func (b *blockingClassifier) Kind() ModelKind { return ModelKindText }

func (b *blockingClassifier) Process(context.Context, any) (*Result, error) {
	if b.release != nil {
		<-b.release
	}
	if b.panics {
		panic("pipeline exploded")
	}
	return b.result, b.err
}

// recordingView records what the orchestrator shows, in order.
type recordingView struct {
	mutex  sync.Mutex
	events []string
	idle   chan struct{}
}

func newRecordingView() *recordingView {
	return &recordingView{idle: make(chan struct{}, 16)}
}

func (r *recordingView) ShowBusy(busy bool) {
	r.mutex.Lock()
	if busy {
		r.events = append(r.events, "busy")
	} else {
		r.events = append(r.events, "idle")
	}
	r.mutex.Unlock()
	if !busy {
		r.idle <- struct{}{}
	}
}

func (r *recordingView) WriteOutput(line string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, line)
}

func (r *recordingView) Events() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingView) waitIdle(timeout time.Duration) bool {
	select {
	case <-r.idle:
		return true
	case <-time.After(timeout):
		return false
	}
}

func newTestJobQueue() *common.JobQueue {
	return common.NewJobQueue(nopLogger{})
}
