package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/command"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/filesystem"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/huggingface"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/imaging"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/logging"
	"kgeyst.com/modeldesk/pkg/modeldesk/infrastructure/web"
)

const (
	// ConfigKeyPipelineProvider which pipelines to use: "huggingface" (default) or "command"
	ConfigKeyPipelineProvider = "pipelineProvider"
	// ConfigKeyOOPExplainerPath the text file shown by the "oop" help topic
	ConfigKeyOOPExplainerPath = "oopExplainerPath"
)

// View is what a front end implements to display output; see domain.View. Its methods are called from the API's
// own event loop, one at a time, never concurrently.
type View = domain.View

// API is the entrypoint to the model desk. It shouldn't contain any logic of its own; it glues the components together
// so that any front end (console, IRC chat) can drive it. All methods are safe to call from any goroutine: they're
// executed on a single event loop which owns the session and the output.
type API interface {
	// Models lists the display names of all models, in menu order.
	Models() []string
	// SelectModel makes `name` the model used by Run.
	SelectModel(name string) error
	CurrentModel() string
	// CurrentModelKind tells what kind of input the current model takes.
	CurrentModelKind() domain.ModelKind
	// SetTextInput sets the input for text models.
	SetTextInput(text string) error
	// SetImageInput sets the input for image models: a local path, or an image URL which is downloaded first.
	SetImageInput(pathOrURL string) error
	// SetInput sets the input matching the kind of the current model.
	SetInput(input string) error
	// Run runs the current model over the current input in the background. The result shows up in the output
	// once it's ready. Validation errors are returned (and written to the output) right away.
	Run() error
	// IsBusy tells whether a run is in flight.
	IsBusy() bool
	// Output returns the whole output log.
	Output() string
	ClearOutput() error
	// NewSession clears the output and all inputs.
	NewSession() error
	// OpenInputFile loads a text file as text input and switches to the sentiment model.
	OpenInputFile(path string) error
	// SaveOutput writes the output log to a text file.
	SaveOutput(path string) error
	// ClearModelCache drops all loaded models.
	ClearModelCache() error
	// ReloadCurrentModel drops the current model and loads it again in the background.
	ReloadCurrentModel() error
	// ModelInfo describes the current model.
	ModelInfo() (string, error)
	// Help returns the text of a help topic, see HelpTopics.
	Help(topic string) (string, error)
}

type Stoppable interface {
	Stop()
}

// reportedError marks errors which have already been written to the output.
type reportedError struct {
	error
}

func (r *reportedError) Unwrap() error {
	return r.error
}

func reported(err error) error {
	return &reportedError{error: err}
}

// IsReported tells whether the error has already been written to the output, so the front end doesn't need to
// show it again.
func IsReported(err error) bool {
	var target *reportedError
	return errors.As(err, &target)
}

type api struct {
	config       *common.Config
	logger       common.Logger
	jobQueue     *common.JobQueue
	registry     *domain.ModelRegistry
	orchestrator *domain.RunOrchestrator
	session      *domain.Session
	output       *domain.OutputLog
	view         View
	files        *filesystem.TextFileStore
	imageSource  *web.ImageSource
}

func NewAPI(config *common.Config, view View) (API, Stoppable, error) {
	logger, err := common.NewLoggerFromConfig(config)
	if err != nil {
		return nil, nil, err
	}
	tempPathProvider := filesystem.NewTempFilePathProvider(config)
	provider, err := newPipelineProvider(config, tempPathProvider)
	if err != nil {
		return nil, nil, err
	}
	imageSource := web.NewImageSource(web.NewURLFinder(), tempPathProvider, nil, config)
	a := newAPI(config, logger, provider, imaging.NewDecoder(), imageSource, view)
	return a, a, nil
}

func newPipelineProvider(config *common.Config, tempPathProvider *filesystem.TempFilePathProvider) (domain.PipelineProvider, error) {
	switch name := config.GetStringOrDefault(ConfigKeyPipelineProvider, "huggingface"); name {
	case "huggingface":
		return huggingface.NewProvider(config, nil), nil
	case "command":
		return command.NewProvider(config, tempPathProvider), nil
	default:
		return nil, fmt.Errorf("unknown pipeline provider %q", name)
	}
}

func newAPI(
	config *common.Config,
	logger common.Logger,
	provider domain.PipelineProvider,
	decoder domain.ImageDecoder,
	imageSource *web.ImageSource,
	view View,
) *api {
	decorate := func(factory domain.ClassifierFactory) domain.ClassifierFactory {
		return func(descriptor *domain.ModelDescriptor) (domain.Classifier, error) {
			classifier, err := factory(descriptor)
			if err != nil {
				return nil, err
			}
			return domain.NewTimedClassifier(logging.NewClassifierDecorator(domain.NewInputGuard(classifier), logger)), nil
		}
	}
	descriptors := domain.DefaultModelDescriptors(
		config,
		decorate(domain.NewTextClassifierFactory(provider)),
		decorate(domain.NewImageClassifierFactory(
			config.GetIntOrDefault(domain.ConfigKeyImageTopK, domain.DefaultImageTopK),
			provider,
			decoder,
		)),
	)
	registry := domain.NewModelRegistry(descriptors)
	jobQueue := common.NewJobQueue(logger)
	a := &api{
		config:      config,
		logger:      logger,
		jobQueue:    jobQueue,
		registry:    registry,
		session:     domain.NewSession(descriptors[0].DisplayName),
		output:      domain.NewOutputLog(),
		view:        view,
		files:       filesystem.NewTextFileStore(),
		imageSource: imageSource,
	}
	a.orchestrator = domain.NewRunOrchestrator(registry, jobQueue, &outputView{api: a}, logger)
	_ = a.do(func() error {
		a.writeOutput("Model selected: " + a.session.SelectedModel)
		return nil
	})
	return a
}

// outputView keeps the output log in sync with what the front end displays.
type outputView struct {
	api *api
}

func (o *outputView) ShowBusy(busy bool) {
	o.api.view.ShowBusy(busy)
}

func (o *outputView) WriteOutput(line string) {
	o.api.writeOutput(line)
}

// do runs `job` on the event loop and waits for it.
func (a *api) do(job common.Job) error {
	return a.jobQueue.Do(job)
}

// writeOutput must be called on the event loop.
func (a *api) writeOutput(line string) {
	a.output.Write(line)
	a.view.WriteOutput(line)
}

func (a *api) Stop() {
	a.jobQueue.Stop()
}

func (a *api) Models() []string {
	return a.registry.Names()
}

func (a *api) SelectModel(name string) error {
	return a.do(func() error {
		return a.selectModel(name)
	})
}

func (a *api) selectModel(name string) error {
	if a.registry.Descriptor(name) == nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownModel, name)
	}
	a.session.SelectedModel = name
	a.writeOutput("Model selected: " + name)
	return nil
}

func (a *api) CurrentModel() string {
	var name string
	_ = a.do(func() error {
		name = a.session.SelectedModel
		return nil
	})
	return name
}

func (a *api) SetTextInput(text string) error {
	return a.do(func() error {
		a.session.TextInput = strings.TrimSpace(text)
		return nil
	})
}

// SetImageInput downloads (if needed) on the caller's goroutine: the event loop must never block.
func (a *api) SetImageInput(pathOrURL string) error {
	path, err := a.imageSource.Resolve(context.Background(), pathOrURL)
	if err != nil {
		return err
	}
	return a.do(func() error {
		a.session.ImagePath = path
		return nil
	})
}

func (a *api) CurrentModelKind() domain.ModelKind {
	descriptor := a.registry.Descriptor(a.CurrentModel())
	if descriptor == nil {
		return domain.ModelKindText
	}
	return descriptor.Kind
}

func (a *api) SetInput(input string) error {
	if a.CurrentModelKind() == domain.ModelKindImage {
		return a.SetImageInput(input)
	}
	return a.SetTextInput(input)
}

func (a *api) Run() error {
	return a.do(func() error {
		descriptor := a.registry.Descriptor(a.session.SelectedModel)
		if descriptor == nil {
			return fmt.Errorf("%w: %q", domain.ErrUnknownModel, a.session.SelectedModel)
		}
		request := domain.NewRunRequest(descriptor.DisplayName, a.session.InputFor(descriptor.Kind))
		err := a.orchestrator.Trigger(request)
		if err != nil && !errors.Is(err, domain.ErrBusy) {
			return reported(err)
		}
		return err
	})
}

func (a *api) IsBusy() bool {
	var busy bool
	_ = a.do(func() error {
		busy = a.orchestrator.IsBusy()
		return nil
	})
	return busy
}

func (a *api) Output() string {
	var output string
	_ = a.do(func() error {
		output = a.output.String()
		return nil
	})
	return output
}

func (a *api) ClearOutput() error {
	return a.do(func() error {
		a.output.Clear()
		return nil
	})
}

func (a *api) NewSession() error {
	return a.do(func() error {
		a.output.Clear()
		a.session.Reset()
		a.writeOutput("New session started.")
		return nil
	})
}

func (a *api) OpenInputFile(path string) error {
	content, readErr := a.files.ReadText(path)
	return a.do(func() error {
		if readErr != nil {
			a.writeOutput(fmt.Sprintf("Error loading file: %s", readErr))
			return reported(readErr)
		}
		a.session.TextInput = strings.TrimSpace(content)
		if err := a.selectModel(domain.ModelNameTextToSentiment); err != nil {
			return err
		}
		a.writeOutput("Loaded: " + path)
		return nil
	})
}

func (a *api) SaveOutput(path string) error {
	return a.do(func() error {
		err := a.files.WriteText(path, a.output.String())
		if err != nil {
			a.writeOutput(fmt.Sprintf("Error saving file: %s", err))
			return reported(err)
		}
		a.writeOutput("Output saved to: " + path)
		return nil
	})
}

func (a *api) ClearModelCache() error {
	return a.do(func() error {
		a.registry.Clear()
		a.writeOutput("Model cache cleared.")
		return nil
	})
}

func (a *api) ReloadCurrentModel() error {
	return a.do(func() error {
		name := a.session.SelectedModel
		if err := a.registry.Reload(name); err != nil {
			return err
		}
		classifier, err := a.registry.GetOrCreate(name)
		if err != nil {
			return err
		}
		a.writeOutput("Loading model: " + name)
		go func() {
			loadErr := loadClassifier(classifier)
			a.jobQueue.Enqueue(func() error {
				if loadErr != nil {
					a.writeOutput("❌ ERROR: " + loadErr.Error())
					return nil
				}
				a.writeOutput("Model loaded: " + name)
				return nil
			})
		}()
		return nil
	})
}

func loadClassifier(classifier domain.Classifier) error {
	loader, ok := classifier.(domain.Loader)
	if !ok {
		return nil
	}
	return loader.Load()
}

func (a *api) ModelInfo() (string, error) {
	var info string
	err := a.do(func() error {
		descriptor := a.registry.Descriptor(a.session.SelectedModel)
		if descriptor == nil {
			return fmt.Errorf("%w: %q", domain.ErrUnknownModel, a.session.SelectedModel)
		}
		info = formatModelInfo(descriptor, a.registry.IsCached(descriptor.DisplayName))
		return nil
	})
	return info, err
}

func formatModelInfo(descriptor *domain.ModelDescriptor, loaded bool) string {
	status := "not in cache"
	if loaded {
		status = "in cache"
	}
	return fmt.Sprintf(
		"Current Model: %s\n\nModel: %s\nTask: %s\nInput: %s\nUse: %s\nStatus: %s",
		descriptor.DisplayName,
		descriptor.ModelID,
		descriptor.Category,
		descriptor.Kind,
		descriptor.Description,
		status,
	)
}
