package domain

// A list of config keys understood by the core (settings of individual pipeline providers live next to them).

const (
	// ConfigKeyTextModelID the pipeline model behind "Text-to-Sentiment"
	ConfigKeyTextModelID = "textModelID"
	// ConfigKeyImageModelID the pipeline model behind "Image Classification"
	ConfigKeyImageModelID = "imageModelID"
	// ConfigKeyImageTopK how many of the best image labels to show
	ConfigKeyImageTopK = "imageTopK"
)

const (
	DefaultTextModelID  = "distilbert-base-uncased-finetuned-sst-2-english"
	DefaultImageModelID = "google/vit-base-patch16-224"
	DefaultImageTopK    = 3
)
