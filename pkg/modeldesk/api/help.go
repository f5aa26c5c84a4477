package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

const ModelDocsURL = "https://huggingface.co/docs/transformers"

var errOOPExplainerNotFound = errors.New("OOP explanation file not found")

var helpTopics = map[string]string{
	"quickstart": `Quick Start Guide:

1. Select a model (":models", then ":model <name or number>")
2. Text models take text, image models take an image path or URL
3. Enter your input
4. Run it (a plain line sets the input and runs right away; ":run" runs the current input again)
5. View results in the output`,
	"shortcuts": `Commands:

:new - New Session
:open <path> - Open Input File
:save <path> - Save Output
:quit - Exit Application`,
	"troubleshooting": `Troubleshooting Tips:

• Ensure input data is valid
• Check internet connection for model downloads
• Restart if models fail to load
• Clear model cache if experiencing issues`,
	"about": `Model Desk v1.0

A demonstration of AI model integration
behind small, composable interfaces.

Models: Hugging Face Transformers pipelines
Front ends: console, IRC`,
	"docs": "Model documentation: " + ModelDocsURL,
}

// HelpTopics lists the topics Help knows about, sorted.
func HelpTopics() []string {
	topics := make([]string, 0, len(helpTopics)+2)
	for topic := range helpTopics {
		topics = append(topics, topic)
	}
	topics = append(topics, "info", "oop")
	sort.Strings(topics)
	return topics
}

func (a *api) Help(topic string) (string, error) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	switch topic {
	case "", "quickstart":
		return helpTopics["quickstart"], nil
	case "info":
		return a.ModelInfo()
	case "oop":
		return a.readOOPExplainer()
	}
	text, ok := helpTopics[topic]
	if !ok {
		return "", fmt.Errorf("unknown help topic %q (try one of: %s)", topic, strings.Join(HelpTopics(), ", "))
	}
	return text, nil
}

func (a *api) readOOPExplainer() (string, error) {
	content, err := os.ReadFile(a.config.GetStringOrDefault(ConfigKeyOOPExplainerPath, "docs/oop_explainer.txt"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", errOOPExplainerNotFound
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}
