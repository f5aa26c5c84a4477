package filesystem

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// TextFileStore reads and writes whole plain-text files.
type TextFileStore struct{}

func NewTextFileStore() *TextFileStore {
	return &TextFileStore{}
}

// ReadText fails on content which isn't valid UTF-8 (most likely a binary file picked by mistake).
func (t *TextFileStore) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not a UTF-8 text file", path)
	}
	return string(data), nil
}

func (t *TextFileStore) WriteText(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
