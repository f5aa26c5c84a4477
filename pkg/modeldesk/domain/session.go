package domain

import "strings"

// Session holds what the user picked and typed. Like the view, it belongs to the event loop.
type Session struct {
	SelectedModel string
	TextInput     string
	ImagePath     string
}

func NewSession(selectedModel string) *Session {
	return &Session{SelectedModel: selectedModel}
}

// InputFor returns the input matching the kind of the selected model.
func (s *Session) InputFor(kind ModelKind) string {
	if kind == ModelKindImage {
		return s.ImagePath
	}
	return s.TextInput
}

// Reset forgets the inputs but keeps the selected model.
func (s *Session) Reset() {
	s.TextInput = ""
	s.ImagePath = ""
}

// OutputLog is the output display: lines are only ever appended, or all cleared.
type OutputLog struct {
	lines []string
}

func NewOutputLog() *OutputLog {
	return &OutputLog{}
}

func (o *OutputLog) Write(line string) {
	o.lines = append(o.lines, line)
}

func (o *OutputLog) Clear() {
	o.lines = nil
}

func (o *OutputLog) Lines() []string {
	result := make([]string, len(o.lines))
	copy(result, o.lines)
	return result
}

func (o *OutputLog) String() string {
	return strings.Join(o.lines, "\n")
}
