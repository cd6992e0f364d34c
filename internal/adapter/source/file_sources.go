package source

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
)

// FileFormatSource loads the question schema/example document from a JSON
// file, fresh per invocation.
type FileFormatSource struct {
	path string
}

// NewFileFormatSource creates a FileFormatSource for the given path.
func NewFileFormatSource(path string) *FileFormatSource {
	return &FileFormatSource{path: path}
}

// Load implements domain.FormatSource. A missing or unparseable document is
// fatal: there is no prompt to build without a target format.
func (s *FileFormatSource) Load(ctx context.Context) (*domain.QuestionFormat, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewFormatLoadError(s.path, err)
	}
	var format domain.QuestionFormat
	if err := json.Unmarshal(data, &format); err != nil {
		return nil, domain.NewFormatLoadError(s.path, err)
	}
	return &format, nil
}

// FileExistingQuestionsSource loads the dedup context from a plain-text
// file, one question per line.
type FileExistingQuestionsSource struct {
	path string
}

// NewFileExistingQuestionsSource creates a FileExistingQuestionsSource.
func NewFileExistingQuestionsSource(path string) *FileExistingQuestionsSource {
	return &FileExistingQuestionsSource{path: path}
}

// Load implements domain.ExistingQuestionsSource. An absent file is an empty
// context, not an error; any other read failure is fatal.
func (s *FileExistingQuestionsSource) Load(ctx context.Context, topic string) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewContextLoadError(s.path, err)
	}

	var questions []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions, nil
}

var (
	_ domain.FormatSource            = (*FileFormatSource)(nil)
	_ domain.ExistingQuestionsSource = (*FileExistingQuestionsSource)(nil)
)
