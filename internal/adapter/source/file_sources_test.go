package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileFormatSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "format.json", `{
		"schema": {"type": "array"},
		"example": {"question": "What is Go?"}
	}`)

	format, err := NewFileFormatSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"array"}`, string(format.Schema))
	assert.JSONEq(t, `{"question":"What is Go?"}`, string(format.Example))
}

func TestFileFormatSource_MissingFileFatal(t *testing.T) {
	_, err := NewFileFormatSource(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrFormatLoad, domainErr.Code)
}

func TestFileFormatSource_MalformedJSONFatal(t *testing.T) {
	path := writeFile(t, t.TempDir(), "format.json", "{not json")

	_, err := NewFileFormatSource(path).Load(context.Background())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrFormatLoad, domainErr.Code)
}

func TestFileExistingQuestionsSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "existing.txt", "What is a mutex?\n\n  What is a channel?  \n")

	questions, err := NewFileExistingQuestionsSource(path).Load(context.Background(), "concurrency")
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a mutex?", "What is a channel?"}, questions)
}

func TestFileExistingQuestionsSource_AbsentFileIsEmptyContext(t *testing.T) {
	questions, err := NewFileExistingQuestionsSource(filepath.Join(t.TempDir(), "absent.txt")).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, questions)
}

func TestFileExistingQuestionsSource_UnreadableFileFatal(t *testing.T) {
	// A directory at the path fails the read with something other than
	// not-exist.
	dir := t.TempDir()

	_, err := NewFileExistingQuestionsSource(dir).Load(context.Background(), "")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrContextLoad, domainErr.Code)
}
