package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readLog(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestFileAuditLog_PromptAndResponse(t *testing.T) {
	dir := t.TempDir()
	log := NewFileAuditLog(dir, zap.NewNop())

	log.LogPrompt("req-1", "generate questions about Go")
	log.LogResponse("req-1", "[]")

	prompts := readLog(t, dir, "prompt.log")
	assert.Contains(t, prompts, "[req-1]")
	assert.Contains(t, prompts, "generate questions about Go")

	responses := readLog(t, dir, "response.log")
	assert.Contains(t, responses, "[req-1]")
	assert.Contains(t, responses, "[]")
}

func TestFileAuditLog_EntriesAppend(t *testing.T) {
	dir := t.TempDir()
	log := NewFileAuditLog(dir, zap.NewNop())

	log.LogPrompt("req-1", "first")
	log.LogPrompt("req-2", "second")

	content := readLog(t, dir, "prompt.log")
	assert.Less(t, strings.Index(content, "first"), strings.Index(content, "second"))
	assert.Equal(t, 2, strings.Count(content, "\n\n"))
}

func TestFileAuditLog_ErrorCarriesStage(t *testing.T) {
	dir := t.TempDir()
	log := NewFileAuditLog(dir, zap.NewNop())

	log.LogError("req-1", "extraction", fmt.Errorf("no parseable JSON"))

	content := readLog(t, dir, "error.log")
	assert.Contains(t, content, "[extraction]")
	assert.Contains(t, content, "no parseable JSON")
}

func TestFileAuditLog_ConversationIsJSONLine(t *testing.T) {
	dir := t.TempDir()
	log := NewFileAuditLog(dir, zap.NewNop())

	meta := domain.GenerationMetadata{
		Timestamp: time.Now().UTC(),
		RequestID: "req-1",
		Options:   domain.GenerationOptions{Topic: "channels"},
	}
	log.LogConversation(meta, "the prompt", "the response", "")
	log.LogConversation(meta, "the prompt", "", "generation failed")

	lines := strings.Split(strings.TrimSpace(readLog(t, dir, "conversations.log")), "\n")
	require.Len(t, lines, 2)

	var first struct {
		Metadata domain.GenerationMetadata `json:"metadata"`
		Prompt   string                    `json:"prompt"`
		Response string                    `json:"response"`
		Error    string                    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "req-1", first.Metadata.RequestID)
	assert.Equal(t, "channels", first.Metadata.Options.Topic)
	assert.Equal(t, "the prompt", first.Prompt)
	assert.Equal(t, "the response", first.Response)
	assert.Empty(t, first.Error)

	assert.Contains(t, lines[1], "generation failed")
}

func TestFileAuditLog_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "generation")
	log := NewFileAuditLog(dir, zap.NewNop())

	log.LogPrompt("req-1", "prompt")
	assert.FileExists(t, filepath.Join(dir, "prompt.log"))
}

func TestFileAuditLog_WriteFailureSwallowed(t *testing.T) {
	// A file where the directory should be makes every append fail; the
	// audit log must not panic or error out.
	base := t.TempDir()
	blocked := filepath.Join(base, "audit")
	require.NoError(t, os.WriteFile(blocked, []byte("occupied"), 0o644))

	log := NewFileAuditLog(blocked, zap.NewNop())
	log.LogPrompt("req-1", "prompt")
	log.LogResponse("req-1", "response")
	log.LogError("req-1", "generation", fmt.Errorf("boom"))
	log.LogConversation(domain.GenerationMetadata{RequestID: "req-1"}, "p", "r", "")
}
