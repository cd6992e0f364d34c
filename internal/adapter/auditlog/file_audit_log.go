package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"go.uber.org/zap"
)

// FileAuditLog appends labeled generation entries to per-kind text logs under
// a configured directory. Every write failure is warned and swallowed: a
// logging outage never blocks question generation. Concurrent pipelines may
// interleave entries; each entry is a single O_APPEND write so interleaving
// happens at entry granularity only.
type FileAuditLog struct {
	dir    string
	logger *zap.Logger
}

// NewFileAuditLog creates a FileAuditLog under dir.
func NewFileAuditLog(dir string, logger *zap.Logger) *FileAuditLog {
	return &FileAuditLog{dir: dir, logger: logger}
}

// LogPrompt implements domain.AuditLog.
func (l *FileAuditLog) LogPrompt(requestID string, prompt string) {
	l.append("prompt.log", requestID, prompt)
}

// LogResponse implements domain.AuditLog.
func (l *FileAuditLog) LogResponse(requestID string, response string) {
	l.append("response.log", requestID, response)
}

// LogError implements domain.AuditLog.
func (l *FileAuditLog) LogError(requestID string, stage string, err error) {
	l.append("error.log", requestID, fmt.Sprintf("[%s] %v", stage, err))
}

// LogConversation implements domain.AuditLog. The consolidated view combines
// metadata, prompt, response and error outcome in one JSON entry.
func (l *FileAuditLog) LogConversation(meta domain.GenerationMetadata, prompt, response, errMsg string) {
	entry := struct {
		Metadata domain.GenerationMetadata `json:"metadata"`
		Prompt   string                    `json:"prompt"`
		Response string                    `json:"response"`
		Error    string                    `json:"error,omitempty"`
	}{meta, prompt, response, errMsg}

	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Warn("Failed to encode conversation entry", zap.Error(err), zap.String("request_id", meta.RequestID))
		return
	}
	l.appendRaw("conversations.log", append(data, '\n'), meta.RequestID)
}

func (l *FileAuditLog) append(file, requestID, body string) {
	entry := fmt.Sprintf("[%s] [%s]\n%s\n\n", time.Now().UTC().Format(time.RFC3339), requestID, body)
	l.appendRaw(file, []byte(entry), requestID)
}

func (l *FileAuditLog) appendRaw(file string, data []byte, requestID string) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		l.logger.Warn("Failed to create audit log directory", zap.Error(err), zap.String("request_id", requestID))
		return
	}
	path := filepath.Join(l.dir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("Failed to open audit log", zap.Error(err), zap.String("path", path), zap.String("request_id", requestID))
		return
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		l.logger.Warn("Failed to append audit log entry", zap.Error(err), zap.String("path", path), zap.String("request_id", requestID))
	}
}

var _ domain.AuditLog = (*FileAuditLog)(nil)
