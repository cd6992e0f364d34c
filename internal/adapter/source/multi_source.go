package source

import (
	"context"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
)

// MultiQuestionsSource merges the dedup contexts of several sources in order,
// dropping duplicate texts. Any source failure is fatal: a silently missing
// context would defeat deduplication.
type MultiQuestionsSource struct {
	sources []domain.ExistingQuestionsSource
}

// NewMultiQuestionsSource creates a MultiQuestionsSource.
func NewMultiQuestionsSource(sources ...domain.ExistingQuestionsSource) *MultiQuestionsSource {
	return &MultiQuestionsSource{sources: sources}
}

// Load implements domain.ExistingQuestionsSource.
func (s *MultiQuestionsSource) Load(ctx context.Context, topic string) ([]string, error) {
	seen := make(map[string]struct{})
	var merged []string
	for _, src := range s.sources {
		texts, err := src.Load(ctx, topic)
		if err != nil {
			return nil, err
		}
		for _, t := range texts {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged, nil
}

var _ domain.ExistingQuestionsSource = (*MultiQuestionsSource)(nil)
