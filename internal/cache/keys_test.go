package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionTextsKey(t *testing.T) {
	assert.Equal(t, "hirebot:questions:texts:backend", QuestionTextsKey("backend"))
	assert.Equal(t, "hirebot:questions:texts:backend", QuestionTextsKey("  Backend "))
	assert.Equal(t, "hirebot:questions:texts:machine_learning_engineer", QuestionTextsKey("Machine Learning Engineer"))
	assert.Equal(t, "hirebot:questions:texts:all", QuestionTextsKey(""))
}

func TestPositionsKey(t *testing.T) {
	assert.Equal(t, "hirebot:positions", PositionsKey())
}
