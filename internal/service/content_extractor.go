package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"go.uber.org/zap"
)

// The generation service is not contractually bound to return a bare JSON
// array: observed responses wrap it in prose, markdown fences, or a
// JSON-Schema-like envelope. Extraction is an ordered list of strategies,
// tried cheapest-first, each a pure function from raw text to a parsed value.

const fenceDelimiter = "```"

var (
	// Fenced block with an optional json/javascript/js language hint.
	taggedFenceRe = regexp.MustCompile("(?s)```(?:json|javascript|js)?[ \\t]*\\n(.*?)```")
	// Any fenced block, hint or not, newline or not.
	anyFenceRe = regexp.MustCompile("(?s)```(.*?)```")
	// A language-hint line at the start of a fence body.
	langHintLineRe = regexp.MustCompile(`^(?:json|javascript|js)[ \t]*\r?\n`)
)

// extractionStrategy recovers a parsed JSON value from raw response text.
type extractionStrategy struct {
	name string
	fn   func(raw string) (interface{}, error)
}

// ContentExtractor recovers a question array from free-text model output.
type ContentExtractor struct {
	logger     *zap.Logger
	strategies []extractionStrategy
}

// NewContentExtractor creates a ContentExtractor.
func NewContentExtractor(logger *zap.Logger) *ContentExtractor {
	e := &ContentExtractor{logger: logger}
	e.strategies = []extractionStrategy{
		{name: "tagged_fence", fn: e.parseTaggedFence},
		{name: "any_fence", fn: e.parseAnyFence},
		{name: "fence_middle", fn: e.parseFenceMiddle},
		{name: "plain_text", fn: e.parsePlain},
		{name: "bracket_scan", fn: e.parseBalancedSpan},
	}
	return e
}

// Extract runs the strategy ladder and normalizes the first parsed value into
// a question array. In strict mode a lone question object is not wrapped.
func (e *ContentExtractor) Extract(raw string, strictMode bool) ([]interface{}, error) {
	var firstErr error
	for _, s := range e.strategies {
		value, err := s.fn(raw)
		if err != nil {
			if firstErr == nil && err != errStrategyNotApplicable {
				firstErr = err
			}
			continue
		}
		e.logger.Debug("Extraction strategy succeeded", zap.String("strategy", s.name))
		items, err := e.normalizeEnvelope(value, strictMode)
		if err != nil {
			return nil, domain.NewContentExtractionError(raw, err)
		}
		return items, nil
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("response contains no parseable JSON")
	}
	return nil, domain.NewContentExtractionError(raw, firstErr)
}

// errStrategyNotApplicable marks a strategy whose precondition did not hold,
// as opposed to one that found candidate text that failed to parse. Only the
// latter kind of error is worth surfacing to the caller.
var errStrategyNotApplicable = fmt.Errorf("strategy not applicable")

func (e *ContentExtractor) parseTaggedFence(raw string) (interface{}, error) {
	if !strings.Contains(raw, fenceDelimiter) {
		return nil, errStrategyNotApplicable
	}
	m := taggedFenceRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, errStrategyNotApplicable
	}
	return parseCandidate(m[1])
}

func (e *ContentExtractor) parseAnyFence(raw string) (interface{}, error) {
	if !strings.Contains(raw, fenceDelimiter) {
		return nil, errStrategyNotApplicable
	}
	m := anyFenceRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, errStrategyNotApplicable
	}
	return parseCandidate(m[1])
}

// parseFenceMiddle splits on the fence delimiter and takes the middle
// segment, for responses whose fences the regexes could not pair up.
func (e *ContentExtractor) parseFenceMiddle(raw string) (interface{}, error) {
	if !strings.Contains(raw, fenceDelimiter) {
		return nil, errStrategyNotApplicable
	}
	parts := strings.Split(raw, fenceDelimiter)
	if len(parts) < 3 {
		return nil, errStrategyNotApplicable
	}
	middle := langHintLineRe.ReplaceAllString(strings.TrimLeft(parts[1], " \t"), "")
	return parseCandidate(middle)
}

func (e *ContentExtractor) parsePlain(raw string) (interface{}, error) {
	return parseCandidate(raw)
}

// parseBalancedSpan re-scans the original text character by character,
// tracking quote and escape state, and parses balanced top-level [...] or
// {...} spans in order. The first span that looks like question payload wins;
// a parseable but implausible span is kept as a fallback so that, at worst,
// the envelope normalizer gets to report what was found.
func (e *ContentExtractor) parseBalancedSpan(raw string) (interface{}, error) {
	rest := raw
	var fallback interface{}
	haveFallback := false
	for {
		span, next, ok := findBalancedSpan(rest)
		if !ok {
			break
		}
		if value, err := parseJSONValue(span); err == nil {
			if isPlausiblePayload(value) {
				return value, nil
			}
			if !haveFallback {
				fallback = value
				haveFallback = true
			}
		}
		rest = rest[next:]
	}
	if haveFallback {
		return fallback, nil
	}
	return nil, errStrategyNotApplicable
}

// parseCandidate parses candidate text as a whole first, so object envelopes
// survive intact, and only then falls back to slicing out array bounds.
func parseCandidate(text string) (interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if value, err := parseJSONValue(trimmed); err == nil {
		return value, nil
	}
	return parseJSONValue(sliceArrayBounds(trimmed))
}

// sliceArrayBounds slices from the first '[' to the last ']' inclusive.
func sliceArrayBounds(trimmed string) string {
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end < start {
		return trimmed
	}
	return trimmed[start : end+1]
}

// isPlausiblePayload reports whether a parsed value is shaped like question
// payload rather than incidental JSON embedded in prose.
func isPlausiblePayload(value interface{}) bool {
	switch v := value.(type) {
	case []interface{}:
		return isQuestionArray(v)
	case map[string]interface{}:
		for _, key := range []string{"question", "questions", "items"} {
			if _, ok := v[key]; ok {
				return true
			}
		}
	}
	return false
}

func parseJSONValue(text string) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// findBalancedSpan returns the first top-level balanced bracket or brace span
// in text, plus the offset just past it so the caller can resume scanning.
// Brackets inside JSON strings are ignored: quote state toggles on an
// unescaped '"' and a backslash escapes exactly one following character.
func findBalancedSpan(text string) (string, int, bool) {
	inQuote := false
	escaped := false
	depth := 0
	start := -1

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case '[', '{':
			if inQuote {
				continue
			}
			if depth == 0 {
				start = i
			}
			depth++
		case ']', '}':
			if inQuote {
				continue
			}
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				return text[start : i+1], i + 1, true
			}
		}
	}
	return "", 0, false
}

// Envelope shapes the question array has been observed nested in.
const (
	envelopeArray     = "array"
	envelopeQuestions = "questions_property"
	envelopeSingle    = "single_question"
	envelopeItems     = "items_property"
	envelopeSchema    = "schema_definition"
)

// normalizeEnvelope unwraps a parsed value into a question array. Recognized
// envelope shapes are matched in order; an unrecognized shape fails with a
// descriptive error.
func (e *ContentExtractor) normalizeEnvelope(value interface{}, strictMode bool) ([]interface{}, error) {
	if arr, ok := value.([]interface{}); ok {
		return arr, nil
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("parsed value is %T, expected an array or an object envelope", value)
	}

	if arr, ok := obj["questions"].([]interface{}); ok {
		e.logger.Debug("Unwrapped response envelope", zap.String("envelope", envelopeQuestions))
		return arr, nil
	}

	if _, ok := obj["question"]; ok && !strictMode {
		e.logger.Debug("Unwrapped response envelope", zap.String("envelope", envelopeSingle))
		return []interface{}{obj}, nil
	}

	if arr, ok := obj["items"].([]interface{}); ok && len(arr) > 0 && looksLikeQuestion(arr[0]) {
		e.logger.Debug("Unwrapped response envelope", zap.String("envelope", envelopeItems))
		return arr, nil
	}

	if arr, ok := e.matchSchemaEnvelope(obj); ok {
		return arr, nil
	}

	return nil, fmt.Errorf("object envelope has none of the recognized shapes (%s, %s, %s, %s)",
		envelopeQuestions, envelopeSingle, envelopeItems, envelopeSchema)
}

// matchSchemaEnvelope handles responses that echo a JSON-Schema-like
// definition back instead of data. This is a best-effort fallback, not a
// guaranteed contract: it may also fire on responses that are simply
// malformed, so its engagement is logged at Warn.
func (e *ContentExtractor) matchSchemaEnvelope(obj map[string]interface{}) ([]interface{}, bool) {
	typ, _ := obj["type"].(string)
	items, hasItems := obj["items"]
	if typ != "array" || !hasItems {
		return nil, false
	}

	for key, val := range obj {
		if key == "type" || key == "items" {
			continue
		}
		if arr, ok := val.([]interface{}); ok && isQuestionArray(arr) {
			e.logger.Warn("Schema envelope heuristic engaged",
				zap.String("envelope", envelopeSchema),
				zap.String("property", key))
			return arr, true
		}
	}

	// Last resort: the items descriptor itself holds the data.
	if arr, ok := items.([]interface{}); ok && isQuestionArray(arr) {
		e.logger.Warn("Schema envelope heuristic engaged",
			zap.String("envelope", envelopeSchema),
			zap.String("property", "items"))
		return arr, true
	}
	return nil, false
}

func looksLikeQuestion(v interface{}) bool {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	_, has := obj["question"]
	return has
}

func isQuestionArray(arr []interface{}) bool {
	if len(arr) == 0 {
		return false
	}
	for _, v := range arr {
		if !looksLikeQuestion(v) {
			return false
		}
	}
	return true
}
