package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema is the structural contract enforced on every model reply.
// The enumerated value sets mirror the instructions in the user prompt;
// start_index/end_index are deliberately optional and coerced later.
const resultSchema = `{
  "type": "object",
  "required": ["grade_prediction", "inline_comments", "end_comment", "next_steps"],
  "properties": {
    "grade_prediction": {
      "type": "object",
      "required": ["letter_grade", "numeric_grade", "confidence"],
      "properties": {
        "letter_grade": {"type": "string", "minLength": 1},
        "numeric_grade": {"type": "number"},
        "confidence": {"enum": ["high", "medium", "low"]},
        "reasoning": {"type": "array", "items": {"type": "string"}},
        "strengths": {"type": "array", "items": {"type": "string"}},
        "weaknesses": {"type": "array", "items": {"type": "string"}}
      }
    },
    "inline_comments": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["excerpt", "comment", "category", "severity"],
        "properties": {
          "excerpt": {"type": "string"},
          "comment": {"type": "string"},
          "category": {"enum": ["thesis", "evidence", "analysis", "structure", "style", "mechanics", "strength"]},
          "severity": {"enum": ["praise", "suggestion", "concern"]},
          "start_index": {"type": "integer"},
          "end_index": {"type": "integer"}
        }
      }
    },
    "end_comment": {"type": "string"},
    "next_steps": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledResultSchema = jsonschema.MustCompileString("analysis_result.json", resultSchema)

// ParseAnalysisResult turns the model's raw text reply into a validated
// AnalysisResult. The reply is expected to be a bare JSON object; stray
// markdown fences are stripped as a recovery path. Every failure wraps
// ErrMalformedResponse and is never retried.
func ParseAnalysisResult(raw string) (AnalysisResult, error) {
	cleaned := stripFences(strings.TrimSpace(raw))
	if cleaned == "" {
		return AnalysisResult{}, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	var loose interface{}
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}

	if err := compiledResultSchema.Validate(loose); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}

	normalize(&result)

	return result, nil
}

// stripFences removes a leading ```/```json marker and its matching
// trailing fence. The model is instructed not to emit them but may anyway.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 && isFenceLanguage(text[:newline]) {
		text = text[newline+1:]
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text)
}

func isFenceLanguage(label string) bool {
	label = strings.TrimSpace(label)
	return label == "" || strings.EqualFold(label, "json")
}

// normalize coerces advisory fields to safe defaults. Indices only matter
// for highlighting, so anything missing or negative becomes zero rather
// than failing the whole analysis.
func normalize(result *AnalysisResult) {
	for i := range result.InlineComments {
		comment := &result.InlineComments[i]
		comment.Excerpt = strings.TrimSpace(comment.Excerpt)
		comment.Comment = strings.TrimSpace(comment.Comment)
		if comment.StartIndex < 0 {
			comment.StartIndex = 0
		}
		if comment.EndIndex < 0 {
			comment.EndIndex = 0
		}
	}

	if result.GradePrediction.Reasoning == nil {
		result.GradePrediction.Reasoning = []string{}
	}
	if result.GradePrediction.Strengths == nil {
		result.GradePrediction.Strengths = []string{}
	}
	if result.GradePrediction.Weaknesses == nil {
		result.GradePrediction.Weaknesses = []string{}
	}
	if result.NextSteps == nil {
		result.NextSteps = []string{}
	}
	if result.InlineComments == nil {
		result.InlineComments = []InlineComment{}
	}
}
