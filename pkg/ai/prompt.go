package ai

import (
	"fmt"
	"strings"
)

// ValidateInput rejects analysis input that must never reach the model.
// Essay text and assignment prompt are both required; whitespace does not
// count. Callers short-circuit on the returned error without making any
// network call.
func ValidateInput(input AnalysisInput) error {
	if strings.TrimSpace(input.EssayText) == "" {
		return fmt.Errorf("%w: essay text is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return fmt.Errorf("%w: assignment prompt is required", ErrInvalidInput)
	}
	return nil
}

// buildSystemPrompt produces the instruction block: who the teacher is, the
// compiled grading profile, and the contract the model must follow.
func buildSystemPrompt(input AnalysisInput) string {
	builder := strings.Builder{}
	builder.WriteString("You are an AI that models a specific teacher's grading behavior to provide essay feedback. ")
	builder.WriteString("You must respond ONLY with valid JSON matching the exact schema specified — no markdown, no explanation, no code fences.\n\n")

	fmt.Fprintf(&builder, "TEACHER: %s\n", input.TeacherName)
	fmt.Fprintf(&builder, "SCHOOL: %s\n", input.SchoolName)
	fmt.Fprintf(&builder, "DEPARTMENT: %s\n", defaultString(input.Department, "English"))
	fmt.Fprintf(&builder, "SUBJECTS: %s\n", joinOrDefault(input.Subjects, ", ", "General"))
	fmt.Fprintf(&builder, "GRADING STYLE: %s\n", defaultString(input.GradingStyle, "Standard academic grading"))
	builder.WriteString("\n")
	builder.WriteString(CompileProfile(input.Profile))
	builder.WriteString("\n")

	builder.WriteString(`Your job is to:
1. Predict the grade this specific teacher would give, based on their patterns
2. Generate line-by-line comments in this teacher's voice and style
3. Provide an end comment summary and actionable next steps

The comments should sound like this specific teacher — use their tone, emphasis areas, and level of detail.`)

	return builder.String()
}

// buildUserPrompt carries the student-supplied content plus the literal
// output schema. The closed value sets are spelled out verbatim because
// the model is not otherwise constrained.
func buildUserPrompt(input AnalysisInput) string {
	builder := strings.Builder{}
	builder.WriteString("Analyze this student essay and return your response as a single JSON object.\n\n")

	fmt.Fprintf(&builder, "ASSIGNMENT PROMPT: %s\n", input.Prompt)
	if strings.TrimSpace(input.Rubric) != "" {
		fmt.Fprintf(&builder, "RUBRIC: %s\n", input.Rubric)
	}
	if strings.TrimSpace(input.ClassName) != "" {
		fmt.Fprintf(&builder, "CLASS: %s\n", input.ClassName)
	}

	builder.WriteString("\nESSAY:\n")
	builder.WriteString(input.EssayText)
	builder.WriteString("\n\n")

	builder.WriteString(`Return ONLY this exact JSON structure (no markdown, no code fences):
{
  "grade_prediction": {
    "letter_grade": "B+",
    "numeric_grade": 88,
    "confidence": "high",
    "reasoning": ["reason 1", "reason 2", "reason 3"],
    "strengths": ["strength 1", "strength 2"],
    "weaknesses": ["weakness 1", "weakness 2"]
  },
  "inline_comments": [
    {
      "excerpt": "exact quote from the essay (10-30 words)",
      "comment": "the teacher's feedback on this excerpt",
      "category": "thesis|evidence|analysis|structure|style|mechanics|strength",
      "severity": "praise|suggestion|concern",
      "start_index": 0,
      "end_index": 50
    }
  ],
  "end_comment": "A 2-3 paragraph summary comment in the teacher's voice",
  "next_steps": ["step 1", "step 2", "step 3"]
}

Generate 8-12 inline comments covering different parts of the essay. Mix praise, suggestions, and concerns. confidence must be "high", "medium", or "low". category must be one of: thesis, evidence, analysis, structure, style, mechanics, strength. severity must be one of: praise, suggestion, concern.`)

	return builder.String()
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
