package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	valid := AnalysisInput{EssayText: "An essay.", Prompt: "Discuss."}
	require.NoError(t, ValidateInput(valid))

	missingEssay := AnalysisInput{EssayText: "   \n\t", Prompt: "Discuss."}
	require.ErrorIs(t, ValidateInput(missingEssay), ErrInvalidInput)

	missingPrompt := AnalysisInput{EssayText: "An essay.", Prompt: ""}
	require.ErrorIs(t, ValidateInput(missingPrompt), ErrInvalidInput)
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	prompt := buildSystemPrompt(AnalysisInput{
		TeacherName: "Ms. Alvarez",
		SchoolName:  "Ridgeview High",
	})

	require.Contains(t, prompt, "TEACHER: Ms. Alvarez")
	require.Contains(t, prompt, "SCHOOL: Ridgeview High")
	require.Contains(t, prompt, "DEPARTMENT: English")
	require.Contains(t, prompt, "SUBJECTS: General")
	require.Contains(t, prompt, "GRADING STYLE: Standard academic grading")
	require.Contains(t, prompt, "No grading profile")
}

func TestBuildSystemPromptIncludesProfile(t *testing.T) {
	prompt := buildSystemPrompt(AnalysisInput{
		TeacherName:  "Mr. Okafor",
		SchoolName:   "Lakeside Prep",
		Department:   "Humanities",
		Subjects:     []string{"AP Literature", "Composition"},
		GradingStyle: "Holistic with heavy margin notes",
		Profile:      &TeacherProfile{StrictnessScore: 0.9},
	})

	require.Contains(t, prompt, "DEPARTMENT: Humanities")
	require.Contains(t, prompt, "AP Literature, Composition")
	require.Contains(t, prompt, "Holistic with heavy margin notes")
	require.Contains(t, prompt, "Teacher Profile Data:")
	require.Contains(t, prompt, "Strictness: 0.90/1.0")
}

func TestBuildUserPromptEnumeratesLegalValues(t *testing.T) {
	prompt := buildUserPrompt(AnalysisInput{
		EssayText: "The essay body.",
		Prompt:    "Analyze the theme of memory.",
	})

	require.Contains(t, prompt, "ASSIGNMENT PROMPT: Analyze the theme of memory.")
	require.Contains(t, prompt, "The essay body.")
	require.Contains(t, prompt, `"high", "medium", or "low"`)
	require.Contains(t, prompt, "thesis, evidence, analysis, structure, style, mechanics, strength")
	require.Contains(t, prompt, "praise, suggestion, concern")
	require.Contains(t, prompt, "Generate 8-12 inline comments")
	require.NotContains(t, prompt, "RUBRIC:")
	require.NotContains(t, prompt, "CLASS:")
}

func TestBuildUserPromptOptionalSections(t *testing.T) {
	prompt := buildUserPrompt(AnalysisInput{
		EssayText: "Body.",
		Prompt:    "Prompt.",
		Rubric:    "Thesis 40%, Evidence 60%",
		ClassName: "Period 3 English",
	})

	require.Contains(t, prompt, "RUBRIC: Thesis 40%, Evidence 60%")
	require.Contains(t, prompt, "CLASS: Period 3 English")
}
