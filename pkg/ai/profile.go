package ai

import (
	"fmt"
	"strings"
)

// CompileProfile renders a teacher's statistical grading profile into a
// natural-language prompt fragment. A nil profile yields a neutral
// fallback; absent fields degrade to documented defaults. The function is
// pure and total: it never returns an empty string and never panics.
func CompileProfile(profile *TeacherProfile) string {
	if profile == nil {
		return "No grading profile is recorded for this teacher yet. Grade with a balanced, professional style typical of an experienced secondary-school English teacher."
	}

	builder := strings.Builder{}
	builder.WriteString("Teacher Profile Data:\n")
	fmt.Fprintf(&builder, "- Strictness: %.2f/1.0\n", profile.StrictnessScore)
	fmt.Fprintf(&builder, "- Rubric weights: Thesis %.2f, Evidence %.2f, Analysis %.2f, Mechanics %.2f, Style %.2f\n",
		profile.ThesisWeight, profile.EvidenceWeight, profile.AnalysisWeight, profile.MechanicsWeight, profile.StyleWeight)
	fmt.Fprintf(&builder, "- Tone: %s\n", joinOrDefault(profile.ToneKeywords, ", ", "professional"))
	fmt.Fprintf(&builder, "- Common phrases: %s\n", joinOrDefault(profile.CommonPhrases, "; ", "none recorded yet"))
	fmt.Fprintf(&builder, "- Average grade given: %s\n", floatOrUnknown(profile.AvgGrade))
	fmt.Fprintf(&builder, "- Most common grade: %s\n", stringOrUnknown(profile.MostCommonGrade))

	if profile.TrainingEssayCount > 0 {
		fmt.Fprintf(&builder, "- Profile trained on %d graded essays\n", profile.TrainingEssayCount)
	}

	return builder.String()
}

func joinOrDefault(values []string, separator, fallback string) string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return strings.Join(cleaned, separator)
}

func floatOrUnknown(value *float64) string {
	if value == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *value)
}

func stringOrUnknown(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "unknown"
	}
	return strings.TrimSpace(*value)
}
