package engine

import (
	"fmt"
	"strings"

	"lifelog/internal/model"
)

// Missing-field labels, user-facing. The canonical order below fixes
// prompt wording regardless of which category was discovered first.
const (
	FieldExerciseType     = "exercise type"
	FieldExerciseDuration = "exercise duration"
	FieldBodyPart         = "body part"
	FieldBedtime          = "bedtime"
	FieldWakeTime         = "wake up time"
	FieldSleepQuality     = "sleep quality"
)

var canonicalFieldOrder = []string{
	FieldExerciseType,
	FieldExerciseDuration,
	FieldBodyPart,
	FieldBedtime,
	FieldWakeTime,
	FieldSleepQuality,
}

// bodyPartPrompt lists the selectable muscle groups. Emitted on its own
// when body part is the only gap, appended otherwise.
const bodyPartPrompt = "Which body parts did you train? (full body, chest, biceps, triceps, shoulders, back, abs, lower body)"

// CheckMissing computes which required fields are still absent from the
// merged entities, suppressing fields already asked about last turn.
// Exercise type is the exception: a session without a type cannot be
// stored meaningfully, so it is re-asked every turn it stays absent.
// The returned prompt is empty when nothing is missing.
func CheckMissing(merged *model.Candidate, priorMissing []string) ([]string, string) {
	asked := make(map[string]bool, len(priorMissing))
	for _, f := range priorMissing {
		asked[f] = true
	}

	found := map[string]bool{}
	if merged != nil {
		for i := range merged.Exercise {
			e := &merged.Exercise[i]
			if e.ExerciseType == nil {
				found[FieldExerciseType] = true
			}
			if e.DurationMinutes == nil && !asked[FieldExerciseDuration] {
				found[FieldExerciseDuration] = true
			}
			if e.ExerciseType != nil && e.ExerciseType.IsStrength() &&
				len(e.BodyParts) == 0 && !asked[FieldBodyPart] {
				found[FieldBodyPart] = true
			}
		}
		if s := merged.Sleep; s != nil {
			if s.BedtimeHour == nil && !asked[FieldBedtime] {
				found[FieldBedtime] = true
			}
			if s.WakeHour == nil && !asked[FieldWakeTime] {
				found[FieldWakeTime] = true
			}
			if s.Quality == nil && !asked[FieldSleepQuality] {
				found[FieldSleepQuality] = true
			}
		}
	}

	var missing []string
	for _, f := range canonicalFieldOrder {
		if found[f] {
			missing = append(missing, f)
		}
	}
	return missing, clarificationPrompt(missing)
}

// clarificationPrompt renders the next question for the given missing
// set. Body part gets its own options sentence because it is the only
// field answered from a fixed menu.
func clarificationPrompt(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	var rest []string
	bodyPart := false
	for _, f := range missing {
		if f == FieldBodyPart {
			bodyPart = true
			continue
		}
		rest = append(rest, f)
	}
	if len(rest) == 0 {
		return bodyPartPrompt
	}
	prompt := fmt.Sprintf("Could you tell me the %s?", joinNatural(rest))
	if bodyPart {
		prompt += " " + bodyPartPrompt
	}
	return prompt
}

func joinNatural(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
