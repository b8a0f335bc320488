// Package engine is the conversational slot-filling core: it merges
// each turn's extraction into the accumulated entities, decides which
// required fields are still missing, runs the turn state machine, and
// composes user-facing responses.
package engine

import (
	"regexp"
	"strings"

	"lifelog/internal/model"
)

// mergeSchema is the closed set of merge strategies, one per candidate
// field, applied in a fixed order. The strategy is chosen statically
// per field, never by inspecting the runtime shape of a value:
// singular records shallow-merge, lists smart-match then append, and
// free text gets the addendum heuristic.
var mergeSchema = []func(acc, cand, out *model.Candidate){
	mergeSleepField,
	mergeExerciseField,
	mergeWellnessField,
	mergeTaskField,
	mergeLinkField,
	mergeReminderField,
	mergeJournalField,
}

// Merge combines the accumulated entities from prior turns with a new
// extraction candidate, field by field. Accumulated values are never
// clobbered by an absent candidate field; candidate values fill gaps
// and, for singular scalars, overwrite. The result is a fresh
// candidate; neither input is mutated.
func Merge(acc, cand *model.Candidate) *model.Candidate {
	if acc == nil {
		acc = &model.Candidate{}
	}
	if cand == nil {
		cand = &model.Candidate{}
	}
	out := &model.Candidate{}
	for _, f := range mergeSchema {
		f(acc, cand, out)
	}
	dropMisclassifiedExercise(out)
	return out
}

// shortFragmentLen is the length at or below which new text is treated
// as a clarifying fragment rather than an addendum.
const shortFragmentLen = 40

// mergeText applies the free-text heuristic: text already contained in
// the old value, or short enough to be a clarifying fragment, keeps
// the old value; anything longer is appended as an addendum.
func mergeText(old, new string) string {
	old = strings.TrimSpace(old)
	new = strings.TrimSpace(new)
	switch {
	case old == "":
		return new
	case new == "":
		return old
	case strings.Contains(strings.ToLower(old), strings.ToLower(new)):
		return old
	case len(new) <= shortFragmentLen || len(new)*2 < len(old):
		return old
	default:
		return old + "\n\n" + new
	}
}

func mergeSleepField(acc, cand, out *model.Candidate) {
	a, n := acc.Sleep, cand.Sleep
	switch {
	case a == nil && n == nil:
		return
	case a == nil:
		cp := *n
		out.Sleep = &cp
		return
	case n == nil:
		cp := *a
		out.Sleep = &cp
		return
	}
	// Both present: singular merge, never an append. Candidate values
	// win; accumulated values fill whatever the candidate left empty.
	m := &model.SleepEntry{
		Date:          pickStr(n.Date, a.Date),
		BedtimeHour:   pickInt(n.BedtimeHour, a.BedtimeHour),
		BedtimeMinute: pickInt(n.BedtimeMinute, a.BedtimeMinute),
		WakeHour:      pickInt(n.WakeHour, a.WakeHour),
		WakeMinute:    pickInt(n.WakeMinute, a.WakeMinute),
		DurationHours: pickFloat(n.DurationHours, a.DurationHours),
		Notes:         mergeText(a.Notes, n.Notes),
	}
	if n.Quality != nil {
		q := *n.Quality
		m.Quality = &q
	} else if a.Quality != nil {
		q := *a.Quality
		m.Quality = &q
	}
	m.DeriveDuration()
	out.Sleep = m
}

func mergeWellnessField(acc, cand, out *model.Candidate) {
	a, n := acc.Wellness, cand.Wellness
	switch {
	case a == nil && n == nil:
		return
	case a == nil:
		cp := *n
		out.Wellness = &cp
		return
	case n == nil:
		cp := *a
		out.Wellness = &cp
		return
	}
	m := &model.WellnessEntry{
		Date:              pickStr(n.Date, a.Date),
		TimeOfDay:         pickStr(n.TimeOfDay, a.TimeOfDay),
		MeditationMinutes: pickInt(n.MeditationMinutes, a.MeditationMinutes),
		MoodScore:         pickInt(n.MoodScore, a.MoodScore),
		EnergyLevel:       pickInt(n.EnergyLevel, a.EnergyLevel),
		Notes:             mergeText(a.Notes, n.Notes),
	}
	if n.MeditationType != nil {
		t := *n.MeditationType
		m.MeditationType = &t
	} else if a.MeditationType != nil {
		t := *a.MeditationType
		m.MeditationType = &t
	}
	out.Wellness = m
}

// mergeExerciseField merges session lists with smart-match-then-append:
// a new session first tries to complete an accumulated session of the
// same exercise type, then any session with a gap the new one fills,
// and only becomes a new entry when nothing matches. This is what keeps
// a one-line clarification ("30 minutes") from duplicating the open
// session.
func mergeExerciseField(acc, cand, out *model.Candidate) {
	merged := make([]model.ExerciseEntry, len(acc.Exercise))
	copy(merged, acc.Exercise)

	for _, n := range cand.Exercise {
		idx := -1
		// (a) same discriminating key
		if n.ExerciseType != nil {
			for i := range merged {
				if merged[i].ExerciseType != nil && *merged[i].ExerciseType == *n.ExerciseType {
					idx = i
					break
				}
			}
		}
		// (b) an untyped pairing with a gap this one supplies. Two
		// sessions that both carry a type only merge via (a): a typed
		// session with no same-typed partner is a distinct workout and
		// must not fold into an unrelated one.
		if idx < 0 {
			for i := range merged {
				if merged[i].ExerciseType != nil && n.ExerciseType != nil {
					continue
				}
				if exerciseFillsGap(&merged[i], &n) {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			merged = append(merged, n)
			continue
		}
		unionExercise(&merged[idx], &n)
	}
	out.Exercise = merged
}

// exerciseFillsGap reports whether n supplies at least one field that
// is empty on e.
func exerciseFillsGap(e, n *model.ExerciseEntry) bool {
	switch {
	case e.ExerciseType == nil && n.ExerciseType != nil:
		return true
	case e.DurationMinutes == nil && n.DurationMinutes != nil:
		return true
	case e.DistanceKm == nil && n.DistanceKm != nil:
		return true
	case e.Intensity == nil && n.Intensity != nil:
		return true
	case len(e.BodyParts) == 0 && len(n.BodyParts) > 0:
		return true
	}
	return false
}

// unionExercise fills e's gaps from n in place. Existing values are
// kept: a clarification completes a session, it does not rewrite it.
func unionExercise(e, n *model.ExerciseEntry) {
	if e.Date == "" {
		e.Date = n.Date
	}
	if e.ExerciseType == nil {
		e.ExerciseType = n.ExerciseType
	}
	if e.DurationMinutes == nil {
		e.DurationMinutes = n.DurationMinutes
	}
	if e.DistanceKm == nil {
		e.DistanceKm = n.DistanceKm
	}
	if e.Intensity == nil {
		e.Intensity = n.Intensity
	}
	if len(n.BodyParts) > 0 {
		e.BodyParts = unionMuscles(e.BodyParts, n.BodyParts)
	}
	e.Notes = mergeText(e.Notes, n.Notes)
}

func unionMuscles(a, b []model.MuscleGroup) []model.MuscleGroup {
	seen := make(map[model.MuscleGroup]bool, len(a))
	out := make([]model.MuscleGroup, 0, len(a)+len(b))
	for _, m := range a {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range b {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func mergeTaskField(acc, cand, out *model.Candidate) {
	merged := make([]model.TaskItem, len(acc.Tasks))
	copy(merged, acc.Tasks)

	for _, n := range cand.Tasks {
		idx := -1
		for i := range merged {
			if strings.EqualFold(strings.TrimSpace(merged[i].Task), strings.TrimSpace(n.Task)) {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, n)
			continue
		}
		if merged[idx].Priority == nil {
			merged[idx].Priority = n.Priority
		}
	}
	out.Tasks = merged
}

func mergeLinkField(acc, cand, out *model.Candidate) {
	merged := make([]model.ReadingLink, len(acc.ReadingLinks))
	copy(merged, acc.ReadingLinks)

	for _, n := range cand.ReadingLinks {
		idx := -1
		for i := range merged {
			if merged[i].URL == n.URL {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, n)
			continue
		}
		merged[idx].Context = mergeText(merged[idx].Context, n.Context)
	}
	out.ReadingLinks = merged
}

func mergeReminderField(acc, cand, out *model.Candidate) {
	out.ReminderText = mergeText(acc.ReminderText, cand.ReminderText)
	out.ReminderAt = pickStr(cand.ReminderAt, acc.ReminderAt)
}

func mergeJournalField(acc, cand, out *model.Candidate) {
	out.JournalNote = mergeText(acc.JournalNote, cand.JournalNote)
}

// meditationVocab matches notes that describe meditation practice. An
// exercise session typed "other" with such a note is a known extractor
// confusion; the activity belongs to wellness, not exercise.
var meditationVocab = regexp.MustCompile(`(?i)\b(meditat\w*|cleaning|sitting|satsang|transmission)\b`)

// dropMisclassifiedExercise removes "other"-typed sessions whose note
// reads like a meditation practice. Classification backstop, applied
// after every merge.
func dropMisclassifiedExercise(c *model.Candidate) {
	kept := c.Exercise[:0]
	for _, e := range c.Exercise {
		if e.ExerciseType != nil && *e.ExerciseType == model.ExerciseOther && meditationVocab.MatchString(e.Notes) {
			continue
		}
		kept = append(kept, e)
	}
	c.Exercise = kept
}

func pickStr(first, second string) string {
	if first != "" {
		return first
	}
	return second
}

func pickInt(first, second *int) *int {
	p := first
	if p == nil {
		p = second
	}
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func pickFloat(first, second *float64) *float64 {
	p := first
	if p == nil {
		p = second
	}
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
