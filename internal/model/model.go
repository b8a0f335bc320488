// Package model defines the typed schema for everything a single user
// message might contain: sleep, exercise sessions, wellness, tasks,
// reading links, and free-form journal notes. A Candidate holds one
// turn's extraction; every field is optional because a message might
// carry only one category, or none at all.
package model

// SleepQuality is the subjective sleep quality rating.
type SleepQuality string

const (
	SleepPoor      SleepQuality = "poor"
	SleepFair      SleepQuality = "fair"
	SleepGood      SleepQuality = "good"
	SleepExcellent SleepQuality = "excellent"
)

var validSleepQualities = map[SleepQuality]bool{
	SleepPoor: true, SleepFair: true, SleepGood: true, SleepExcellent: true,
}

// ExerciseType is the kind of training session.
type ExerciseType string

const (
	ExerciseRun     ExerciseType = "run"
	ExerciseWalk    ExerciseType = "walk"
	ExerciseGym     ExerciseType = "gym"
	ExerciseWeights ExerciseType = "weights"
	ExerciseYoga    ExerciseType = "yoga"
	ExerciseSwim    ExerciseType = "swim"
	ExerciseCycle   ExerciseType = "cycle"
	ExerciseOther   ExerciseType = "other"
)

var validExerciseTypes = map[ExerciseType]bool{
	ExerciseRun: true, ExerciseWalk: true, ExerciseGym: true,
	ExerciseWeights: true, ExerciseYoga: true, ExerciseSwim: true,
	ExerciseCycle: true, ExerciseOther: true,
}

// IsStrength reports whether the exercise type is a strength-training
// variant that should carry a body-part breakdown.
func (t ExerciseType) IsStrength() bool {
	return t == ExerciseGym || t == ExerciseWeights
}

// MuscleGroup is a trained muscle group for gym/weights sessions.
type MuscleGroup string

const (
	MuscleFullBody  MuscleGroup = "full_body"
	MuscleChest     MuscleGroup = "chest"
	MuscleBiceps    MuscleGroup = "biceps"
	MuscleTriceps   MuscleGroup = "triceps"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleBack      MuscleGroup = "back"
	MuscleAbs       MuscleGroup = "abs"
	MuscleLowerBody MuscleGroup = "lower_body"
	MuscleOther     MuscleGroup = "other"
)

var validMuscleGroups = map[MuscleGroup]bool{
	MuscleFullBody: true, MuscleChest: true, MuscleBiceps: true,
	MuscleTriceps: true, MuscleShoulders: true, MuscleBack: true,
	MuscleAbs: true, MuscleLowerBody: true, MuscleOther: true,
}

// MeditationType is the kind of meditation practice.
type MeditationType string

const (
	MeditationGeneral MeditationType = "meditation"
	MeditationClean   MeditationType = "cleaning"
	MeditationSitting MeditationType = "sitting"
	MeditationGroup   MeditationType = "group_meditation"
	MeditationOther   MeditationType = "other"
)

var validMeditationTypes = map[MeditationType]bool{
	MeditationGeneral: true, MeditationClean: true, MeditationSitting: true,
	MeditationGroup: true, MeditationOther: true,
}

// SleepEntry is a single night of sleep data. At most one per turn.
// Dates are ISO-8601 strings (YYYY-MM-DD) so entries round-trip through
// flat record storage without a rich date type.
type SleepEntry struct {
	Date          string        `json:"date,omitempty"`
	BedtimeHour   *int          `json:"bedtime_hour,omitempty"`
	BedtimeMinute *int          `json:"bedtime_minute,omitempty"`
	WakeHour      *int          `json:"wake_hour,omitempty"`
	WakeMinute    *int          `json:"wake_minute,omitempty"`
	DurationHours *float64      `json:"duration_hours,omitempty"`
	Quality       *SleepQuality `json:"quality,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// DeriveDuration computes duration_hours from the bed and wake times.
// A wake time at or before bedtime is treated as crossing midnight, so
// the derived duration is always positive. An explicitly supplied
// duration is kept when times are absent; when both times are present
// the derived value wins only if no duration was given.
func (s *SleepEntry) DeriveDuration() {
	if s.BedtimeHour == nil || s.WakeHour == nil {
		return
	}
	bedMin := *s.BedtimeHour * 60
	if s.BedtimeMinute != nil {
		bedMin += *s.BedtimeMinute
	}
	wakeMin := *s.WakeHour * 60
	if s.WakeMinute != nil {
		wakeMin += *s.WakeMinute
	}
	if wakeMin <= bedMin {
		wakeMin += 24 * 60
	}
	if s.DurationHours == nil {
		d := float64(wakeMin-bedMin) / 60.0
		// Round to two decimals for stable storage and display.
		d = float64(int(d*100+0.5)) / 100
		s.DurationHours = &d
	}
}

// ExerciseEntry is a single exercise or training session.
type ExerciseEntry struct {
	Date            string        `json:"date,omitempty"`
	ExerciseType    *ExerciseType `json:"exercise_type,omitempty"`
	BodyParts       []MuscleGroup `json:"body_parts,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	DistanceKm      *float64      `json:"distance_km,omitempty"`
	Intensity       *int          `json:"intensity,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

// WellnessEntry is a daily wellness log: meditation, mood, energy.
// At most one per turn.
type WellnessEntry struct {
	Date              string          `json:"date,omitempty"`
	TimeOfDay         string          `json:"time_of_day,omitempty"`
	MeditationMinutes *int            `json:"meditation_minutes,omitempty"`
	MeditationType    *MeditationType `json:"meditation_type,omitempty"`
	MoodScore         *int            `json:"mood_score,omitempty"`
	EnergyLevel       *int            `json:"energy_level,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// TaskItem is a to-do item. Priority is 1=high, 2=medium, 3=low.
type TaskItem struct {
	Task     string `json:"task"`
	Priority *int   `json:"priority,omitempty"`
}

// ReadingLink is a web resource to read later.
type ReadingLink struct {
	URL     string `json:"url"`
	Context string `json:"context,omitempty"`
}

// Candidate holds everything extracted from a single user message.
// It doubles as the accumulated merge target across clarification
// turns: the merge engine folds each new turn's Candidate into the
// running one, field by field.
type Candidate struct {
	Sleep        *SleepEntry     `json:"sleep,omitempty"`
	Exercise     []ExerciseEntry `json:"exercise,omitempty"`
	Wellness     *WellnessEntry  `json:"wellness,omitempty"`
	Tasks        []TaskItem      `json:"tasks,omitempty"`
	ReadingLinks []ReadingLink   `json:"reading_links,omitempty"`
	ReminderText string          `json:"reminder_text,omitempty"`
	ReminderAt   string          `json:"reminder_datetime,omitempty"`
	JournalNote  string          `json:"journal_note,omitempty"`
}

// Empty reports whether the candidate carries no data at all.
func (c *Candidate) Empty() bool {
	if c == nil {
		return true
	}
	return c.Sleep == nil && len(c.Exercise) == 0 && c.Wellness == nil &&
		len(c.Tasks) == 0 && len(c.ReadingLinks) == 0 &&
		c.ReminderText == "" && c.JournalNote == ""
}
