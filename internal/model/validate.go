package model

import (
	"net/url"
	"strings"
	"unicode"
)

// Field value limits from the schema. Notes are truncated rather than
// rejected; numeric fields outside their range are dropped.
const (
	maxExerciseNote = 500
	maxWellnessNote = 1000
	maxDurationMin  = 600
)

// Validate scrubs a candidate in place, dropping malformed fields and
// truncating over-long notes. It returns a list of human-readable
// descriptions of what was dropped, for logging. A malformed field
// never fails the turn; the offending value is simply removed so the
// completeness checker can re-ask for it.
func (c *Candidate) Validate() []string {
	if c == nil {
		return nil
	}
	var dropped []string

	if c.Sleep != nil {
		dropped = append(dropped, c.Sleep.validate()...)
	}

	kept := c.Exercise[:0]
	for i := range c.Exercise {
		e := &c.Exercise[i]
		if e.ExerciseType != nil && !validExerciseTypes[*e.ExerciseType] {
			dropped = append(dropped, "exercise_type "+string(*e.ExerciseType))
			e.ExerciseType = nil
		}
		parts := e.BodyParts[:0]
		for _, p := range e.BodyParts {
			if validMuscleGroups[p] {
				parts = append(parts, p)
			} else {
				dropped = append(dropped, "body_part "+string(p))
			}
		}
		e.BodyParts = parts
		if e.DurationMinutes != nil && (*e.DurationMinutes < 1 || *e.DurationMinutes > maxDurationMin) {
			dropped = append(dropped, "exercise duration_minutes out of range")
			e.DurationMinutes = nil
		}
		if e.DistanceKm != nil && *e.DistanceKm < 0 {
			dropped = append(dropped, "exercise distance_km negative")
			e.DistanceKm = nil
		}
		if e.Intensity != nil && (*e.Intensity < 1 || *e.Intensity > 10) {
			dropped = append(dropped, "exercise intensity out of range")
			e.Intensity = nil
		}
		e.Notes = truncateClean(strings.TrimSpace(e.Notes), maxExerciseNote)
		kept = append(kept, *e)
	}
	c.Exercise = kept

	if w := c.Wellness; w != nil {
		if w.MeditationType != nil && !validMeditationTypes[*w.MeditationType] {
			dropped = append(dropped, "meditation_type "+string(*w.MeditationType))
			w.MeditationType = nil
		}
		if w.MeditationMinutes != nil && *w.MeditationMinutes < 0 {
			dropped = append(dropped, "meditation_minutes negative")
			w.MeditationMinutes = nil
		}
		if w.MoodScore != nil && (*w.MoodScore < 1 || *w.MoodScore > 10) {
			dropped = append(dropped, "mood_score out of range")
			w.MoodScore = nil
		}
		if w.EnergyLevel != nil && (*w.EnergyLevel < 1 || *w.EnergyLevel > 10) {
			dropped = append(dropped, "energy_level out of range")
			w.EnergyLevel = nil
		}
		w.Notes = truncateClean(strings.TrimSpace(w.Notes), maxWellnessNote)
	}

	tasks := c.Tasks[:0]
	for _, t := range c.Tasks {
		t.Task = strings.TrimSpace(t.Task)
		if t.Task == "" {
			dropped = append(dropped, "empty task")
			continue
		}
		if t.Priority != nil && (*t.Priority < 1 || *t.Priority > 3) {
			dropped = append(dropped, "task priority out of range")
			t.Priority = nil
		}
		tasks = append(tasks, t)
	}
	c.Tasks = tasks

	links := c.ReadingLinks[:0]
	for _, l := range c.ReadingLinks {
		l.URL = strings.TrimSpace(l.URL)
		if !ValidURL(l.URL) {
			dropped = append(dropped, "invalid url "+l.URL)
			continue
		}
		links = append(links, l)
	}
	c.ReadingLinks = links

	return dropped
}

func (s *SleepEntry) validate() []string {
	var dropped []string
	// A bedtime between 09:00 and 17:00 is almost always an extraction
	// error (the model read a daytime nap or a wake time as bedtime).
	if s.BedtimeHour != nil && *s.BedtimeHour >= 9 && *s.BedtimeHour <= 17 {
		dropped = append(dropped, "bedtime_hour looks like daytime")
		s.BedtimeHour = nil
		s.BedtimeMinute = nil
	}
	if s.BedtimeHour != nil && (*s.BedtimeHour < 0 || *s.BedtimeHour > 23) {
		dropped = append(dropped, "bedtime_hour out of range")
		s.BedtimeHour = nil
	}
	if s.WakeHour != nil && (*s.WakeHour < 0 || *s.WakeHour > 23) {
		dropped = append(dropped, "wake_hour out of range")
		s.WakeHour = nil
	}
	if s.BedtimeMinute != nil && (*s.BedtimeMinute < 0 || *s.BedtimeMinute > 59) {
		dropped = append(dropped, "bedtime_minute out of range")
		s.BedtimeMinute = nil
	}
	if s.WakeMinute != nil && (*s.WakeMinute < 0 || *s.WakeMinute > 59) {
		dropped = append(dropped, "wake_minute out of range")
		s.WakeMinute = nil
	}
	if s.Quality != nil && !validSleepQualities[*s.Quality] {
		dropped = append(dropped, "quality "+string(*s.Quality))
		s.Quality = nil
	}
	s.DeriveDuration()
	return dropped
}

// ValidURL reports whether s is a usable http(s) URL: parseable, with a
// host, and free of embedded whitespace or commas (which indicate the
// extractor ran several links together).
func ValidURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n,") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// truncateClean truncates a string to maxLen, cutting at the last word
// boundary to avoid mid-word breaks.
func truncateClean(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	truncated := s[:maxLen]
	if idx := strings.LastIndexFunc(truncated, unicode.IsSpace); idx > maxLen-80 {
		truncated = truncated[:idx]
	}
	return strings.TrimSpace(truncated)
}
