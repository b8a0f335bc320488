package model

// Record is one flat persistence row: plain keys and JSON-safe values
// plus a "type" discriminator. The record store and the conversation
// checkpoint both require this shape: no rich types, so a record can
// be serialized by anything that can write JSON.
type Record map[string]any

// Type discriminator values used in records.
const (
	TypeSleep    = "sleep"
	TypeExercise = "exercise"
	TypeWellness = "wellness"
	TypeTask     = "tasks"
	TypeLink     = "reading_links"
	TypeJournal  = "journal_note"
	TypeReminder = "reminder"
)

// Records flattens every populated category of the candidate into flat
// records. List categories produce one record per item. Entries with no
// date of their own get defaultDate (ISO-8601).
func (c *Candidate) Records(defaultDate string) []Record {
	if c == nil {
		return nil
	}
	var out []Record

	if s := c.Sleep; s != nil {
		r := Record{"type": TypeSleep, "date": orDate(s.Date, defaultDate)}
		putInt(r, "bedtime_hour", s.BedtimeHour)
		putInt(r, "bedtime_minute", s.BedtimeMinute)
		putInt(r, "wake_hour", s.WakeHour)
		putInt(r, "wake_minute", s.WakeMinute)
		if s.DurationHours != nil {
			r["duration_hours"] = *s.DurationHours
		}
		if s.Quality != nil {
			r["quality"] = string(*s.Quality)
		}
		putStr(r, "notes", s.Notes)
		out = append(out, r)
	}

	for _, e := range c.Exercise {
		r := Record{"type": TypeExercise, "date": orDate(e.Date, defaultDate)}
		if e.ExerciseType != nil {
			r["exercise_type"] = string(*e.ExerciseType)
		}
		if len(e.BodyParts) > 0 {
			parts := make([]string, len(e.BodyParts))
			for i, p := range e.BodyParts {
				parts[i] = string(p)
			}
			r["body_parts"] = parts
		}
		putInt(r, "duration_minutes", e.DurationMinutes)
		if e.DistanceKm != nil {
			r["distance_km"] = *e.DistanceKm
		}
		putInt(r, "intensity", e.Intensity)
		putStr(r, "notes", e.Notes)
		out = append(out, r)
	}

	if w := c.Wellness; w != nil {
		r := Record{"type": TypeWellness, "date": orDate(w.Date, defaultDate)}
		putStr(r, "time_of_day", w.TimeOfDay)
		putInt(r, "meditation_minutes", w.MeditationMinutes)
		if w.MeditationType != nil {
			r["meditation_type"] = string(*w.MeditationType)
		}
		putInt(r, "mood_score", w.MoodScore)
		putInt(r, "energy_level", w.EnergyLevel)
		putStr(r, "notes", w.Notes)
		out = append(out, r)
	}

	for _, t := range c.Tasks {
		r := Record{"type": TypeTask, "date": defaultDate, "task": t.Task}
		putInt(r, "priority", t.Priority)
		out = append(out, r)
	}

	for _, l := range c.ReadingLinks {
		r := Record{"type": TypeLink, "date": defaultDate, "url": l.URL}
		putStr(r, "context", l.Context)
		out = append(out, r)
	}

	if c.ReminderText != "" {
		r := Record{"type": TypeReminder, "date": defaultDate, "text": c.ReminderText}
		putStr(r, "remind_at", c.ReminderAt)
		out = append(out, r)
	}

	if c.JournalNote != "" {
		out = append(out, Record{"type": TypeJournal, "date": defaultDate, "note": c.JournalNote})
	}

	return out
}

func orDate(d, fallback string) string {
	if d == "" {
		return fallback
	}
	return d
}

func putInt(r Record, key string, v *int) {
	if v != nil {
		r[key] = *v
	}
}

func putStr(r Record, key, v string) {
	if v != "" {
		r[key] = v
	}
}
