package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lifelog/internal/model"
)

// ComposeSummary renders a multi-line confirmation of what was logged,
// one line per populated category. synced reports whether the
// document-sync collaborator ran; failedSyncs names the categories
// that did not make it. The local save already happened, so sync
// failures are reported rather than treated as an error.
func ComposeSummary(c *model.Candidate, synced bool, failedSyncs []string) string {
	if c.Empty() {
		return "Nothing to save from that message."
	}
	lines := []string{"I have logged the following:"}
	if s := c.Sleep; s != nil {
		lines = append(lines, "🛌 Sleep: "+sleepLine(s))
	}
	for i := range c.Exercise {
		lines = append(lines, "💪 Exercise: "+exerciseLine(&c.Exercise[i]))
	}
	if w := c.Wellness; w != nil {
		lines = append(lines, "🧘 Wellness: "+wellnessLine(w))
	}
	for _, t := range c.Tasks {
		line := "✅ Task: " + t.Task
		if t.Priority != nil {
			line += " (" + priorityLabel(*t.Priority) + ")"
		}
		lines = append(lines, line)
	}
	for _, l := range c.ReadingLinks {
		line := "🔗 Link: " + l.URL
		if l.Context != "" {
			line += " (" + l.Context + ")"
		}
		lines = append(lines, line)
	}
	if c.ReminderText != "" {
		line := "⏰ Reminder: " + c.ReminderText
		if c.ReminderAt != "" {
			line += " at " + c.ReminderAt
		}
		lines = append(lines, line)
	}
	if c.JournalNote != "" {
		lines = append(lines, "📝 Journal: "+compact(c.JournalNote, 120))
	}
	if synced {
		if len(failedSyncs) == 0 {
			lines = append(lines, "✨ Synced your data to Notion!")
		} else {
			lines = append(lines, "⚠️ Synced to Notion, but failed to sync: "+strings.Join(failedSyncs, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func sleepLine(s *model.SleepEntry) string {
	var parts []string
	if s.Date != "" {
		parts = append(parts, s.Date)
	}
	if s.DurationHours != nil {
		parts = append(parts, fmt.Sprintf("%.1fh", *s.DurationHours))
	}
	if s.BedtimeHour != nil {
		parts = append(parts, "bed "+clock(*s.BedtimeHour, s.BedtimeMinute))
	}
	if s.WakeHour != nil {
		parts = append(parts, "wake "+clock(*s.WakeHour, s.WakeMinute))
	}
	if s.Quality != nil {
		parts = append(parts, "quality "+string(*s.Quality))
	}
	if s.Notes != "" {
		parts = append(parts, compact(s.Notes, 60))
	}
	return strings.Join(parts, ", ")
}

func exerciseLine(e *model.ExerciseEntry) string {
	var parts []string
	if e.ExerciseType != nil {
		parts = append(parts, string(*e.ExerciseType))
	}
	if e.DurationMinutes != nil {
		parts = append(parts, fmt.Sprintf("%d min", *e.DurationMinutes))
	}
	if e.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("%.1f km", *e.DistanceKm))
	}
	if len(e.BodyParts) > 0 {
		names := make([]string, len(e.BodyParts))
		for i, b := range e.BodyParts {
			names[i] = strings.ReplaceAll(string(b), "_", " ")
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	if e.Intensity != nil {
		parts = append(parts, fmt.Sprintf("intensity %d", *e.Intensity))
	}
	if e.Notes != "" {
		parts = append(parts, compact(e.Notes, 60))
	}
	return strings.Join(parts, ", ")
}

func wellnessLine(w *model.WellnessEntry) string {
	var parts []string
	if w.MeditationMinutes != nil {
		p := fmt.Sprintf("%d min meditation", *w.MeditationMinutes)
		if w.MeditationType != nil {
			p += " (" + string(*w.MeditationType) + ")"
		}
		parts = append(parts, p)
	} else if w.MeditationType != nil {
		parts = append(parts, string(*w.MeditationType))
	}
	if w.MoodScore != nil {
		parts = append(parts, fmt.Sprintf("mood %d/10", *w.MoodScore))
	}
	if w.EnergyLevel != nil {
		parts = append(parts, fmt.Sprintf("energy %d/10", *w.EnergyLevel))
	}
	if w.Notes != "" {
		parts = append(parts, compact(w.Notes, 60))
	}
	return strings.Join(parts, ", ")
}

func priorityLabel(p int) string {
	switch p {
	case 1:
		return "high"
	case 2:
		return "medium"
	case 3:
		return "low"
	default:
		return fmt.Sprintf("priority %d", p)
	}
}

func clock(hour int, minute *int) string {
	m := 0
	if minute != nil {
		m = *minute
	}
	return fmt.Sprintf("%02d:%02d", hour, m)
}

func compact(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
