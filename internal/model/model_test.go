package model

import (
	"strings"
	"testing"
)

func ip(v int) *int { return &v }
func fp(v float64) *float64 { return &v }
func qp(q SleepQuality) *SleepQuality { return &q }
func ep(t ExerciseType) *ExerciseType { return &t }

func TestDeriveDurationAcrossMidnight(t *testing.T) {
	s := &SleepEntry{BedtimeHour: ip(23), BedtimeMinute: ip(0), WakeHour: ip(6), WakeMinute: ip(30)}
	s.DeriveDuration()
	if s.DurationHours == nil {
		t.Fatal("DurationHours not derived")
	}
	if *s.DurationHours != 7.5 {
		t.Errorf("DurationHours = %v, want 7.5", *s.DurationHours)
	}
}

func TestDeriveDurationAlwaysPositive(t *testing.T) {
	// Wake "before" bedtime on the clock, so it crosses midnight.
	s := &SleepEntry{BedtimeHour: ip(1), WakeHour: ip(0), WakeMinute: ip(30)}
	s.DeriveDuration()
	if s.DurationHours == nil || *s.DurationHours <= 0 {
		t.Fatalf("DurationHours = %v, want positive", s.DurationHours)
	}
}

func TestDeriveDurationKeepsExplicit(t *testing.T) {
	s := &SleepEntry{BedtimeHour: ip(22), WakeHour: ip(7), DurationHours: fp(8.0)}
	s.DeriveDuration()
	if *s.DurationHours != 8.0 {
		t.Errorf("DurationHours = %v, want explicit 8.0 kept", *s.DurationHours)
	}
}

func TestValidateDropsDaytimeBedtime(t *testing.T) {
	c := &Candidate{Sleep: &SleepEntry{BedtimeHour: ip(14), WakeHour: ip(7), Quality: qp(SleepGood)}}
	dropped := c.Validate()
	if c.Sleep.BedtimeHour != nil {
		t.Errorf("daytime bedtime not dropped: %v", *c.Sleep.BedtimeHour)
	}
	if c.Sleep.Quality == nil {
		t.Error("valid quality was dropped")
	}
	if len(dropped) == 0 {
		t.Error("expected a dropped-field description")
	}
}

func TestValidateScrubsExercise(t *testing.T) {
	bad := ExerciseType("sprinting")
	c := &Candidate{Exercise: []ExerciseEntry{{
		ExerciseType:    &bad,
		DurationMinutes: ip(900),
		Intensity:       ip(11),
		DistanceKm:      fp(-2),
		Notes:           strings.Repeat("x", 600),
	}}}
	c.Validate()
	e := c.Exercise[0]
	if e.ExerciseType != nil {
		t.Error("unknown exercise type not dropped")
	}
	if e.DurationMinutes != nil || e.Intensity != nil || e.DistanceKm != nil {
		t.Errorf("out-of-range fields survived: %+v", e)
	}
	if len(e.Notes) > maxExerciseNote {
		t.Errorf("notes not truncated: %d chars", len(e.Notes))
	}
}

func TestValidateDropsBadLinksAndEmptyTasks(t *testing.T) {
	c := &Candidate{
		Tasks: []TaskItem{{Task: "  "}, {Task: "buy milk", Priority: ip(9)}},
		ReadingLinks: []ReadingLink{
			{URL: "https://example.com/post"},
			{URL: "ftp://example.com"},
			{URL: "https://a.com, https://b.com"},
		},
	}
	c.Validate()
	if len(c.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(c.Tasks))
	}
	if c.Tasks[0].Priority != nil {
		t.Error("out-of-range priority not dropped")
	}
	if len(c.ReadingLinks) != 1 || c.ReadingLinks[0].URL != "https://example.com/post" {
		t.Errorf("links = %+v, want only the valid one", c.ReadingLinks)
	}
}

func TestRecordsFlatten(t *testing.T) {
	c := &Candidate{
		Sleep:    &SleepEntry{BedtimeHour: ip(23), WakeHour: ip(7), Quality: qp(SleepFair)},
		Exercise: []ExerciseEntry{{ExerciseType: ep(ExerciseRun), DurationMinutes: ip(30)}},
		Tasks:    []TaskItem{{Task: "call mom", Priority: ip(1)}},
	}
	c.Validate()
	recs := c.Records("2026-02-10")
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	if recs[0]["type"] != TypeSleep || recs[0]["date"] != "2026-02-10" {
		t.Errorf("sleep record = %v", recs[0])
	}
	if recs[0]["duration_hours"] != 8.0 {
		t.Errorf("duration_hours = %v, want 8", recs[0]["duration_hours"])
	}
	if recs[1]["exercise_type"] != "run" {
		t.Errorf("exercise record = %v", recs[1])
	}
	if recs[2]["task"] != "call mom" || recs[2]["priority"] != 1 {
		t.Errorf("task record = %v", recs[2])
	}
}

func TestCandidateEmpty(t *testing.T) {
	var c *Candidate
	if !c.Empty() {
		t.Error("nil candidate should be empty")
	}
	if !(&Candidate{}).Empty() {
		t.Error("zero candidate should be empty")
	}
	if (&Candidate{JournalNote: "hi"}).Empty() {
		t.Error("candidate with journal note should not be empty")
	}
}
