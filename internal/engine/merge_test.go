package engine

import (
	"strings"
	"testing"

	"lifelog/internal/model"
)

func ip(v int) *int { return &v }
func fp(v float64) *float64 { return &v }
func qp(v model.SleepQuality) *model.SleepQuality { return &v }
func ep(v model.ExerciseType) *model.ExerciseType { return &v }

func TestMergeSingularNeverAppends(t *testing.T) {
	acc := &model.Candidate{Sleep: &model.SleepEntry{DurationHours: fp(5)}}
	cand := &model.Candidate{Sleep: &model.SleepEntry{Quality: qp(model.SleepGood)}}

	out := Merge(acc, cand)
	if out.Sleep == nil {
		t.Fatal("expected merged sleep entry")
	}
	if out.Sleep.DurationHours == nil || *out.Sleep.DurationHours != 5 {
		t.Errorf("accumulated duration lost: %+v", out.Sleep)
	}
	if out.Sleep.Quality == nil || *out.Sleep.Quality != model.SleepGood {
		t.Errorf("candidate quality not merged: %+v", out.Sleep)
	}
}

func TestMergeNeverRegressesFields(t *testing.T) {
	acc := &model.Candidate{
		Sleep: &model.SleepEntry{
			Date:        "2026-08-30",
			BedtimeHour: ip(23),
			WakeHour:    ip(7),
			Quality:     qp(model.SleepFair),
		},
		Wellness: &model.WellnessEntry{MeditationMinutes: ip(20), MoodScore: ip(8)},
	}
	out := Merge(acc, &model.Candidate{})

	if out.Sleep == nil || out.Sleep.BedtimeHour == nil || out.Sleep.WakeHour == nil || out.Sleep.Quality == nil {
		t.Fatalf("sleep fields regressed: %+v", out.Sleep)
	}
	if out.Wellness == nil || out.Wellness.MeditationMinutes == nil || out.Wellness.MoodScore == nil {
		t.Fatalf("wellness fields regressed: %+v", out.Wellness)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	acc := &model.Candidate{Exercise: []model.ExerciseEntry{{ExerciseType: ep(model.ExerciseRun)}}}
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{{DurationMinutes: ip(30)}}}
	Merge(acc, cand)

	if acc.Exercise[0].DurationMinutes != nil {
		t.Error("accumulated input mutated by merge")
	}
	if cand.Exercise[0].ExerciseType != nil {
		t.Error("candidate input mutated by merge")
	}
}

func TestMergeTextHeuristic(t *testing.T) {
	long := "Went for a long run along the river and felt pretty strong the whole way through."
	cases := []struct {
		name, old, new, want string
	}{
		{"empty old takes new", "", "felt tired", "felt tired"},
		{"substring keeps old", long, "along the river", long},
		{"short fragment keeps old", long, "30 minutes", long},
		{"addendum concatenates", long, "Legs were sore afterwards but recovered quickly after stretching and a warm shower.", long + "\n\nLegs were sore afterwards but recovered quickly after stretching and a warm shower."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mergeText(tc.old, tc.new); got != tc.want {
				t.Errorf("mergeText(%q, %q) = %q, want %q", tc.old, tc.new, got, tc.want)
			}
		})
	}
}

func TestMergeExerciseCompletesOpenSession(t *testing.T) {
	acc := &model.Candidate{Exercise: []model.ExerciseEntry{{ExerciseType: ep(model.ExerciseRun)}}}
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{{DurationMinutes: ip(30)}}}

	out := Merge(acc, cand)
	if len(out.Exercise) != 1 {
		t.Fatalf("clarification created a duplicate session: %+v", out.Exercise)
	}
	e := out.Exercise[0]
	if e.ExerciseType == nil || *e.ExerciseType != model.ExerciseRun {
		t.Errorf("exercise type lost: %+v", e)
	}
	if e.DurationMinutes == nil || *e.DurationMinutes != 30 {
		t.Errorf("duration not filled: %+v", e)
	}
}

func TestMergeExerciseMatchesByType(t *testing.T) {
	acc := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseRun), DurationMinutes: ip(30)},
		{ExerciseType: ep(model.ExerciseGym)},
	}}
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseGym), BodyParts: []model.MuscleGroup{model.MuscleChest}},
	}}

	out := Merge(acc, cand)
	if len(out.Exercise) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(out.Exercise))
	}
	gym := out.Exercise[1]
	if len(gym.BodyParts) != 1 || gym.BodyParts[0] != model.MuscleChest {
		t.Errorf("body parts not merged into gym session: %+v", gym)
	}
}

func TestMergeExerciseAppendsUnmatched(t *testing.T) {
	acc := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseRun), DurationMinutes: ip(30), DistanceKm: fp(5), Intensity: ip(7), BodyParts: []model.MuscleGroup{model.MuscleLowerBody}},
	}}
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseYoga), DurationMinutes: ip(20)},
	}}

	out := Merge(acc, cand)
	if len(out.Exercise) != 2 {
		t.Fatalf("unmatched session should append, got %d sessions", len(out.Exercise))
	}
}

func TestMergeTypedSessionsNeverCrossMerge(t *testing.T) {
	acc := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseGym), BodyParts: []model.MuscleGroup{model.MuscleChest}},
	}}
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseRun), DurationMinutes: ip(30)},
	}}

	out := Merge(acc, cand)
	if len(out.Exercise) != 2 {
		t.Fatalf("expected two distinct sessions, got %+v", out.Exercise)
	}
	if out.Exercise[0].DurationMinutes != nil {
		t.Errorf("run duration leaked into gym session: %+v", out.Exercise[0])
	}
	if *out.Exercise[1].ExerciseType != model.ExerciseRun || *out.Exercise[1].DurationMinutes != 30 {
		t.Errorf("run session mangled: %+v", out.Exercise[1])
	}
}

func TestMergeDropsMeditationTypedAsExercise(t *testing.T) {
	cand := &model.Candidate{Exercise: []model.ExerciseEntry{
		{ExerciseType: ep(model.ExerciseOther), Notes: "evening sitting meditation"},
		{ExerciseType: ep(model.ExerciseRun), DurationMinutes: ip(30)},
	}}

	out := Merge(nil, cand)
	if len(out.Exercise) != 1 {
		t.Fatalf("expected meditation session dropped, got %+v", out.Exercise)
	}
	if *out.Exercise[0].ExerciseType != model.ExerciseRun {
		t.Errorf("wrong session kept: %+v", out.Exercise[0])
	}
}

func TestMergeTasksAndLinksDeduplicate(t *testing.T) {
	acc := &model.Candidate{
		Tasks:        []model.TaskItem{{Task: "Buy groceries"}},
		ReadingLinks: []model.ReadingLink{{URL: "https://example.com/a"}},
	}
	cand := &model.Candidate{
		Tasks: []model.TaskItem{
			{Task: "buy groceries", Priority: ip(1)},
			{Task: "Call dentist"},
		},
		ReadingLinks: []model.ReadingLink{
			{URL: "https://example.com/a", Context: "long read about training load management and recovery"},
			{URL: "https://example.com/b"},
		},
	}

	out := Merge(acc, cand)
	if len(out.Tasks) != 2 {
		t.Fatalf("task dedupe failed: %+v", out.Tasks)
	}
	if out.Tasks[0].Priority == nil || *out.Tasks[0].Priority != 1 {
		t.Errorf("priority not filled on matched task: %+v", out.Tasks[0])
	}
	if len(out.ReadingLinks) != 2 {
		t.Fatalf("link dedupe failed: %+v", out.ReadingLinks)
	}
	if !strings.Contains(out.ReadingLinks[0].Context, "training load") {
		t.Errorf("context not merged onto matched link: %+v", out.ReadingLinks[0])
	}
}

func TestMergeDerivesSleepDuration(t *testing.T) {
	acc := &model.Candidate{Sleep: &model.SleepEntry{BedtimeHour: ip(23)}}
	cand := &model.Candidate{Sleep: &model.SleepEntry{WakeHour: ip(6), WakeMinute: ip(30)}}

	out := Merge(acc, cand)
	if out.Sleep.DurationHours == nil || *out.Sleep.DurationHours != 7.5 {
		t.Errorf("duration not derived after merge: %+v", out.Sleep)
	}
}
