package questions

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"talentscope/internal/errors"
	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

func newTestGenerator() *Generator {
	return New(rand.New(rand.NewSource(42)))
}

func insightsWithGap(severity string, months int) types.CareerInsights {
	return types.CareerInsights{
		Gaps: []types.Gap{{
			AfterCompany:   "Acme",
			BeforeCompany:  "Globex",
			Start:          timeline.YearMonth{Year: 2020, Month: 1},
			End:            timeline.YearMonth{Year: 2020, Month: 1 + months},
			DurationMonths: months,
			Severity:       severity,
		}},
	}
}

func TestGenerateGapQuestions(t *testing.T) {
	tests := []struct {
		name         string
		severity     string
		wantQuestion bool
		wantPriority string
	}{
		{"significant gap is high priority", "significant", true, "high"},
		{"medium gap is medium priority", "medium", true, "medium"},
		{"minor gap is skipped", "minor", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestGenerator().Generate(insightsWithGap(tt.severity, 7), nil, 10)
			if !tt.wantQuestion {
				if len(got) != 0 {
					t.Fatalf("got %d questions, want none", len(got))
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("got %d questions, want 1", len(got))
			}
			q := got[0]
			if q.Category != "gap" {
				t.Errorf("Category = %q, want gap", q.Category)
			}
			if q.Priority != tt.wantPriority {
				t.Errorf("Priority = %q, want %q", q.Priority, tt.wantPriority)
			}
			if !strings.Contains(q.Question, "Acme") && !strings.Contains(q.Question, "7") {
				t.Errorf("question lacks gap details: %q", q.Question)
			}
		})
	}
}

func TestGenerateJobChangeQuestion(t *testing.T) {
	insights := types.CareerInsights{
		JobHoppingRisk:       "high",
		RolesUnderOneYear:    3,
		AverageTenureMonths:  8,
		TotalExperienceYears: 4.0,
	}
	entries := []types.TimelineEntry{
		{Company: "ShortCo", Title: "Engineer", DurationMonths: 5},
		{Company: "OtherCo", Title: "Engineer", DurationMonths: 7},
	}

	got := newTestGenerator().Generate(insights, entries, 10)
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1", len(got))
	}
	if got[0].Category != "job_change" {
		t.Errorf("Category = %q, want job_change", got[0].Category)
	}
	if got[0].Priority != "high" {
		t.Errorf("Priority = %q, want high for high hopping risk", got[0].Priority)
	}
}

func TestGenerateIndustryQuestionUsesLatestTransition(t *testing.T) {
	insights := types.CareerInsights{
		IsIndustryHopper: true,
		IndustriesWorked: []string{"Technology", "Fintech", "Healthcare"},
		IndustryTransitions: []types.IndustryTransition{
			{FromIndustry: "Technology", ToIndustry: "Fintech"},
			{FromIndustry: "Fintech", ToIndustry: "Healthcare"},
		},
	}

	got := newTestGenerator().Generate(insights, nil, 10)
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1", len(got))
	}
	q := got[0]
	if q.Category != "industry" {
		t.Errorf("Category = %q, want industry", q.Category)
	}
	// Template placeholders are filled from the most recent transition;
	// whichever template was drawn, the transition industries or the
	// industry list must appear.
	if !strings.Contains(q.Question, "Fintech") && !strings.Contains(q.Question, "Healthcare") && !strings.Contains(q.Question, "3") {
		t.Errorf("question lacks transition details: %q", q.Question)
	}
}

func TestGenerateRedFlagQuestions(t *testing.T) {
	insights := types.CareerInsights{
		RedFlags: []types.RedFlag{
			{
				Type:        "date_overlap",
				Description: "Overlapping dates",
				Details:     types.RedFlagDetails{Company: "Acme", Company2: "Globex"},
			},
			{
				Type:        "short_recent_tenure",
				Description: "Short recent tenure",
				Details:     types.RedFlagDetails{Company: "Initech", DurationMonths: 4},
			},
		},
	}

	got := newTestGenerator().Generate(insights, nil, 10)
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	for _, q := range got {
		if q.Category != "red_flag" || q.Priority != "high" {
			t.Errorf("question = %q priority %q, want red_flag/high", q.Category, q.Priority)
		}
	}
	if !strings.Contains(got[0].Question, "Acme") || !strings.Contains(got[0].Question, "Globex") {
		t.Errorf("overlap question lacks companies: %q", got[0].Question)
	}
	if !strings.Contains(got[1].Question, "Initech") || !strings.Contains(got[1].Question, "4") {
		t.Errorf("tenure question lacks details: %q", got[1].Question)
	}
}

func TestGenerateRedFlagQuestionsWithSmallTemplatePool(t *testing.T) {
	// A template file may replace a category with fewer templates than
	// the built-ins; positional selection must clamp, not crash.
	path := filepath.Join(t.TempDir(), "templates.json")
	override := `{"redFlag":[{"text":"Walk me through your time at {company}.","followUps":["What happened there?"]}]}`
	if err := os.WriteFile(path, []byte(override), 0o600); err != nil {
		t.Fatal(err)
	}
	logger, _ := errors.New("error")
	loader, err := NewLoader(path, logger)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	gen := NewWithLoader(rand.New(rand.NewSource(1)), loader)

	insights := types.CareerInsights{
		RedFlags: []types.RedFlag{
			{
				Type:    "date_overlap",
				Details: types.RedFlagDetails{Company: "Acme", Company2: "Globex"},
			},
			{
				Type:    "short_recent_tenure",
				Details: types.RedFlagDetails{Company: "Initech", DurationMonths: 4},
			},
		},
	}

	got := gen.Generate(insights, nil, 10)
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	for _, q := range got {
		if !strings.Contains(q.Question, "Walk me through") {
			t.Errorf("question %q not drawn from the loaded pool", q.Question)
		}
	}
}

func TestGenerateTrajectoryQuestions(t *testing.T) {
	insights := types.CareerInsights{
		Trajectory: "mixed",
		TitleChanges: []types.TitleChange{
			{FromTitle: "Engineer", ToTitle: "Senior Engineer", ChangeType: "promotion"},
			{FromTitle: "Senior Engineer", ToTitle: "Director", ChangeType: "promotion"},
			{FromTitle: "Director", ToTitle: "Engineer", ChangeType: "demotion"},
		},
	}

	got := newTestGenerator().Generate(insights, nil, 10)

	// Only the last two changes produce questions.
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	var sawDemotion bool
	for _, q := range got {
		if q.Category != "experience" {
			t.Errorf("Category = %q, want experience", q.Category)
		}
		if strings.Contains(q.Question, "demotion") {
			sawDemotion = true
			if q.Priority != "medium" {
				t.Errorf("demotion Priority = %q, want medium", q.Priority)
			}
		}
	}
	if !sawDemotion {
		t.Error("no question generated for the demotion")
	}
}

func TestGenerateDepthQuestions(t *testing.T) {
	entries := []types.TimelineEntry{
		{
			Company: "Acme",
			Responsibilities: []string{
				"Led migration of 40 services to a new platform",
				"Mentored junior engineers",
			},
		},
		{
			Company:          "NoNumbers Inc",
			Responsibilities: []string{"Maintained internal tooling"},
		},
	}

	got := newTestGenerator().Generate(types.CareerInsights{}, entries, 10)
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1 (only the quantified bullet qualifies)", len(got))
	}
	q := got[0]
	if q.Category != "depth" || q.Priority != "low" {
		t.Errorf("got %q/%q, want depth/low", q.Category, q.Priority)
	}
	if !strings.Contains(q.Question, "led migration") {
		t.Errorf("question lacks extracted skill: %q", q.Question)
	}
	if !strings.Contains(q.Question, "Acme") {
		t.Errorf("question lacks company: %q", q.Question)
	}
}

func TestGeneratePriorityOrderingAndCap(t *testing.T) {
	insights := insightsWithGap("significant", 8)
	insights.Trajectory = "ascending"
	insights.TitleChanges = []types.TitleChange{
		{FromTitle: "Engineer", ToTitle: "Senior Engineer", ChangeType: "promotion"},
	}
	insights.RedFlags = []types.RedFlag{
		{Type: "short_recent_tenure", Details: types.RedFlagDetails{Company: "X", DurationMonths: 3}},
	}

	got := newTestGenerator().Generate(insights, nil, 10)
	if len(got) < 3 {
		t.Fatalf("got %d questions, want at least 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if priorityRank[got[i].Priority] < priorityRank[got[i-1].Priority] {
			t.Errorf("priority order violated at %d: %q after %q", i, got[i].Priority, got[i-1].Priority)
		}
	}

	capped := newTestGenerator().Generate(insights, nil, 2)
	if len(capped) != 2 {
		t.Errorf("got %d questions with cap 2", len(capped))
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	insights := insightsWithGap("significant", 8)

	a := New(rand.New(rand.NewSource(7))).Generate(insights, nil, 10)
	b := New(rand.New(rand.NewSource(7))).Generate(insights, nil, 10)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Question != b[i].Question {
			t.Errorf("question %d differs across identical seeds", i)
		}
	}
}

func TestGeneratedTextBelongsToTemplatePool(t *testing.T) {
	// Template choice is random; assert membership in the pool rather
	// than exact text.
	set := defaultTemplates()
	got := newTestGenerator().Generate(insightsWithGap("significant", 8), nil, 10)
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1", len(got))
	}

	matched := false
	for _, tpl := range set.Gap {
		prefix := tpl.Text[:strings.Index(tpl.Text, "{")]
		if strings.HasPrefix(got[0].Question, prefix) {
			matched = true
		}
	}
	if !matched {
		t.Errorf("question %q matches no gap template", got[0].Question)
	}
}
