package analytics

import (
	"reflect"
	"testing"

	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

var testNow = timeline.YearMonth{Year: 2025, Month: 6}

func entry(company, title string, start, end timeline.YearMonth, current bool) types.TimelineEntry {
	e := types.TimelineEntry{
		Company:   company,
		Title:     title,
		Start:     start,
		End:       end,
		IsCurrent: current,
	}
	resolvedEnd := end
	if current {
		resolvedEnd = testNow
	}
	if !start.IsZero() && !resolvedEnd.IsZero() {
		e.DurationMonths = start.MonthsUntil(resolvedEnd)
	}
	return e
}

func TestAnalyzeEmpty(t *testing.T) {
	got := Analyze(nil, testNow)
	if got.TotalExperienceYears != 0 {
		t.Errorf("TotalExperienceYears = %v, want 0", got.TotalExperienceYears)
	}
	if got.JobHoppingRisk != "none" {
		t.Errorf("JobHoppingRisk = %q, want none", got.JobHoppingRisk)
	}
	if got.Trajectory != "unknown" {
		t.Errorf("Trajectory = %q, want unknown", got.Trajectory)
	}
	if got.PrimaryIndustry != "Unknown" {
		t.Errorf("PrimaryIndustry = %q, want Unknown", got.PrimaryIndustry)
	}
}

func TestAnalyzeGapBetweenJobs(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("JobA", "Engineer", timeline.YearMonth{Year: 2019, Month: 1}, timeline.YearMonth{Year: 2019, Month: 11}, false),
		entry("JobB", "Engineer", timeline.YearMonth{Year: 2020, Month: 6}, timeline.YearMonth{}, true),
	}

	got := Analyze(entries, testNow)

	if len(got.Gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(got.Gaps))
	}
	gap := got.Gaps[0]
	// 2019-11-01 to 2020-06-01 is 213 days, floor(213/30) = 7 months.
	if gap.DurationMonths != 7 {
		t.Errorf("gap DurationMonths = %d, want 7", gap.DurationMonths)
	}
	if gap.Severity != "significant" {
		t.Errorf("gap Severity = %q, want significant", gap.Severity)
	}
	if !got.HasSignificantGaps {
		t.Error("HasSignificantGaps = false, want true")
	}
	if gap.AfterCompany != "JobA" || gap.BeforeCompany != "JobB" {
		t.Errorf("gap companies = %q/%q", gap.AfterCompany, gap.BeforeCompany)
	}
}

func TestAnalyzeGapSeverities(t *testing.T) {
	tests := []struct {
		name         string
		nextStart    timeline.YearMonth
		wantGaps     int
		wantMonths   int
		wantSeverity string
	}{
		{"no gap within a month", timeline.YearMonth{Year: 2020, Month: 1}, 0, 0, ""},
		{"minor gap", timeline.YearMonth{Year: 2020, Month: 3}, 1, 2, "minor"},
		{"medium gap", timeline.YearMonth{Year: 2020, Month: 5}, 1, 4, "medium"},
		{"significant gap", timeline.YearMonth{Year: 2020, Month: 9}, 1, 8, "significant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []types.TimelineEntry{
				entry("First", "Engineer", timeline.YearMonth{Year: 2019, Month: 1}, timeline.YearMonth{Year: 2019, Month: 12}, false),
				entry("Second", "Engineer", tt.nextStart, timeline.YearMonth{Year: 2021, Month: 1}, false),
			}
			got := Analyze(entries, testNow)
			if len(got.Gaps) != tt.wantGaps {
				t.Fatalf("got %d gaps, want %d", len(got.Gaps), tt.wantGaps)
			}
			if tt.wantGaps == 1 {
				if got.Gaps[0].DurationMonths != tt.wantMonths {
					t.Errorf("DurationMonths = %d, want %d", got.Gaps[0].DurationMonths, tt.wantMonths)
				}
				if got.Gaps[0].Severity != tt.wantSeverity {
					t.Errorf("Severity = %q, want %q", got.Gaps[0].Severity, tt.wantSeverity)
				}
			}
		})
	}
}

func TestAnalyzeNegativeGapClamped(t *testing.T) {
	// Second job starts before the first ends; must yield no gap, not a
	// negative one.
	entries := []types.TimelineEntry{
		entry("First", "Engineer", timeline.YearMonth{Year: 2019, Month: 1}, timeline.YearMonth{Year: 2020, Month: 6}, false),
		entry("Second", "Engineer", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 1}, false),
	}
	got := Analyze(entries, testNow)
	if len(got.Gaps) != 0 {
		t.Errorf("got %d gaps for overlapping entries, want 0", len(got.Gaps))
	}
}

func TestAnalyzeStabilityRisk(t *testing.T) {
	short := func(n int) []types.TimelineEntry {
		var entries []types.TimelineEntry
		for i := 0; i < n; i++ {
			start := timeline.YearMonth{Year: 2018 + i, Month: 1}
			end := timeline.YearMonth{Year: 2018 + i, Month: 6}
			entries = append(entries, entry("Co", "Engineer", start, end, false))
		}
		return entries
	}

	t.Run("three short roles are high risk", func(t *testing.T) {
		got := Analyze(short(3), testNow)
		if got.RolesUnderOneYear != 3 {
			t.Errorf("RolesUnderOneYear = %d, want 3", got.RolesUnderOneYear)
		}
		if got.JobHoppingRisk != "high" {
			t.Errorf("JobHoppingRisk = %q, want high", got.JobHoppingRisk)
		}
	})

	t.Run("high risk regardless of long average", func(t *testing.T) {
		entries := short(3)
		entries = append(entries,
			entry("LongCo", "Engineer", timeline.YearMonth{Year: 2000, Month: 1}, timeline.YearMonth{Year: 2015, Month: 1}, false))
		got := Analyze(entries, testNow)
		if got.JobHoppingRisk != "high" {
			t.Errorf("JobHoppingRisk = %q, want high despite long average", got.JobHoppingRisk)
		}
	})

	t.Run("single long tenure is none", func(t *testing.T) {
		entries := []types.TimelineEntry{
			entry("Solid", "Engineer", timeline.YearMonth{Year: 2018, Month: 1}, timeline.YearMonth{Year: 2021, Month: 1}, false),
		}
		got := Analyze(entries, testNow)
		if got.JobHoppingRisk != "none" {
			t.Errorf("JobHoppingRisk = %q, want none", got.JobHoppingRisk)
		}
	})

	t.Run("one short role is low", func(t *testing.T) {
		entries := []types.TimelineEntry{
			entry("Short", "Engineer", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2020, Month: 6}, false),
			entry("Long", "Engineer", timeline.YearMonth{Year: 2015, Month: 1}, timeline.YearMonth{Year: 2019, Month: 12}, false),
		}
		got := Analyze(entries, testNow)
		if got.JobHoppingRisk != "low" {
			t.Errorf("JobHoppingRisk = %q, want low", got.JobHoppingRisk)
		}
	})
}

func TestAnalyzeIndustryHopper(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("Google", "Software Engineer", timeline.YearMonth{Year: 2016, Month: 1}, timeline.YearMonth{Year: 2018, Month: 1}, false),
		entry("JPMorgan", "Software Engineer", timeline.YearMonth{Year: 2018, Month: 3}, timeline.YearMonth{Year: 2020, Month: 1}, false),
		entry("Pfizer", "Software Engineer", timeline.YearMonth{Year: 2020, Month: 2}, timeline.YearMonth{}, true),
	}

	got := Analyze(entries, testNow)

	if !got.IsIndustryHopper {
		t.Error("IsIndustryHopper = false, want true")
	}
	if len(got.IndustryTransitions) != 2 {
		t.Fatalf("got %d transitions, want 2", len(got.IndustryTransitions))
	}
	first, second := got.IndustryTransitions[0], got.IndustryTransitions[1]
	if first.FromCompany != "Google" || first.ToCompany != "JPMorgan" {
		t.Errorf("first transition = %s -> %s", first.FromCompany, first.ToCompany)
	}
	if second.FromCompany != "JPMorgan" || second.ToCompany != "Pfizer" {
		t.Errorf("second transition = %s -> %s", second.FromCompany, second.ToCompany)
	}
	if first.FromIndustry != "Technology" || first.ToIndustry != "Fintech" {
		t.Errorf("first transition industries = %s -> %s", first.FromIndustry, first.ToIndustry)
	}
	if second.ToIndustry != "Healthcare" {
		t.Errorf("second transition to = %s, want Healthcare", second.ToIndustry)
	}
}

func TestAnalyzeTrajectory(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("A", "Junior Analyst", timeline.YearMonth{Year: 2015, Month: 1}, timeline.YearMonth{Year: 2017, Month: 1}, false),
		entry("B", "Software Engineer", timeline.YearMonth{Year: 2017, Month: 2}, timeline.YearMonth{Year: 2019, Month: 1}, false),
		entry("C", "Senior Software Engineer", timeline.YearMonth{Year: 2019, Month: 2}, timeline.YearMonth{Year: 2022, Month: 1}, false),
		entry("D", "Director of Engineering", timeline.YearMonth{Year: 2022, Month: 2}, timeline.YearMonth{}, true),
	}

	got := Analyze(entries, testNow)

	if got.Trajectory != "ascending" {
		t.Errorf("Trajectory = %q, want ascending", got.Trajectory)
	}
	if len(got.TitleChanges) != 3 {
		t.Fatalf("got %d title changes, want 3", len(got.TitleChanges))
	}
	for _, change := range got.TitleChanges {
		if change.ChangeType != "promotion" {
			t.Errorf("ChangeType = %q, want promotion (%s -> %s)", change.ChangeType, change.FromTitle, change.ToTitle)
		}
	}
}

func TestAnalyzeOverlaps(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("DayJob", "Engineer", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 6}, false),
		entry("SideGig", "Engineer", timeline.YearMonth{Year: 2021, Month: 1}, timeline.YearMonth{Year: 2022, Month: 1}, false),
	}

	got := Analyze(entries, testNow)

	if len(got.DateOverlaps) != 1 {
		t.Fatalf("got %d overlaps, want 1", len(got.DateOverlaps))
	}
	ov := got.DateOverlaps[0]
	if ov.DurationMonths != 5 {
		t.Errorf("overlap DurationMonths = %d, want 5", ov.DurationMonths)
	}

	// 5-month overlap exceeds the 3-month flag threshold at medium severity.
	var flagged *types.RedFlag
	for i, f := range got.RedFlags {
		if f.Type == "date_overlap" {
			flagged = &got.RedFlags[i]
		}
	}
	if flagged == nil {
		t.Fatal("no date_overlap red flag")
	}
	if flagged.Severity != "medium" {
		t.Errorf("overlap flag severity = %q, want medium", flagged.Severity)
	}
}

func TestAnalyzeShortRecentTenureFlag(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("OldCo", "Engineer", timeline.YearMonth{Year: 2015, Month: 1}, timeline.YearMonth{Year: 2020, Month: 1}, false),
		entry("NewCo", "Engineer", timeline.YearMonth{Year: 2021, Month: 1}, timeline.YearMonth{Year: 2021, Month: 4}, false),
	}

	got := Analyze(entries, testNow)

	found := false
	for _, f := range got.RedFlags {
		if f.Type == "short_recent_tenure" {
			found = true
			if f.Details.Company != "NewCo" {
				t.Errorf("flag company = %q, want NewCo (latest start)", f.Details.Company)
			}
		}
	}
	if !found {
		t.Error("expected short_recent_tenure flag")
	}

	t.Run("current role never flagged", func(t *testing.T) {
		entries := []types.TimelineEntry{
			entry("NewCo", "Engineer", timeline.YearMonth{Year: 2025, Month: 3}, timeline.YearMonth{}, true),
		}
		got := Analyze(entries, testNow)
		for _, f := range got.RedFlags {
			if f.Type == "short_recent_tenure" {
				t.Error("current role flagged as short tenure")
			}
		}
	})
}

func TestAnalyzeAuthenticityConcerns(t *testing.T) {
	noResp := entry("Ghost Corp", "Engineer", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 1}, false)

	generic := entry("Vague Inc", "Engineer", timeline.YearMonth{Year: 2018, Month: 1}, timeline.YearMonth{Year: 2019, Month: 1}, false)
	generic.Responsibilities = []string{"Responsible for various tasks", "Assisted with projects"}

	yearOnly := entry("Imprecise LLC", "Engineer", timeline.YearMonth{Year: 2016, Month: 1}, timeline.YearMonth{Year: 2017, Month: 1}, false)
	yearOnly.RawStart = "2016"
	yearOnly.Responsibilities = []string{"Shipped 3 products to 100k users"}

	got := Analyze([]types.TimelineEntry{noResp, generic, yearOnly}, testNow)

	if len(got.AuthenticityConcerns) != 3 {
		t.Fatalf("got %d concerns: %v", len(got.AuthenticityConcerns), got.AuthenticityConcerns)
	}

	t.Run("capped at five", func(t *testing.T) {
		var entries []types.TimelineEntry
		for i := 0; i < 8; i++ {
			entries = append(entries, entry("Ghost Corp", "Engineer",
				timeline.YearMonth{Year: 2010 + i, Month: 1}, timeline.YearMonth{Year: 2010 + i, Month: 12}, false))
		}
		got := Analyze(entries, testNow)
		if len(got.AuthenticityConcerns) != 5 {
			t.Errorf("got %d concerns, want cap of 5", len(got.AuthenticityConcerns))
		}
	})

	t.Run("metrics suppress generic-phrase concern", func(t *testing.T) {
		e := entry("Metric Co", "Engineer", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 1}, false)
		e.Responsibilities = []string{"Responsible for scaling the platform to 2M requests per day"}
		got := Analyze([]types.TimelineEntry{e}, testNow)
		if len(got.AuthenticityConcerns) != 0 {
			t.Errorf("got concerns %v, want none", got.AuthenticityConcerns)
		}
	})
}

func TestAnalyzeIdempotent(t *testing.T) {
	entries := []types.TimelineEntry{
		entry("Google", "Senior Engineer", timeline.YearMonth{Year: 2016, Month: 1}, timeline.YearMonth{Year: 2018, Month: 1}, false),
		entry("Stripe", "Staff Engineer", timeline.YearMonth{Year: 2018, Month: 9}, timeline.YearMonth{}, true),
	}

	first := Analyze(entries, testNow)
	second := Analyze(entries, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("Analyze is not idempotent for identical input")
	}
}

func TestTotalExperienceMonotonic(t *testing.T) {
	base := []types.TimelineEntry{
		entry("A", "Engineer", timeline.YearMonth{Year: 2018, Month: 1}, timeline.YearMonth{Year: 2020, Month: 1}, false),
	}
	extended := []types.TimelineEntry{
		entry("A", "Engineer", timeline.YearMonth{Year: 2018, Month: 1}, timeline.YearMonth{Year: 2021, Month: 1}, false),
	}

	a := Analyze(base, testNow)
	b := Analyze(extended, testNow)

	if a.TotalExperienceYears < 0 {
		t.Errorf("TotalExperienceYears = %v, want >= 0", a.TotalExperienceYears)
	}
	if b.TotalExperienceYears < a.TotalExperienceYears {
		t.Errorf("extending an end decreased experience: %v -> %v", a.TotalExperienceYears, b.TotalExperienceYears)
	}
}
