package extract

import (
	"context"
	"strings"
	"testing"
	"time"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/timeline"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ ai.Request) (string, *ai.TokenUsage, error) {
	f.calls++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.response, nil, nil
}

func newTestExtractor(gen jsonGenerator) *Extractor {
	logger, _ := errors.New("error")
	e := New(gen, logger)
	e.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

const twoJobResume = `John Doe
Software Engineer

EXPERIENCE

Acme Corp | Senior Software Engineer
Jan 2020 - Dec 2021
• Led migration of 40 microservices to Kubernetes
• Mentored 3 junior engineers

Globex Inc | Software Engineer | New York, NY
Mar 2017 - Dec 2019
• Built data pipelines processing 2TB daily

EDUCATION
BS Computer Science, State University
`

func TestExtractTwoJobsWithRegex(t *testing.T) {
	gen := &fakeGenerator{}
	entries := newTestExtractor(gen).Extract(context.Background(), twoJobResume)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if gen.calls != 0 {
		t.Errorf("AI fallback called %d times despite good regex parse", gen.calls)
	}

	first := entries[0]
	if first.Company != "Acme Corp" || first.Title != "Senior Software Engineer" {
		t.Errorf("first entry = %q / %q", first.Company, first.Title)
	}
	if first.Start != (timeline.YearMonth{Year: 2020, Month: 1}) {
		t.Errorf("first.Start = %v", first.Start)
	}
	if first.End != (timeline.YearMonth{Year: 2021, Month: 12}) {
		t.Errorf("first.End = %v", first.End)
	}
	if first.DurationMonths != 23 {
		t.Errorf("first.DurationMonths = %d, want 23", first.DurationMonths)
	}
	if first.IsCurrent {
		t.Error("first entry should not be current")
	}
	if len(first.Responsibilities) != 2 {
		t.Errorf("first.Responsibilities = %v", first.Responsibilities)
	}

	second := entries[1]
	if second.Company != "Globex Inc" || second.Title != "Software Engineer" {
		t.Errorf("second entry = %q / %q", second.Company, second.Title)
	}
	if second.Location != "New York, NY" {
		t.Errorf("second.Location = %q", second.Location)
	}
	if second.DurationMonths != 33 {
		t.Errorf("second.DurationMonths = %d, want 33", second.DurationMonths)
	}

	for _, entry := range entries {
		if entry.Industry != "Technology" {
			t.Errorf("entry %s Industry = %q, want Technology", entry.Company, entry.Industry)
		}
	}
}

func TestExperienceSectionIsolation(t *testing.T) {
	section := experienceSection(twoJobResume)
	if strings.Contains(section, "State University") {
		t.Error("education section leaked into experience text")
	}
	if strings.Contains(section, "John Doe") {
		t.Error("header leaked into experience text")
	}
	if !strings.Contains(section, "Acme Corp") {
		t.Error("experience content missing")
	}

	// Without headers, the full text is used.
	plain := "Acme Corp | Engineer\nJan 2020 - Dec 2021"
	if got := experienceSection(plain); got != plain {
		t.Errorf("experienceSection(%q) = %q", plain, got)
	}
}

func TestExtractDatesFormats(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantStart   timeline.YearMonth
		wantEnd     timeline.YearMonth
		wantCurrent bool
	}{
		{"month name range", "Jan 2020 - Dec 2021", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 12}, false},
		{"open range", "March 2022 - Present", timeline.YearMonth{Year: 2022, Month: 3}, timeline.YearMonth{}, true},
		{"iso range", "2020-01 - 2021-12", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 12}, false},
		{"us range", "01/2020 - 12/2021", timeline.YearMonth{Year: 2020, Month: 1}, timeline.YearMonth{Year: 2021, Month: 12}, false},
		{"year only defaults to Jan and Dec", "2019 - 2021", timeline.YearMonth{Year: 2019, Month: 1}, timeline.YearMonth{Year: 2021, Month: 12}, false},
		{"no dates", "just some text", timeline.YearMonth{}, timeline.YearMonth{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, current, _ := extractDates(tt.text)
			if start != tt.wantStart || end != tt.wantEnd || current != tt.wantCurrent {
				t.Errorf("extractDates(%q) = %v, %v, %v", tt.text, start, end, current)
			}
		})
	}
}

func TestExtractDatesKeepsRawStartForYearOnly(t *testing.T) {
	_, _, _, rawStart := extractDates("2019 - 2021")
	if rawStart != "2019" {
		t.Errorf("rawStart = %q, want 2019", rawStart)
	}
}

const singleJobResume = `EXPERIENCE

Acme Corp | Senior Software Engineer
Jan 2020 - Present
• Led migration of 40 microservices to Kubernetes
`

const aiResponseTwoEntries = `{
	"entries": [
		{
			"company": "Acme Corp",
			"title": "Senior Software Engineer",
			"startDate": "2020-01",
			"endDate": "Present",
			"isCurrent": true,
			"responsibilities": ["Led migration of 40 microservices"]
		},
		{
			"company": "Globex Inc",
			"title": "Software Engineer",
			"startDate": "2017-03",
			"endDate": "2019-12",
			"location": "New York, NY",
			"responsibilities": ["Built data pipelines"]
		}
	]
}`

func TestExtractAIFallbackPrefersMoreEntries(t *testing.T) {
	gen := &fakeGenerator{response: aiResponseTwoEntries}
	entries := newTestExtractor(gen).Extract(context.Background(), singleJobResume)

	if gen.calls != 1 {
		t.Fatalf("AI fallback called %d times, want 1", gen.calls)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 from AI fallback", len(entries))
	}

	if !entries[0].IsCurrent {
		t.Error("first AI entry should be current")
	}
	if !entries[0].End.IsZero() {
		t.Errorf("current entry End = %v, want zero", entries[0].End)
	}
	// Jan 2020 to injected now (Jun 2025).
	if entries[0].DurationMonths != 65 {
		t.Errorf("current entry DurationMonths = %d, want 65", entries[0].DurationMonths)
	}
	if entries[1].End != (timeline.YearMonth{Year: 2019, Month: 12}) {
		t.Errorf("second AI entry End = %v", entries[1].End)
	}
}

func TestExtractAIFallbackErrorKeepsRegexResults(t *testing.T) {
	gen := &fakeGenerator{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "boom", nil)}
	entries := newTestExtractor(gen).Extract(context.Background(), singleJobResume)

	if gen.calls != 1 {
		t.Fatalf("AI fallback called %d times, want 1", gen.calls)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want the 1 regex entry", len(entries))
	}
	if entries[0].Company != "Acme Corp" {
		t.Errorf("Company = %q", entries[0].Company)
	}
}

func TestExtractAIFallbackFewerEntriesIgnored(t *testing.T) {
	gen := &fakeGenerator{response: `{"entries": []}`}
	entries := newTestExtractor(gen).Extract(context.Background(), singleJobResume)

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want regex result kept", len(entries))
	}
}

func TestExtractNilGeneratorSkipsFallback(t *testing.T) {
	entries := newTestExtractor(nil).Extract(context.Background(), singleJobResume)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestExtractMalformedAIResponse(t *testing.T) {
	gen := &fakeGenerator{response: "not json"}
	entries := newTestExtractor(gen).Extract(context.Background(), singleJobResume)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want regex result kept", len(entries))
	}
}
