package industry

import "testing"

func TestClassifyKnownCompanies(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"Stripe", "fintech"},
		{"Goldman Sachs", "fintech"},
		{"Pfizer", "healthcare"},
		{"OpenAI", "ai_ml"},
		{"Salesforce", "saas"},
		{"McKinsey & Company", "consulting"},
		{"Tesla", "automotive"},
		{"Netflix", "media"},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			if got := Classify(tt.company, "", ""); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.company, got, tt.want)
			}
		})
	}
}

func TestClassifyKeywordScoring(t *testing.T) {
	tests := []struct {
		name             string
		company          string
		title            string
		responsibilities string
		want             string
	}{
		{
			name:    "company keyword outweighs responsibilities",
			company: "Acme Payments Inc",
			title:   "Software Engineer",
			want:    "fintech",
		},
		{
			name:             "responsibilities only",
			company:          "Initech",
			title:            "Analyst",
			responsibilities: "patient data pipelines for clinical trials in a hospital setting",
			want:             "healthcare",
		},
		{
			name:    "tech default for software roles",
			company: "Unclassifiable Holdings",
			title:   "Backend Developer",
			want:    "tech",
		},
		{
			name:    "other when nothing matches",
			company: "Smith and Sons",
			title:   "Regional Coordinator",
			want:    "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.company, tt.title, tt.responsibilities)
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifySeniority(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Chief Technology Officer", "executive"},
		{"VP of Engineering", "executive"},
		{"Director of Product", "director"},
		{"Senior Director of Engineering", "director"}, // director outranks senior
		{"Staff Software Engineer", "staff_principal"},
		{"Principal Architect", "staff_principal"},
		{"Senior Software Engineer", "senior"},
		{"Tech Lead", "senior"},
		{"Software Engineer", "mid"},
		{"Junior Developer", "mid"}, // "developer" matches mid before junior
		{"Intern", "junior"},
		{"Unknown Title", "mid"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := ClassifySeniority(tt.title); got != tt.want {
				t.Errorf("ClassifySeniority(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("ai_ml"); got != "AI/ML" {
		t.Errorf("DisplayName(ai_ml) = %q", got)
	}
	if got := DisplayName("space_mining"); got != "Space Mining" {
		t.Errorf("DisplayName fallback = %q, want Space Mining", got)
	}
}
