// Package types holds the wire-stable data structures shared by the
// extraction, analytics and interview layers.
package types

import (
	"time"

	"talentscope/internal/timeline"
)

// TimelineEntry is a single position in a candidate's work history.
type TimelineEntry struct {
	Company          string             `json:"company"`
	Title            string             `json:"title"`
	Start            timeline.YearMonth `json:"start"`
	End              timeline.YearMonth `json:"end"` // null while IsCurrent
	IsCurrent        bool               `json:"isCurrent"`
	DurationMonths   int                `json:"durationMonths"`
	// RawStart preserves the source token the start date was parsed from,
	// so vague dates ("2020" with no month) remain detectable downstream.
	RawStart         string             `json:"-"`
	Location         string             `json:"location,omitempty"`
	Industry         string             `json:"industry,omitempty"`
	Responsibilities []string           `json:"responsibilities,omitempty"`
}

// Gap is an employment gap between two consecutive positions.
type Gap struct {
	AfterCompany   string             `json:"afterCompany"`
	BeforeCompany  string             `json:"beforeCompany"`
	Start          timeline.YearMonth `json:"start"`
	End            timeline.YearMonth `json:"end"`
	DurationMonths int                `json:"durationMonths"`
	Severity       string             `json:"severity"` // minor, medium, significant
}

// Tenure summarizes time spent at one position.
type Tenure struct {
	Company        string             `json:"company"`
	Title          string             `json:"title"`
	DurationMonths int                `json:"durationMonths"`
	Start          timeline.YearMonth `json:"start"`
	End            timeline.YearMonth `json:"end"`
	IsCurrent      bool               `json:"isCurrent"`
}

// IndustryTransition records a move between industries across two
// chronologically adjacent positions.
type IndustryTransition struct {
	FromIndustry string `json:"fromIndustry"`
	ToIndustry   string `json:"toIndustry"`
	Year         int    `json:"year,omitempty"`
	FromCompany  string `json:"fromCompany"`
	ToCompany    string `json:"toCompany"`
}

// TitleChange records a transition between consecutive roles.
type TitleChange struct {
	FromTitle   string `json:"fromTitle"`
	ToTitle     string `json:"toTitle"`
	FromCompany string `json:"fromCompany"`
	ToCompany   string `json:"toCompany"`
	Year        int    `json:"year,omitempty"`
	ChangeType  string `json:"changeType"` // promotion, demotion, lateral, role_change
}

// Overlap is a pair of positions whose date ranges intersect by more
// than one month.
type Overlap struct {
	Company1       string             `json:"company1"`
	Company2       string             `json:"company2"`
	Start          timeline.YearMonth `json:"start"`
	End            timeline.YearMonth `json:"end"`
	DurationMonths int                `json:"durationMonths"`
}

// RedFlagDetails carries the structured evidence behind a red flag.
// Fields are populated per flag type; unset fields are omitted.
type RedFlagDetails struct {
	Company             string  `json:"company,omitempty"`
	Company2            string  `json:"company2,omitempty"`
	Start               string  `json:"start,omitempty"`
	End                 string  `json:"end,omitempty"`
	DurationMonths      int     `json:"durationMonths,omitempty"`
	RolesUnderOneYear   int     `json:"rolesUnderOneYear,omitempty"`
	AverageTenureMonths float64 `json:"averageTenureMonths,omitempty"`
	OverlapCount        int     `json:"overlapCount,omitempty"`
}

// RedFlag is a concern worth verifying during the interview.
type RedFlag struct {
	Type        string         `json:"type"` // employment_gap, job_hopping, overlapping_roles, short_tenure
	Description string         `json:"description"`
	Severity    string         `json:"severity"` // low, medium, high
	Details     RedFlagDetails `json:"details"`
}

// CareerInsights is the full analytics result for one candidate.
type CareerInsights struct {
	TotalExperienceYears float64 `json:"totalExperienceYears"`
	Gaps                 []Gap   `json:"employmentGaps"`
	HasSignificantGaps   bool    `json:"hasSignificantGaps"`

	AverageTenureMonths float64 `json:"averageTenureMonths"`
	ShortestTenure      *Tenure `json:"shortestTenure,omitempty"`
	LongestTenure       *Tenure `json:"longestTenure,omitempty"`
	JobHoppingRisk      string  `json:"jobHoppingRisk"` // none, low, medium, high
	RolesUnderOneYear   int     `json:"rolesUnderOneYear"`
	RolesUnderTwoYears  int     `json:"rolesUnderTwoYears"`

	IndustriesWorked          []string             `json:"industriesWorked"`
	IndustryTransitions       []IndustryTransition `json:"industryTransitions"`
	IsIndustryHopper          bool                 `json:"isIndustryHopper"`
	PrimaryIndustry           string               `json:"primaryIndustry"`
	PrimaryIndustryPercentage float64              `json:"primaryIndustryPercentage"`

	Trajectory           string        `json:"trajectory"` // ascending, descending, lateral, mixed, unknown
	SeniorityProgression []string      `json:"seniorityProgression"`
	TitleChanges         []TitleChange `json:"titleChanges"`

	RedFlags             []RedFlag `json:"redFlags"`
	AuthenticityConcerns []string  `json:"authenticityConcerns"`
	DateOverlaps         []Overlap `json:"dateOverlaps"`
}

// CareerReport bundles the extracted timeline with its analytics for
// CLI and file output.
type CareerReport struct {
	Entries  []TimelineEntry `json:"entries"`
	Insights CareerInsights  `json:"insights"`
}

// QuestionPlan is the output of standalone smart question generation.
type QuestionPlan struct {
	Questions       []InterviewQuestion `json:"questions"`
	ExperienceCount int                 `json:"experienceCount"`
}

// InterviewQuestion is a candidate-specific question produced from the
// career insights, before any interview session exists.
type InterviewQuestion struct {
	Question  string   `json:"question"`
	Category  string   `json:"category"` // gap, job_change, industry, experience_depth, red_flag, trajectory
	Priority  string   `json:"priority"` // high, medium, low
	Context   string   `json:"context,omitempty"`
	FollowUps []string `json:"followUps,omitempty"`
}

// SessionQuestion is a question as asked within a live session.
type SessionQuestion struct {
	Question         string   `json:"question"`
	QuestionType     string   `json:"questionType"` // technical, behavioral, situational, analytical, verification
	Topic            string   `json:"topic"`
	Difficulty       string   `json:"difficulty,omitempty"`
	ExpectedElements []string `json:"expectedElements,omitempty"`
	FollowUpHints    []string `json:"followUpHints,omitempty"`
	IsFollowUp       bool     `json:"isFollowUp"`
	IsSmart          bool     `json:"isSmart,omitempty"`
	ParentQuestion   string   `json:"parentQuestion,omitempty"`
}

// EvaluationScores are the per-dimension response scores, each on 0-10.
type EvaluationScores struct {
	Content        float64 `json:"content"`
	Communication  float64 `json:"communication"`
	Analytical     float64 `json:"analytical"`
	TechnicalDepth float64 `json:"technicalDepth"`
	StarMethod     float64 `json:"starMethod"`
	Authenticity   float64 `json:"authenticity"`
}

// Evaluation is the assessment of one candidate response.
type Evaluation struct {
	Scores              EvaluationScores `json:"scores"`
	OverallScore        float64          `json:"overallScore"` // 0-10
	Strengths           []string         `json:"strengths,omitempty"`
	Weaknesses          []string         `json:"weaknesses,omitempty"`
	MissingElements     []string         `json:"missingElements,omitempty"`
	RedFlags            []string         `json:"redFlags,omitempty"`
	Feedback            string           `json:"feedback,omitempty"`
	FollowUpRecommended bool             `json:"followUpRecommended"`
	FollowUpReason      string           `json:"followUpReason,omitempty"`
	DepthLevel          string           `json:"depthLevel,omitempty"` // deep, adequate, surface, shallow
	IsFallback          bool             `json:"isFallback,omitempty"`
}

// AggregateScores is the whole-interview summary.
type AggregateScores struct {
	Dimensions     EvaluationScores `json:"dimensions"`
	Overall        float64          `json:"overall"`        // 0-100
	Recommendation string           `json:"recommendation"` // Strong Hire, Hire, Maybe, No Hire
	QuestionCount  int              `json:"questionCount"`
}

// PendingFlag is a concern raised mid-interview that still needs a
// verification question. It is consumed when that question is asked.
type PendingFlag struct {
	Area        string `json:"area"`
	Description string `json:"description"`
	Question    string `json:"question,omitempty"`
}

// InterviewSession is the full mutable state of one interview.
// It is data only; locking lives in the session store.
type InterviewSession struct {
	ID              string    `json:"id"`
	EngineVariant   string    `json:"engineVariant"` // advanced, basic
	Status          string    `json:"status"`        // in_progress, completed
	InterviewType   string    `json:"interviewType"`
	Difficulty      string    `json:"difficulty"`
	TargetQuestions int       `json:"targetQuestions"`
	CreatedAt       time.Time `json:"createdAt"`
	CompletedAt     time.Time `json:"completedAt,omitzero"`

	ResumeText     string `json:"-"`
	JobDescription string `json:"-"`

	Entries  []TimelineEntry     `json:"-"`
	Insights *CareerInsights     `json:"-"`
	Smart    []InterviewQuestion `json:"-"`

	Questions   []SessionQuestion `json:"questions"`
	Responses   []string          `json:"responses"`
	Evaluations []Evaluation      `json:"evaluations"`

	// FollowUpsForCurrent counts follow-ups issued under the current main
	// question; it resets to zero whenever a main question is asked.
	FollowUpsForCurrent int `json:"-"`

	UsedSmart     map[string]bool    `json:"-"`
	TopicsCovered []string           `json:"-"`
	DepthScores   map[string]float64 `json:"-"`
	ProbeTopics   []string           `json:"-"`
	PendingFlags  []PendingFlag      `json:"-"`
	Strengths     []string           `json:"-"`
	Concerns      []string           `json:"-"`

	Introduction string           `json:"introduction,omitempty"`
	Closing      string           `json:"closing,omitempty"`
	Aggregate    *AggregateScores `json:"aggregate,omitempty"`
}

// MainQuestionCount returns how many non-follow-up questions have been asked.
func (s *InterviewSession) MainQuestionCount() int {
	n := 0
	for _, q := range s.Questions {
		if !q.IsFollowUp {
			n++
		}
	}
	return n
}

// CurrentQuestion returns the most recently asked question, or nil.
func (s *InterviewSession) CurrentQuestion() *SessionQuestion {
	if len(s.Questions) == 0 {
		return nil
	}
	return &s.Questions[len(s.Questions)-1]
}
