package interview

import (
	"strings"
	"unicode"
)

// DepthAssessment is a fast lexical read on how substantive an answer
// is. It runs before any AI evaluation and drives follow-up decisions
// even when the AI path is unavailable.
type DepthAssessment struct {
	Depth                     string // deep, adequate, surface, shallow
	Score                     float64
	WordCount                 int
	NumberCount               int
	SpecificCount             int
	VagueCount                int
	HasMetrics                bool
	VagueLanguage             bool
	PersonalContributionClear bool
	NeedsFollowUp             bool
}

var specificWords = []string{"specifically", "exactly", "precisely", "actually"}

var vaguePhrases = []string{"kind of", "sort of", "basically", "you know", "stuff", "things", "etc", "various"}

var challengeWords = []string{"challenge", "difficult", "problem", "issue"}

var reflectionWords = []string{"learned", "realized", "improved", "mistake"}

// AssessDepth scores a response on length, concrete numbers and
// specificity, penalizing vague phrasing and "we" answers that never
// clarify the candidate's own role.
func AssessDepth(response string) DepthAssessment {
	lower := strings.ToLower(response)
	wordCount := len(strings.Fields(response))

	numberCount := 0
	for _, r := range response {
		if unicode.IsDigit(r) {
			numberCount++
		}
	}

	specificCount := 0
	for _, w := range specificWords {
		if strings.Contains(lower, w) {
			specificCount++
		}
	}

	vagueCount := 0
	for _, p := range vaguePhrases {
		if strings.Contains(lower, p) {
			vagueCount++
		}
	}

	usesI := strings.Count(lower, " i ")
	usesWe := strings.Count(lower, " we ")

	score := min(float64(wordCount)/20, 5)
	score += float64(min(numberCount, 3))
	score += float64(specificCount)
	score -= float64(vagueCount)
	if usesWe > usesI && usesI < 2 {
		score -= 2
	}

	var depth string
	switch {
	case score >= 7:
		depth = "deep"
	case score >= 4:
		depth = "adequate"
	case score >= 2:
		depth = "surface"
	default:
		depth = "shallow"
	}

	return DepthAssessment{
		Depth:                     depth,
		Score:                     score,
		WordCount:                 wordCount,
		NumberCount:               numberCount,
		SpecificCount:             specificCount,
		VagueCount:                vagueCount,
		HasMetrics:                numberCount > 0,
		VagueLanguage:             vagueCount > 2,
		PersonalContributionClear: usesI > usesWe || usesWe < 2,
		NeedsFollowUp:             depth == "shallow" || depth == "surface",
	}
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ResponsePatterns aggregates lexical signals across all responses so
// far in a session.
type ResponsePatterns struct {
	AvgWordCount       float64
	UsesWeWithoutI     int
	GivesSpecifics     int
	MentionsChallenges int
	ShowsReflection    int
}

// ResponseAnalysis summarizes cross-response behavior for question
// strategy and prompt context.
type ResponseAnalysis struct {
	Patterns  ResponsePatterns
	Concerns  []string
	Strengths []string
}

func analyzeResponses(responses []string) ResponseAnalysis {
	if len(responses) == 0 {
		return ResponseAnalysis{}
	}

	var p ResponsePatterns
	totalWords := 0
	for _, r := range responses {
		lower := strings.ToLower(r)
		totalWords += len(strings.Fields(r))
		if strings.Contains(lower, "we ") && !strings.Contains(lower, "i ") {
			p.UsesWeWithoutI++
		}
		if strings.ContainsFunc(r, unicode.IsDigit) {
			p.GivesSpecifics++
		}
		if containsAny(lower, challengeWords) {
			p.MentionsChallenges++
		}
		if containsAny(lower, reflectionWords) {
			p.ShowsReflection++
		}
	}
	p.AvgWordCount = float64(totalWords) / float64(len(responses))

	analysis := ResponseAnalysis{Patterns: p}
	n := len(responses)

	if p.UsesWeWithoutI > n/2 {
		analysis.Concerns = append(analysis.Concerns, "Uses 'we' frequently without clarifying personal contribution")
	}
	if p.AvgWordCount < 40 {
		analysis.Concerns = append(analysis.Concerns, "Consistently brief answers lacking detail")
	}
	if p.GivesSpecifics < n/3 {
		analysis.Concerns = append(analysis.Concerns, "Rarely provides specific metrics or examples")
	}

	if p.GivesSpecifics > n/2 {
		analysis.Strengths = append(analysis.Strengths, "Provides specific, quantified examples")
	}
	if p.ShowsReflection > n/3 {
		analysis.Strengths = append(analysis.Strengths, "Shows self-awareness and learning mindset")
	}
	if p.AvgWordCount > 80 {
		analysis.Strengths = append(analysis.Strengths, "Provides thorough, detailed responses")
	}

	return analysis
}
