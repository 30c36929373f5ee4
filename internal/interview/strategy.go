package interview

import (
	"strings"

	"talentscope/internal/types"
)

// Competencies assessed across the interview. Weights express how much
// each one matters in the final read on a candidate; communication
// accrues partial coverage from every question asked.
const (
	CompetencyTechnical     = "technical_excellence"
	CompetencyAnalytical    = "analytical_thinking"
	CompetencyCommunication = "communication"
	CompetencyBehavioral    = "behavioral_cultural"
)

var competencyWeights = map[string]float64{
	CompetencyTechnical:     0.30,
	CompetencyAnalytical:    0.25,
	CompetencyCommunication: 0.25,
	CompetencyBehavioral:    0.20,
}

// competencyOrder fixes iteration order so ties resolve the same way
// every run.
var competencyOrder = []string{
	CompetencyTechnical,
	CompetencyAnalytical,
	CompetencyCommunication,
	CompetencyBehavioral,
}

var questionTypeCompetency = map[string]string{
	"technical":           CompetencyTechnical,
	"resume_verification": CompetencyTechnical,
	"analytical":          CompetencyAnalytical,
	"situational":         CompetencyAnalytical,
	"behavioral":          CompetencyBehavioral,
	"motivation":          CompetencyBehavioral,
	"self_reflection":     CompetencyBehavioral,
}

var competencyQuestionType = map[string]string{
	CompetencyTechnical:     "technical",
	CompetencyAnalytical:    "situational",
	CompetencyCommunication: "behavioral",
	CompetencyBehavioral:    "behavioral",
}

// Strategy describes what the next question should accomplish.
type Strategy struct {
	QuestionType     string
	FocusArea        string
	Intensity        string // gentle, moderate, deep_probe, challenging
	Rationale        string
	TargetCompetency string
}

// competencyCoverage counts how many questions have exercised each
// competency. Every question contributes half a point to communication
// since any answer exercises it.
func competencyCoverage(questions []types.SessionQuestion) map[string]float64 {
	coverage := map[string]float64{
		CompetencyTechnical:     0,
		CompetencyAnalytical:    0,
		CompetencyCommunication: 0,
		CompetencyBehavioral:    0,
	}
	for _, q := range questions {
		competency, ok := questionTypeCompetency[q.QuestionType]
		if !ok {
			competency = CompetencyBehavioral
		}
		coverage[competency]++
		coverage[CompetencyCommunication] += 0.5
	}
	return coverage
}

// lowestCompetency picks the least covered competency relative to its
// weight, so heavier competencies are revisited sooner.
func lowestCompetency(coverage map[string]float64) string {
	lowest := competencyOrder[0]
	best := coverage[lowest] / competencyWeights[lowest]
	for _, c := range competencyOrder[1:] {
		if v := coverage[c] / competencyWeights[c]; v < best {
			best = v
			lowest = c
		}
	}
	return lowest
}

// nextStrategy decides what the next main question should target, in
// priority order: probe a shallow area, verify a pending flag, spend an
// unused smart question, then shore up the least covered competency.
// A consumed pending flag is removed so verification cannot loop.
func nextStrategy(s *types.InterviewSession) Strategy {
	coverage := competencyCoverage(s.Questions)
	lowest := lowestCompetency(coverage)

	if len(s.ProbeTopics) > 0 {
		area := s.ProbeTopics[0]
		return Strategy{
			QuestionType:     "depth_probe",
			FocusArea:        area,
			Intensity:        "deep_probe",
			Rationale:        "Previous response on " + area + " lacked depth",
			TargetCompetency: lowest,
		}
	}

	if len(s.PendingFlags) > 0 {
		flag := s.PendingFlags[0]
		s.PendingFlags = s.PendingFlags[1:]
		area := flag.Area
		if area == "" {
			area = "experience"
		}
		desc := flag.Description
		if desc == "" {
			desc = "claim"
		}
		return Strategy{
			QuestionType:     "verification",
			FocusArea:        area,
			Intensity:        "challenging",
			Rationale:        "Need to verify: " + desc,
			TargetCompetency: CompetencyTechnical,
		}
	}

	if sq := firstUnusedSmart(s); sq != nil {
		focus := sq.Context
		if focus == "" {
			focus = "career"
		}
		rationale := sq.Context
		if rationale == "" {
			rationale = "Based on career pattern"
		}
		return Strategy{
			QuestionType:     sq.Category,
			FocusArea:        focus,
			Intensity:        "moderate",
			Rationale:        rationale,
			TargetCompetency: CompetencyBehavioral,
		}
	}

	return Strategy{
		QuestionType:     competencyQuestionType[lowest],
		FocusArea:        lowest,
		Intensity:        "moderate",
		Rationale:        "Need more assessment of " + lowest,
		TargetCompetency: lowest,
	}
}

func smartUsed(s *types.InterviewSession, q types.InterviewQuestion) bool {
	if s.UsedSmart[q.Question] {
		return true
	}
	for _, pq := range s.Questions {
		if strings.Contains(pq.Question, q.Question) {
			return true
		}
	}
	return false
}

func firstUnusedSmart(s *types.InterviewSession) *types.InterviewQuestion {
	for i := range s.Smart {
		if !smartUsed(s, s.Smart[i]) {
			return &s.Smart[i]
		}
	}
	return nil
}

// selectSmartQuestion returns an unused pre-generated question that
// fits the strategy: either its category matches the strategy's
// question type, or it is high priority and the strategy calls for
// probing or challenging. High-priority matches win.
func selectSmartQuestion(s *types.InterviewSession, strat Strategy) *types.InterviewQuestion {
	var matching []*types.InterviewQuestion
	for i := range s.Smart {
		sq := &s.Smart[i]
		if smartUsed(s, *sq) {
			continue
		}
		if sq.Category == strat.QuestionType {
			matching = append(matching, sq)
		} else if sq.Priority == "high" && (strat.Intensity == "deep_probe" || strat.Intensity == "challenging") {
			matching = append(matching, sq)
		}
	}
	if len(matching) == 0 {
		return nil
	}
	for _, sq := range matching {
		if sq.Priority == "high" {
			return sq
		}
	}
	return matching[0]
}

// formatSmartQuestion turns a pre-generated question into a session
// question and marks it consumed.
func formatSmartQuestion(s *types.InterviewSession, sq *types.InterviewQuestion) types.SessionQuestion {
	if s.UsedSmart == nil {
		s.UsedSmart = make(map[string]bool)
	}
	s.UsedSmart[sq.Question] = true

	topic := "career"
	if fields := strings.Fields(sq.Context); len(fields) > 0 {
		topic = fields[0]
	}
	difficulty := "hard"
	if sq.Priority == "medium" {
		difficulty = "medium"
	}
	return types.SessionQuestion{
		Question:     sq.Question,
		QuestionType: sq.Category,
		Topic:        topic,
		Difficulty:   difficulty,
		ExpectedElements: []string{
			"Specific explanation",
			"Personal context",
			"Honest reflection",
		},
		FollowUpHints: sq.FollowUps,
		IsSmart:       true,
	}
}
