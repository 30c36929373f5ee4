// Package questions turns career insights into targeted interview
// questions. Each analytics finding (gap, hopping pattern, industry
// move, red flag, title change) triggers a category of templated
// questions; results are priority-ordered and capped.
package questions

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"talentscope/internal/types"
)

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

var actionVerbs = []string{"led", "built", "designed", "implemented", "developed", "managed", "created"}

// Generator produces smart questions from insights. The random source
// is injected so template selection can be made deterministic in tests.
// A mutex guards the source, so one Generator can serve concurrent
// requests.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	loader *Loader
}

// New returns a generator using the built-in templates.
func New(rng *rand.Rand) *Generator {
	loader, _ := NewLoader("", nil)
	return &Generator{rng: rng, loader: loader}
}

// NewWithLoader returns a generator backed by a hot-reloadable template
// loader.
func NewWithLoader(rng *rand.Rand, loader *Loader) *Generator {
	return &Generator{rng: rng, loader: loader}
}

func (g *Generator) pick(pool []Template) Template {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rng.Intn(len(pool))]
}

// at returns the template at index i, clamped to the last element so
// shorter override pools stay in range.
func at(pool []Template, i int) Template {
	if i >= len(pool) {
		i = len(pool) - 1
	}
	return pool[i]
}

// Generate builds up to maxQuestions prioritized questions. Order is
// stable within a priority tier. maxQuestions <= 0 means the default
// cap of 10.
func (g *Generator) Generate(insights types.CareerInsights, entries []types.TimelineEntry, maxQuestions int) []types.InterviewQuestion {
	if maxQuestions <= 0 {
		maxQuestions = 10
	}
	set := g.loader.Templates()

	var out []types.InterviewQuestion
	out = append(out, g.gapQuestions(set, insights)...)
	if insights.JobHoppingRisk == "medium" || insights.JobHoppingRisk == "high" {
		out = append(out, g.jobChangeQuestions(set, insights, entries)...)
	}
	if insights.IsIndustryHopper || len(insights.IndustryTransitions) > 0 {
		out = append(out, g.industryQuestions(set, insights)...)
	}
	out = append(out, g.redFlagQuestions(set, insights)...)
	out = append(out, g.trajectoryQuestions(set, insights)...)
	out = append(out, g.depthQuestions(set, entries)...)

	stableSortByPriority(out)
	if len(out) > maxQuestions {
		out = out[:maxQuestions]
	}
	return out
}

func stableSortByPriority(qs []types.InterviewQuestion) {
	// Insertion sort keeps declaration order within a tier.
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && priorityRank[qs[j].Priority] < priorityRank[qs[j-1].Priority]; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}

func (g *Generator) gapQuestions(set TemplateSet, insights types.CareerInsights) []types.InterviewQuestion {
	var out []types.InterviewQuestion
	for _, gap := range insights.Gaps {
		if gap.Severity != "medium" && gap.Severity != "significant" {
			continue
		}
		tpl := g.pick(set.Gap)
		vars := map[string]string{
			"duration": fmt.Sprintf("%d", gap.DurationMonths),
			"company1": gap.AfterCompany,
			"company2": gap.BeforeCompany,
			"period":   gap.Start.String() + " to " + gap.End.String(),
		}
		priority := "medium"
		if gap.Severity == "significant" {
			priority = "high"
		}
		out = append(out, types.InterviewQuestion{
			Question:  fill(tpl.Text, vars),
			Category:  "gap",
			Priority:  priority,
			Context:   fmt.Sprintf("Unexplained gap of %d months", gap.DurationMonths),
			FollowUps: fillAll(tpl.FollowUps, vars),
		})
	}
	return out
}

func (g *Generator) jobChangeQuestions(set TemplateSet, insights types.CareerInsights, entries []types.TimelineEntry) []types.InterviewQuestion {
	if insights.RolesUnderOneYear < 2 {
		return nil
	}

	var shortRole *types.TimelineEntry
	for i := range entries {
		if entries[i].DurationMonths > 0 && entries[i].DurationMonths < 12 {
			shortRole = &entries[i]
			break
		}
	}
	if shortRole == nil {
		return nil
	}

	// Only the first two templates reference a concrete short role.
	pool := set.JobChange
	if len(pool) > 2 {
		pool = pool[:2]
	}
	tpl := g.pick(pool)

	vars := map[string]string{
		"count":   fmt.Sprintf("%d", len(entries)),
		"years":   fmt.Sprintf("%.1f", insights.TotalExperienceYears),
		"company": shortRole.Company,
		"months":  fmt.Sprintf("%d", shortRole.DurationMonths),
		"tenure":  fmt.Sprintf("%d", int(math.Round(insights.AverageTenureMonths))),
	}
	priority := "medium"
	if insights.JobHoppingRisk == "high" {
		priority = "high"
	}
	return []types.InterviewQuestion{{
		Question: fill(tpl.Text, vars),
		Category: "job_change",
		Priority: priority,
		Context: fmt.Sprintf("Average tenure of %d months with %d roles under 1 year",
			int(math.Round(insights.AverageTenureMonths)), insights.RolesUnderOneYear),
		FollowUps: fillAll(tpl.FollowUps, vars),
	}}
}

func (g *Generator) industryQuestions(set TemplateSet, insights types.CareerInsights) []types.InterviewQuestion {
	if len(insights.IndustryTransitions) == 0 {
		return nil
	}
	transition := insights.IndustryTransitions[len(insights.IndustryTransitions)-1]
	tpl := g.pick(set.Industry)

	shown := insights.IndustriesWorked
	if len(shown) > 3 {
		shown = shown[:3]
	}
	industriesStr := strings.Join(shown, ", ")

	vars := map[string]string{
		"industries": industriesStr,
		"industry1":  transition.FromIndustry,
		"industry2":  transition.ToIndustry,
		"count":      fmt.Sprintf("%d", len(insights.IndustriesWorked)),
	}
	return []types.InterviewQuestion{{
		Question:  fill(tpl.Text, vars),
		Category:  "industry",
		Priority:  "medium",
		Context:   fmt.Sprintf("Worked across %d industries: %s", len(insights.IndustriesWorked), industriesStr),
		FollowUps: fillAll(tpl.FollowUps, vars),
	}}
}

func (g *Generator) redFlagQuestions(set TemplateSet, insights types.CareerInsights) []types.InterviewQuestion {
	var out []types.InterviewQuestion
	for _, flag := range insights.RedFlags {
		switch flag.Type {
		case "date_overlap":
			tpl := at(set.RedFlag, 0)
			vars := map[string]string{
				"company1": flag.Details.Company,
				"company2": flag.Details.Company2,
			}
			out = append(out, types.InterviewQuestion{
				Question:  fill(tpl.Text, vars),
				Category:  "red_flag",
				Priority:  "high",
				Context:   flag.Description,
				FollowUps: fillAll(tpl.FollowUps, vars),
			})
		case "short_recent_tenure":
			tpl := at(set.RedFlag, 2)
			vars := map[string]string{
				"company":  flag.Details.Company,
				"duration": fmt.Sprintf("%d", flag.Details.DurationMonths),
			}
			out = append(out, types.InterviewQuestion{
				Question:  fill(tpl.Text, vars),
				Category:  "red_flag",
				Priority:  "high",
				Context:   flag.Description,
				FollowUps: fillAll(tpl.FollowUps, vars),
			})
		}
	}
	return out
}

func (g *Generator) trajectoryQuestions(set TemplateSet, insights types.CareerInsights) []types.InterviewQuestion {
	changes := insights.TitleChanges
	if len(changes) > 2 {
		changes = changes[len(changes)-2:]
	}

	var out []types.InterviewQuestion
	for _, change := range changes {
		if change.ChangeType != "promotion" && change.ChangeType != "demotion" && change.ChangeType != "lateral" {
			continue
		}
		tpl := at(set.Trajectory, 0)
		vars := map[string]string{
			"fromTitle":  change.FromTitle,
			"toTitle":    change.ToTitle,
			"changeType": change.ChangeType,
			"trajectory": insights.Trajectory,
		}
		priority := "low"
		if change.ChangeType == "demotion" {
			priority = "medium"
		}
		out = append(out, types.InterviewQuestion{
			Question:  fill(tpl.Text, vars),
			Category:  "experience",
			Priority:  priority,
			Context:   fmt.Sprintf("Career %s from %s to %s", change.ChangeType, change.FromTitle, change.ToTitle),
			FollowUps: fillAll(tpl.FollowUps, vars),
		})
	}
	return out
}

// depthQuestions probes quantified achievements: for each of the three
// most recent entries, the first responsibility bullet that contains a
// digit and an action verb yields one low-priority question.
func (g *Generator) depthQuestions(set TemplateSet, entries []types.TimelineEntry) []types.InterviewQuestion {
	var out []types.InterviewQuestion

	recent := entries
	if len(recent) > 3 {
		recent = recent[:3]
	}
	for _, e := range recent {
		resps := e.Responsibilities
		if len(resps) > 2 {
			resps = resps[:2]
		}
		for _, resp := range resps {
			if !strings.ContainsAny(resp, "0123456789") {
				continue
			}
			skill := extractSkill(resp)
			if skill == "" {
				continue
			}
			tpl := g.pick(set.Depth)
			vars := map[string]string{
				"skill":   skill,
				"company": e.Company,
			}
			snippet := resp
			if len(snippet) > 50 {
				snippet = snippet[:50]
			}
			out = append(out, types.InterviewQuestion{
				Question:  fill(tpl.Text, vars),
				Category:  "depth",
				Priority:  "low",
				Context:   "Verify depth of experience: " + snippet + "...",
				FollowUps: fillAll(tpl.FollowUps, vars),
			})
			break
		}
	}
	return out
}

// extractSkill returns "verb nextWord" for the first action verb found
// in the bullet, or just the verb when it ends the sentence.
func extractSkill(resp string) string {
	lower := strings.ToLower(resp)
	for _, verb := range actionVerbs {
		idx := strings.Index(lower, verb)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(resp[idx+len(verb):])
		if len(rest) > 0 {
			return verb + " " + rest[0]
		}
		return verb
	}
	return ""
}

func fillAll(templates []string, vars map[string]string) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = fill(t, vars)
	}
	return out
}
