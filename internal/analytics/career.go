// Package analytics computes career-pattern insights from a candidate's
// work timeline: total experience, employment gaps, stability risk,
// industry footprint, trajectory, date overlaps and red flags.
//
// Analyze is a pure function of its inputs. The reference instant is a
// caller-supplied "now" so that every duration inside one run resolves
// open-ended positions against the same month.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"talentscope/internal/industry"
	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

// seniorityRank orders the classifier's levels for trajectory math.
var seniorityRank = map[string]int{
	"junior":          0,
	"mid":             1,
	"senior":          2,
	"staff_principal": 3,
	"director":        4,
	"executive":       5,
}

var genericPhrases = []string{
	"responsible for",
	"duties included",
	"worked on various",
	"participated in",
	"assisted with",
}

// Analyze produces the full insight bundle for a set of timeline entries.
// An empty input yields the zero-valued insights with "unknown" markers
// rather than an error.
func Analyze(entries []types.TimelineEntry, now timeline.YearMonth) types.CareerInsights {
	if len(entries) == 0 {
		return emptyInsights()
	}

	desc := sortByStartDesc(entries)
	asc := sortByStartAsc(entries)

	gaps := analyzeGaps(asc)
	hasSignificant := false
	for _, g := range gaps {
		if g.DurationMonths >= 6 {
			hasSignificant = true
		}
	}

	stability := analyzeStability(desc, now)
	industries := analyzeIndustries(desc, asc)
	trajectory := analyzeTrajectory(asc)
	overlaps := detectOverlaps(desc, now)

	insights := types.CareerInsights{
		TotalExperienceYears: totalExperienceYears(entries, now),
		Gaps:                 gaps,
		HasSignificantGaps:   hasSignificant,

		AverageTenureMonths: stability.average,
		ShortestTenure:      stability.shortest,
		LongestTenure:       stability.longest,
		JobHoppingRisk:      stability.risk,
		RolesUnderOneYear:   stability.underOneYear,
		RolesUnderTwoYears:  stability.underTwoYears,

		IndustriesWorked:          industries.worked,
		IndustryTransitions:       industries.transitions,
		IsIndustryHopper:          len(industries.worked) >= 3,
		PrimaryIndustry:           industries.primary,
		PrimaryIndustryPercentage: industries.primaryPct,

		Trajectory:           trajectory.overall,
		SeniorityProgression: trajectory.progression,
		TitleChanges:         trajectory.changes,

		AuthenticityConcerns: checkAuthenticity(desc),
		DateOverlaps:         overlaps,
	}
	insights.RedFlags = identifyRedFlags(desc, gaps, stability, overlaps)
	return insights
}

func emptyInsights() types.CareerInsights {
	return types.CareerInsights{
		Gaps:                 []types.Gap{},
		JobHoppingRisk:       "none",
		IndustriesWorked:     []string{},
		IndustryTransitions:  []types.IndustryTransition{},
		PrimaryIndustry:      "Unknown",
		Trajectory:           "unknown",
		SeniorityProgression: []string{},
		TitleChanges:         []types.TitleChange{},
		RedFlags:             []types.RedFlag{},
		AuthenticityConcerns: []string{},
		DateOverlaps:         []types.Overlap{},
	}
}

// sortByStartDesc returns entries latest-start first. Entries without a
// start date sort last; the relative order of equal keys is preserved.
func sortByStartDesc(entries []types.TimelineEntry) []types.TimelineEntry {
	out := make([]types.TimelineEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Start.Before(out[i].Start)
	})
	return out
}

func sortByStartAsc(entries []types.TimelineEntry) []types.TimelineEntry {
	out := make([]types.TimelineEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// resolveEnd gives the effective end month of an entry: "now" for current
// positions, otherwise the recorded end (possibly zero).
func resolveEnd(e types.TimelineEntry, now timeline.YearMonth) timeline.YearMonth {
	if e.IsCurrent {
		return now
	}
	return e.End
}

// totalExperienceYears spans earliest start to latest end. A missing
// latest end resolves to now.
func totalExperienceYears(entries []types.TimelineEntry, now timeline.YearMonth) float64 {
	var earliest, latest timeline.YearMonth
	for _, e := range entries {
		end := resolveEnd(e, now)
		if !e.Start.IsZero() && (earliest.IsZero() || e.Start.Before(earliest)) {
			earliest = e.Start
		}
		if !end.IsZero() && (latest.IsZero() || latest.Before(end)) {
			latest = end
		}
	}
	if earliest.IsZero() {
		return 0
	}
	if latest.IsZero() {
		latest = now
	}
	months := earliest.MonthsUntil(latest)
	if months < 0 {
		months = 0
	}
	return math.Round(float64(months)/12*10) / 10
}

// analyzeGaps walks ascending-sorted entries pairwise. Only resolvable
// date pairs are considered; a current entry never opens a gap. Pairs
// whose dates overlap produce a negative day count and are clamped to
// "no gap" rather than relying on the >30 threshold to filter them.
func analyzeGaps(asc []types.TimelineEntry) []types.Gap {
	gaps := []types.Gap{}
	for i := 0; i+1 < len(asc); i++ {
		cur, next := asc[i], asc[i+1]
		if cur.IsCurrent || cur.End.IsZero() || next.Start.IsZero() {
			continue
		}
		gapDays := cur.End.DaysUntil(next.Start)
		if gapDays <= 0 {
			continue // overlapping or adjacent, no gap
		}
		if gapDays <= 30 {
			continue
		}
		months := gapDays / 30
		severity := "significant"
		if months < 3 {
			severity = "minor"
		} else if months < 6 {
			severity = "medium"
		}
		gaps = append(gaps, types.Gap{
			AfterCompany:   orUnknown(cur.Company),
			BeforeCompany:  orUnknown(next.Company),
			Start:          cur.End,
			End:            next.Start,
			DurationMonths: months,
			Severity:       severity,
		})
	}
	return gaps
}

type stabilityResult struct {
	average       float64
	shortest      *types.Tenure
	longest       *types.Tenure
	risk          string
	underOneYear  int
	underTwoYears int
}

func analyzeStability(entries []types.TimelineEntry, now timeline.YearMonth) stabilityResult {
	res := stabilityResult{risk: "none"}

	var tenures []types.Tenure
	for _, e := range entries {
		duration := e.DurationMonths
		if duration == 0 {
			end := resolveEnd(e, now)
			if !e.Start.IsZero() && !end.IsZero() {
				duration = e.Start.MonthsUntil(end)
			}
		}
		if duration <= 0 {
			continue
		}
		tenures = append(tenures, types.Tenure{
			Company:        orUnknown(e.Company),
			Title:          orUnknown(e.Title),
			DurationMonths: duration,
			Start:          e.Start,
			End:            e.End,
			IsCurrent:      e.IsCurrent,
		})
		if duration < 12 {
			res.underOneYear++
		}
		if duration < 24 {
			res.underTwoYears++
		}
	}
	if len(tenures) == 0 {
		return res
	}

	total := 0
	shortest, longest := 0, 0
	for i, t := range tenures {
		total += t.DurationMonths
		if t.DurationMonths < tenures[shortest].DurationMonths {
			shortest = i
		}
		if t.DurationMonths > tenures[longest].DurationMonths {
			longest = i
		}
	}
	res.average = math.Round(float64(total)/float64(len(tenures))*10) / 10
	res.shortest = &tenures[shortest]
	res.longest = &tenures[longest]

	// Precedence order matters: most severe classification first.
	switch {
	case res.underOneYear >= 3 || (len(tenures) > 2 && res.underOneYear >= 2):
		res.risk = "high"
	case res.underOneYear >= 2 || (len(tenures) > 3 && res.average < 18):
		res.risk = "medium"
	case res.underOneYear >= 1 || res.average < 24:
		res.risk = "low"
	}
	return res
}

type industryResult struct {
	worked      []string
	transitions []types.IndustryTransition
	primary     string
	primaryPct  float64
}

// analyzeIndustries weights each entry's industry by its duration (12
// months when unknown) to find the time-weighted primary industry, and
// records a transition whenever chronologically adjacent entries
// classify differently.
func analyzeIndustries(desc, asc []types.TimelineEntry) industryResult {
	res := industryResult{worked: []string{}, transitions: []types.IndustryTransition{}, primary: "Unknown"}

	months := map[string]int{}
	var order []string
	total := 0
	for _, e := range desc {
		name := entryIndustry(e)
		duration := e.DurationMonths
		if duration == 0 {
			duration = 12
		}
		if _, seen := months[name]; !seen {
			order = append(order, name)
		}
		months[name] += duration
		total += duration
	}
	res.worked = append(res.worked, order...)

	prevIndustry, prevCompany := "", ""
	for _, e := range asc {
		name := entryIndustry(e)
		if prevIndustry != "" && name != prevIndustry {
			res.transitions = append(res.transitions, types.IndustryTransition{
				FromIndustry: prevIndustry,
				ToIndustry:   name,
				Year:         e.Start.Year,
				FromCompany:  orUnknown(prevCompany),
				ToCompany:    orUnknown(e.Company),
			})
		}
		prevIndustry, prevCompany = name, e.Company
	}

	if total > 0 {
		for _, name := range order {
			if res.primary == "Unknown" || months[name] > months[res.primary] {
				res.primary = name
			}
		}
		res.primaryPct = math.Round(float64(months[res.primary])/float64(total)*1000) / 10
	}
	return res
}

func entryIndustry(e types.TimelineEntry) string {
	tag := e.Industry
	if tag == "" {
		tag = industry.Classify(e.Company, e.Title, strings.Join(e.Responsibilities, " "))
	}
	return industry.DisplayName(tag)
}

type trajectoryResult struct {
	overall     string
	progression []string
	changes     []types.TitleChange
}

func analyzeTrajectory(asc []types.TimelineEntry) trajectoryResult {
	res := trajectoryResult{overall: "unknown", progression: []string{}, changes: []types.TitleChange{}}

	prevTitle, prevCompany := "", ""
	prevLevel := -1
	for _, e := range asc {
		seniority := industry.ClassifySeniority(e.Title)
		level := seniorityRank[seniority]
		res.progression = append(res.progression, seniority)

		if prevTitle != "" && e.Title != prevTitle {
			changeType := "role_change"
			switch {
			case level > prevLevel:
				changeType = "promotion"
			case level < prevLevel:
				changeType = "demotion"
			case e.Company != prevCompany:
				changeType = "lateral"
			}
			res.changes = append(res.changes, types.TitleChange{
				FromTitle:   prevTitle,
				ToTitle:     e.Title,
				FromCompany: prevCompany,
				ToCompany:   e.Company,
				Year:        e.Start.Year,
				ChangeType:  changeType,
			})
		}
		prevTitle, prevCompany, prevLevel = e.Title, e.Company, level
	}

	res.overall = determineTrajectory(res.progression)
	return res
}

// determineTrajectory is a majority vote over consecutive seniority
// moves, tie-break order ascending > descending > lateral > mixed.
func determineTrajectory(progression []string) string {
	if len(progression) < 2 {
		return "unknown"
	}
	upward, downward := 0, 0
	for i := 1; i < len(progression); i++ {
		prev, cur := seniorityRank[progression[i-1]], seniorityRank[progression[i]]
		if cur > prev {
			upward++
		} else if cur < prev {
			downward++
		}
	}
	lateral := len(progression) - 1 - upward - downward

	switch {
	case upward > downward && upward >= lateral:
		return "ascending"
	case downward > upward && downward >= lateral:
		return "descending"
	case lateral > upward && lateral > downward:
		return "lateral"
	default:
		return "mixed"
	}
}

// detectOverlaps compares all entry pairs on their resolved intervals.
// Only overlaps longer than one month are reported.
func detectOverlaps(entries []types.TimelineEntry, now timeline.YearMonth) []types.Overlap {
	overlaps := []types.Overlap{}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			s1, e1 := entries[i].Start, resolveEnd(entries[i], now)
			s2, e2 := entries[j].Start, resolveEnd(entries[j], now)
			if s1.IsZero() || e1.IsZero() || s2.IsZero() || e2.IsZero() {
				continue
			}
			start := s1
			if start.Before(s2) {
				start = s2
			}
			end := e1
			if e2.Before(end) {
				end = e2
			}
			if !start.Before(end) {
				continue
			}
			months := start.MonthsUntil(end)
			if months > 1 {
				overlaps = append(overlaps, types.Overlap{
					Company1:       orUnknown(entries[i].Company),
					Company2:       orUnknown(entries[j].Company),
					Start:          start,
					End:            end,
					DurationMonths: months,
				})
			}
		}
	}
	return overlaps
}

func identifyRedFlags(desc []types.TimelineEntry, gaps []types.Gap, stability stabilityResult, overlaps []types.Overlap) []types.RedFlag {
	flags := []types.RedFlag{}

	for _, gap := range gaps {
		if gap.Severity != "significant" {
			continue
		}
		severity := "high"
		if gap.DurationMonths < 12 {
			severity = "medium"
		}
		flags = append(flags, types.RedFlag{
			Type:        "employment_gap",
			Description: fmt.Sprintf("Employment gap of %d months between %s and %s", gap.DurationMonths, gap.AfterCompany, gap.BeforeCompany),
			Severity:    severity,
			Details: types.RedFlagDetails{
				Start:          gap.Start.String(),
				End:            gap.End.String(),
				DurationMonths: gap.DurationMonths,
			},
		})
	}

	if stability.risk == "medium" || stability.risk == "high" {
		flags = append(flags, types.RedFlag{
			Type:        "frequent_job_changes",
			Description: fmt.Sprintf("%d roles held for less than 1 year", stability.underOneYear),
			Severity:    stability.risk,
			Details: types.RedFlagDetails{
				RolesUnderOneYear:   stability.underOneYear,
				AverageTenureMonths: stability.average,
			},
		})
	}

	for _, ov := range overlaps {
		if ov.DurationMonths <= 3 {
			continue
		}
		severity := "medium"
		if ov.DurationMonths > 6 {
			severity = "high"
		}
		flags = append(flags, types.RedFlag{
			Type:        "date_overlap",
			Description: fmt.Sprintf("Overlapping dates (%d months) between %s and %s", ov.DurationMonths, ov.Company1, ov.Company2),
			Severity:    severity,
			Details: types.RedFlagDetails{
				Company:        ov.Company1,
				Company2:       ov.Company2,
				Start:          ov.Start.String(),
				End:            ov.End.String(),
				DurationMonths: ov.DurationMonths,
			},
		})
	}

	// Most recent means latest start, the head of the descending sort.
	if len(desc) > 0 {
		recent := desc[0]
		if !recent.IsCurrent && recent.DurationMonths > 0 && recent.DurationMonths < 6 {
			flags = append(flags, types.RedFlag{
				Type:        "short_recent_tenure",
				Description: fmt.Sprintf("Most recent role at %s lasted only %d months", orUnknown(recent.Company), recent.DurationMonths),
				Severity:    "medium",
				Details: types.RedFlagDetails{
					Company:        orUnknown(recent.Company),
					DurationMonths: recent.DurationMonths,
				},
			})
		}
	}

	return flags
}

// checkAuthenticity surfaces resume-quality concerns, capped at five in
// first-found order.
func checkAuthenticity(entries []types.TimelineEntry) []string {
	concerns := []string{}

	for _, e := range entries {
		if len(e.Responsibilities) == 0 {
			concerns = append(concerns, fmt.Sprintf("No responsibilities listed for role at %s", orUnknown(e.Company)))
			continue
		}
		text := strings.ToLower(strings.Join(e.Responsibilities, " "))
		generic := false
		for _, phrase := range genericPhrases {
			if strings.Contains(text, phrase) {
				generic = true
				break
			}
		}
		if generic && !strings.ContainsAny(text, "0123456789") {
			concerns = append(concerns, fmt.Sprintf("Generic descriptions without metrics at %s", orUnknown(e.Company)))
		}
	}

	for _, e := range entries {
		if len(e.RawStart) == 4 {
			concerns = append(concerns, fmt.Sprintf("Only year provided for start date at %s", orUnknown(e.Company)))
		}
	}

	if len(concerns) > 5 {
		concerns = concerns[:5]
	}
	return concerns
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
