// Package extract builds structured work history from free-form resume
// text. Regex parsing handles the common layouts; when it finds fewer
// than two entries the AI provider is asked for a structured extraction
// and the richer result wins.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"talentscope/internal/ai"
	"talentscope/internal/errors"
	"talentscope/internal/industry"
	"talentscope/internal/timeline"
	"talentscope/internal/types"
)

// jsonGenerator is the slice of the AI provider the extractor needs.
type jsonGenerator interface {
	GenerateJSON(ctx context.Context, req ai.Request) (string, *ai.TokenUsage, error)
}

// Extractor turns resume text into timeline entries. A nil generator
// disables the AI fallback and regex results are used as-is.
type Extractor struct {
	gen    jsonGenerator
	logger *errors.Logger
	now    func() time.Time
}

func New(gen jsonGenerator, logger *errors.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logger, now: time.Now}
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// Date-range patterns tried in order. Each yields named start/end
// groups; an open range matches the present marker instead of an end.
var dateRangeRes = []*regexp.Regexp{
	// "Jan 2020 - Present" or "January 2020 - Dec 2021"
	regexp.MustCompile(`(?i)(?P<startMonth>(?:` + monthAlt + `))\s*[,.]?\s*(?P<startYear>\d{4})\s*[-–—to]+\s*(?:(?P<endMonth>(?:` + monthAlt + `))\s*[,.]?\s*(?P<endYear>\d{4})|(?P<present>present|current|now|ongoing))`),
	// "2020-01 - 2021-12" or "2020/01 - Present"
	regexp.MustCompile(`(?i)(?P<startYear>\d{4})[-/](?P<startMonth>\d{1,2})\s*[-–—to]+\s*(?:(?P<endYear>\d{4})[-/](?P<endMonth>\d{1,2})|(?P<present>present|current|now|ongoing))`),
	// "01/2020 - 12/2021" or "01-2020 - Present"
	regexp.MustCompile(`(?i)(?P<startMonth>\d{1,2})[-/](?P<startYear>\d{4})\s*[-–—to]+\s*(?:(?P<endMonth>\d{1,2})[-/](?P<endYear>\d{4})|(?P<present>present|current|now|ongoing))`),
	// "2020 - 2021" or "2020 - Present" (year only)
	regexp.MustCompile(`(?i)(?P<startYear>\d{4})\s*[-–—to]+\s*(?:(?P<endYear>\d{4})|(?P<present>present|current|now|ongoing))`),
}

var (
	sectionStartRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:work\s+)?experience\s*\n`),
		regexp.MustCompile(`(?i)employment\s+history\s*\n`),
		regexp.MustCompile(`(?i)professional\s+experience\s*\n`),
		regexp.MustCompile(`(?i)career\s+history\s*\n`),
		regexp.MustCompile(`(?i)work\s+history\s*\n`),
	}
	sectionEndRe = regexp.MustCompile(`(?i)\n(?:education|skills|technical\s+skills|certifications|projects|awards|languages|interests)\s*\n`)

	// Used to anchor block splitting on "Mon YYYY - ..." ranges.
	monthRangeRe = regexp.MustCompile(`(?i)(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\s*[-–—]\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|present|current|now)`)

	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
	companyTitleRe  = regexp.MustCompile(`^([^|–\-]+)(?:\s*[|–\-]\s*)(.+?)(?:\s*[|–\-]\s*(.+))?$`)
	bulletRe        = regexp.MustCompile(`^[•\-\*]\s+`)
	yearAnywhereRe  = regexp.MustCompile(`\d{4}`)
	properNounRe    = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`)
	companySuffixRe = regexp.MustCompile(`(?i)\b(inc|llc|ltd|corp|corporation|company|co|group|technologies|solutions|systems|consulting|services)\b`)
	knownCompanyRe  = regexp.MustCompile(`(?i)\b(google|amazon|microsoft|meta|apple|netflix|uber|facebook|linkedin|twitter)\b`)
	titleRoleRe     = regexp.MustCompile(`(?i)\b(engineer|developer|manager|director|analyst|designer|architect|consultant|specialist|coordinator|lead|senior|junior|staff|principal|vp|head|chief)\b`)
	titleDomainRe   = regexp.MustCompile(`(?i)\b(software|data|product|project|program|technical|business|marketing|sales|operations|hr|finance)\b`)
)

// Extract parses resume text into timeline entries. It never fails hard:
// an AI fallback error is logged and the regex results are returned.
func (e *Extractor) Extract(ctx context.Context, text string) []types.TimelineEntry {
	section := experienceSection(text)

	entries := e.extractWithRegex(section)

	// Regex parsing that finds fewer than two roles is treated as a
	// poor parse; keep whichever result has more entries.
	if e.gen != nil && len(entries) < 2 {
		aiEntries, err := e.extractViaAI(ctx, section)
		if err != nil {
			e.logger.Warn("AI extraction failed, using regex results",
				"regex_entries", len(entries),
				"error", err.Error())
		} else if len(aiEntries) > len(entries) {
			entries = aiEntries
		}
	}

	for i := range entries {
		if entries[i].Industry == "" {
			tag := industry.Classify(entries[i].Company, entries[i].Title,
				strings.Join(entries[i].Responsibilities, " "))
			entries[i].Industry = industry.DisplayName(tag)
		}
	}

	return entries
}

// experienceSection isolates the work experience section of the resume.
// When no section header is found the full text is used.
func experienceSection(text string) string {
	start := 0
	for _, re := range sectionStartRes {
		if loc := re.FindStringIndex(text); loc != nil {
			start = loc[1]
			break
		}
	}

	rest := text[start:]
	end := len(rest)
	if loc := sectionEndRe.FindStringIndex(rest); loc != nil {
		end = loc[0]
	}

	section := strings.TrimSpace(rest[:end])
	if section == "" {
		return text
	}
	return section
}

func (e *Extractor) extractWithRegex(text string) []types.TimelineEntry {
	var entries []types.TimelineEntry
	for _, block := range splitJobBlocks(text) {
		if len(strings.TrimSpace(block)) < 20 { // skip very short blocks
			continue
		}
		entry, ok := e.parseJobBlock(block)
		if ok && entry.Company != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// splitJobBlocks splits experience text into per-job chunks, anchoring
// on "Mon YYYY - ..." date ranges when present and blank lines otherwise.
func splitJobBlocks(text string) []string {
	locs := monthRangeRe.FindAllStringIndex(text, -1)

	var blocks []string
	if len(locs) == 0 {
		blocks = blankLineRe.Split(text, -1)
	} else {
		for i, loc := range locs {
			start := 0
			if i > 0 {
				start = locs[i-1][1]
			}
			if i == len(locs)-1 {
				blocks = append(blocks, text[start:])
				continue
			}

			// Extend the block up to the company line that precedes
			// the next date range.
			end := loc[1]
			remaining := text[end:]
			nextBreak := len(remaining)
			if next := monthRangeRe.FindStringIndex(remaining); next != nil {
				nextBreak = next[0]
				linesBefore := strings.Split(remaining[:next[0]], "\n")
				for j := len(linesBefore) - 1; j >= 0; j-- {
					if l := strings.TrimSpace(linesBefore[j]); l != "" && len(l) > 5 {
						nextBreak = next[0] - len(strings.Join(linesBefore[j:], "\n"))
						break
					}
				}
			}
			blocks = append(blocks, text[start:end+nextBreak])
		}
	}

	out := blocks[:0]
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, strings.TrimSpace(b))
		}
	}
	return out
}

func (e *Extractor) parseJobBlock(block string) (types.TimelineEntry, bool) {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return types.TimelineEntry{}, false
	}

	start, end, isCurrent, rawStart := extractDates(block)

	var company, title, location string

	head := lines
	if len(head) > 3 {
		head = head[:3]
	}
	for _, line := range head {
		if m := companyTitleRe.FindStringSubmatch(line); m != nil {
			company = strings.TrimSpace(m[1])
			title = strings.TrimSpace(m[2])
			if isLikelyTitle(m[2]) && m[3] != "" {
				location = strings.TrimSpace(m[3])
			}
			break
		}
		if company == "" && isLikelyCompany(line) {
			company = line
		} else if company != "" && title == "" && isLikelyTitle(line) {
			title = line
		}
	}

	// Last resort: first line without a year is taken as the company.
	if company == "" {
		for _, line := range lines {
			if !yearAnywhereRe.MatchString(line) {
				if len(line) > 50 {
					line = line[:50]
				}
				company = line
				break
			}
		}
	}

	var responsibilities []string
	for _, line := range lines {
		switch {
		case bulletRe.MatchString(line):
			responsibilities = append(responsibilities, bulletRe.ReplaceAllString(line, ""))
		case len(line) > 30 && line[0] >= 'a' && line[0] <= 'z':
			// Long lower-case line is likely a wrapped responsibility.
			responsibilities = append(responsibilities, line)
		}
	}

	return types.TimelineEntry{
		Company:          company,
		Title:            title,
		Start:            start,
		End:              end,
		IsCurrent:        isCurrent,
		DurationMonths:   e.duration(start, end, isCurrent),
		RawStart:         rawStart,
		Location:         location,
		Responsibilities: responsibilities,
	}, true
}

// extractDates finds the first date range in the block. The raw start
// token is kept so downstream checks can tell year-only dates apart.
func extractDates(text string) (start, end timeline.YearMonth, isCurrent bool, rawStart string) {
	for _, re := range dateRangeRes {
		groups := namedGroups(re, text)
		if groups == nil {
			continue
		}

		isCurrent = groups["present"] != ""

		if sy := groups["startYear"]; sy != "" {
			year, _ := strconv.Atoi(sy)
			start = timeline.YearMonth{Year: year, Month: monthNumber(groups["startMonth"], 1)}
			rawStart = strings.TrimSpace(groups["startMonth"] + " " + sy)
			if groups["startMonth"] == "" {
				rawStart = sy
			}
		}

		if !isCurrent {
			if ey := groups["endYear"]; ey != "" {
				year, _ := strconv.Atoi(ey)
				end = timeline.YearMonth{Year: year, Month: monthNumber(groups["endMonth"], 12)}
			}
		}
		return start, end, isCurrent, rawStart
	}
	return timeline.YearMonth{}, timeline.YearMonth{}, false, ""
}

// monthNumber resolves a numeric or named month, with a default for
// year-only dates.
func monthNumber(raw string, def int) int {
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return def
	}
	key := strings.ToLower(raw)
	if len(key) > 3 {
		key = key[:3]
	}
	if n, ok := monthNames[key]; ok {
		return n
	}
	return def
}

func namedGroups(re *regexp.Regexp, text string) map[string]string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}
	return groups
}

func (e *Extractor) duration(start, end timeline.YearMonth, isCurrent bool) int {
	if start.IsZero() {
		return 0
	}
	if end.IsZero() || isCurrent {
		end = timeline.Of(e.now())
	}
	return max(0, start.MonthsUntil(end))
}

func isLikelyCompany(text string) bool {
	return companySuffixRe.MatchString(text) ||
		knownCompanyRe.MatchString(text) ||
		properNounRe.MatchString(strings.TrimSpace(text))
}

func isLikelyTitle(text string) bool {
	return titleRoleRe.MatchString(text) || titleDomainRe.MatchString(text)
}

type aiEntry struct {
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrent        bool     `json:"isCurrent"`
	Location         string   `json:"location"`
	Responsibilities []string `json:"responsibilities"`
}

type aiExtractResponse struct {
	Entries []aiEntry `json:"entries"`
}

const extractSystemPrompt = `You are an expert at extracting structured work experience data from resumes.
Extract every job/position mentioned with precise dates, company names, titles, and responsibilities.
Be thorough and accurate. Return valid JSON only.`

const extractUserPromptTemplate = `Extract all work experiences from the following resume text.

RESUME TEXT:
%s

For each job/position, extract:
1. company: Company name
2. title: Job title
3. startDate: Start date in YYYY-MM format
4. endDate: End date in YYYY-MM format, or "Present" if current
5. location: Location if mentioned
6. responsibilities: List of key responsibilities/achievements
7. isCurrent: true if this is the current job`

func (e *Extractor) extractViaAI(ctx context.Context, text string) ([]types.TimelineEntry, error) {
	raw, _, err := e.gen.GenerateJSON(ctx, ai.Request{
		Operation:    "extract_experience",
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   fmt.Sprintf(extractUserPromptTemplate, text),
	})
	if err != nil {
		return nil, err
	}

	var resp aiExtractResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIResponseParse,
			"Failed to parse extraction response", err)
	}

	entries := make([]types.TimelineEntry, 0, len(resp.Entries))
	for _, exp := range resp.Entries {
		start, _ := timeline.Parse(exp.StartDate)
		end, endOpen := timeline.Parse(exp.EndDate)
		isCurrent := exp.IsCurrent || endOpen
		if isCurrent {
			end = timeline.YearMonth{}
		}

		entries = append(entries, types.TimelineEntry{
			Company:          exp.Company,
			Title:            exp.Title,
			Start:            start,
			End:              end,
			IsCurrent:        isCurrent,
			DurationMonths:   e.duration(start, end, isCurrent),
			RawStart:         exp.StartDate,
			Location:         exp.Location,
			Responsibilities: exp.Responsibilities,
		})
	}
	return entries, nil
}
