package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentscope/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CareerReport", &CareerReportTextFormatter{})
	registry.RegisterFormatter("markdown", "CareerReport", &CareerReportMarkdownFormatter{})
	registry.RegisterFormatter("text", "QuestionPlan", &QuestionPlanTextFormatter{})
	registry.RegisterFormatter("markdown", "QuestionPlan", &QuestionPlanMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CareerReport:
		return "CareerReport"
	case types.QuestionPlan:
		return "QuestionPlan"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func entryDates(e types.TimelineEntry) string {
	if e.IsCurrent {
		return fmt.Sprintf("%s - Present", e.Start)
	}
	return fmt.Sprintf("%s - %s", e.Start, e.End)
}

// CareerReportTextFormatter handles text formatting for career analysis results
type CareerReportTextFormatter struct{}

func (crf *CareerReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.CareerReport)
	if !ok {
		return "", fmt.Errorf("expected CareerReport, got %T", data)
	}
	insights := report.Insights

	var output strings.Builder

	output.WriteString("=== CAREER TIMELINE ===\n\n")
	if len(report.Entries) == 0 {
		output.WriteString("No work experience could be extracted.\n\n")
	}
	for i, entry := range report.Entries {
		output.WriteString(fmt.Sprintf("%d. %s at %s\n", i+1, entry.Title, entry.Company))
		output.WriteString(fmt.Sprintf("   %s (%d months)\n", entryDates(entry), entry.DurationMonths))
		if entry.Industry != "" {
			output.WriteString(fmt.Sprintf("   Industry: %s\n", entry.Industry))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== CAREER ANALYTICS ===\n")
	output.WriteString(fmt.Sprintf("Total experience: %.1f years\n", insights.TotalExperienceYears))
	output.WriteString(fmt.Sprintf("Average tenure: %.1f months\n", insights.AverageTenureMonths))
	output.WriteString(fmt.Sprintf("Job hopping risk: %s\n", insights.JobHoppingRisk))
	output.WriteString(fmt.Sprintf("Trajectory: %s\n", insights.Trajectory))
	if insights.PrimaryIndustry != "" {
		output.WriteString(fmt.Sprintf("Primary industry: %s (%.0f%%)\n",
			insights.PrimaryIndustry, insights.PrimaryIndustryPercentage))
	}
	output.WriteString("\n")

	if len(insights.Gaps) > 0 {
		output.WriteString("=== EMPLOYMENT GAPS ===\n")
		for _, gap := range insights.Gaps {
			output.WriteString(fmt.Sprintf("- %d months between %s and %s (%s)\n",
				gap.DurationMonths, gap.AfterCompany, gap.BeforeCompany, gap.Severity))
		}
		output.WriteString("\n")
	}

	if len(insights.IndustryTransitions) > 0 {
		output.WriteString("=== INDUSTRY TRANSITIONS ===\n")
		for _, tr := range insights.IndustryTransitions {
			output.WriteString(fmt.Sprintf("- %s -> %s (%s to %s)\n",
				tr.FromIndustry, tr.ToIndustry, tr.FromCompany, tr.ToCompany))
		}
		output.WriteString("\n")
	}

	if len(insights.RedFlags) > 0 {
		output.WriteString("=== RED FLAGS ===\n")
		for i, flag := range insights.RedFlags {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, flag.Severity, flag.Description))
		}
		output.WriteString("\n")
	}

	if len(insights.AuthenticityConcerns) > 0 {
		output.WriteString("=== AUTHENTICITY CONCERNS ===\n")
		for _, concern := range insights.AuthenticityConcerns {
			output.WriteString(fmt.Sprintf("- %s\n", concern))
		}
		output.WriteString("\n")
	}

	if len(insights.DateOverlaps) > 0 {
		output.WriteString("=== OVERLAPPING POSITIONS ===\n")
		for _, overlap := range insights.DateOverlaps {
			output.WriteString(fmt.Sprintf("- %s and %s overlap for %d months\n",
				overlap.Company1, overlap.Company2, overlap.DurationMonths))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (crf *CareerReportTextFormatter) SupportedType() string {
	return "CareerReport"
}

// CareerReportMarkdownFormatter handles markdown formatting for career analysis results
type CareerReportMarkdownFormatter struct{}

func (crm *CareerReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.CareerReport)
	if !ok {
		return "", fmt.Errorf("expected CareerReport, got %T", data)
	}
	insights := report.Insights

	var output strings.Builder

	output.WriteString("# Career Analysis\n\n")

	output.WriteString("## Timeline\n\n")
	if len(report.Entries) == 0 {
		output.WriteString("No work experience could be extracted.\n\n")
	}
	for _, entry := range report.Entries {
		output.WriteString(fmt.Sprintf("- **%s** at %s — %s (%d months)\n",
			entry.Title, entry.Company, entryDates(entry), entry.DurationMonths))
	}
	output.WriteString("\n")

	output.WriteString("## Analytics\n\n")
	output.WriteString(fmt.Sprintf("- **Total experience:** %.1f years\n", insights.TotalExperienceYears))
	output.WriteString(fmt.Sprintf("- **Average tenure:** %.1f months\n", insights.AverageTenureMonths))
	output.WriteString(fmt.Sprintf("- **Job hopping risk:** %s\n", insights.JobHoppingRisk))
	output.WriteString(fmt.Sprintf("- **Trajectory:** %s\n", insights.Trajectory))
	if insights.PrimaryIndustry != "" {
		output.WriteString(fmt.Sprintf("- **Primary industry:** %s (%.0f%%)\n",
			insights.PrimaryIndustry, insights.PrimaryIndustryPercentage))
	}
	output.WriteString("\n")

	if len(insights.Gaps) > 0 {
		output.WriteString("## Employment Gaps\n\n")
		for _, gap := range insights.Gaps {
			output.WriteString(fmt.Sprintf("- %d months between %s and %s (*%s*)\n",
				gap.DurationMonths, gap.AfterCompany, gap.BeforeCompany, gap.Severity))
		}
		output.WriteString("\n")
	}

	if len(insights.RedFlags) > 0 {
		output.WriteString("## Red Flags\n\n")
		for i, flag := range insights.RedFlags {
			output.WriteString(fmt.Sprintf("%d. **%s** — %s\n", i+1, flag.Severity, flag.Description))
		}
		output.WriteString("\n")
	}

	if len(insights.AuthenticityConcerns) > 0 {
		output.WriteString("## Authenticity Concerns\n\n")
		for _, concern := range insights.AuthenticityConcerns {
			output.WriteString(fmt.Sprintf("- %s\n", concern))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (crm *CareerReportMarkdownFormatter) SupportedType() string {
	return "CareerReport"
}

// QuestionPlanTextFormatter handles text formatting for generated questions
type QuestionPlanTextFormatter struct{}

func (qpf *QuestionPlanTextFormatter) Format(data any) (string, error) {
	plan, ok := data.(types.QuestionPlan)
	if !ok {
		return "", fmt.Errorf("expected QuestionPlan, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW QUESTIONS ===\n\n")
	output.WriteString(fmt.Sprintf("Based on %d extracted positions.\n\n", plan.ExperienceCount))

	if len(plan.Questions) == 0 {
		output.WriteString("No targeted questions could be generated.\n")
		return output.String(), nil
	}

	for i, q := range plan.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("   Category: %s | Priority: %s\n", q.Category, q.Priority))
		if q.Context != "" {
			output.WriteString(fmt.Sprintf("   Context: %s\n", q.Context))
		}
		for _, fu := range q.FollowUps {
			output.WriteString(fmt.Sprintf("   Follow-up: %s\n", fu))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (qpf *QuestionPlanTextFormatter) SupportedType() string {
	return "QuestionPlan"
}

// QuestionPlanMarkdownFormatter handles markdown formatting for generated questions
type QuestionPlanMarkdownFormatter struct{}

func (qpm *QuestionPlanMarkdownFormatter) Format(data any) (string, error) {
	plan, ok := data.(types.QuestionPlan)
	if !ok {
		return "", fmt.Errorf("expected QuestionPlan, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Questions\n\n")
	output.WriteString(fmt.Sprintf("Based on %d extracted positions.\n\n", plan.ExperienceCount))

	for i, q := range plan.Questions {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("**Category:** %s | **Priority:** %s\n\n", q.Category, q.Priority))
		if q.Context != "" {
			output.WriteString(fmt.Sprintf("**Context:** %s\n\n", q.Context))
		}
		if len(q.FollowUps) > 0 {
			output.WriteString("Follow-ups:\n\n")
			for _, fu := range q.FollowUps {
				output.WriteString(fmt.Sprintf("- %s\n", fu))
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (qpm *QuestionPlanMarkdownFormatter) SupportedType() string {
	return "QuestionPlan"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
