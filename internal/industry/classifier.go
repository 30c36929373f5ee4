// Package industry classifies companies and job titles into industries
// and seniority levels. Classification is purely lexical: a curated
// company lookup first, then weighted keyword scoring over the combined
// company/title/responsibilities text.
package industry

import (
	"strings"
)

// keywordSet pairs an industry tag with its trigger keywords. Declaration
// order is the tie-break: when two industries score equally, the one
// declared first wins.
type keywordSet struct {
	tag      string
	keywords []string
}

var industryKeywords = []keywordSet{
	{"fintech", []string{
		"bank", "banking", "payment", "payments", "finance", "financial",
		"trading", "investment", "wealth", "insurance", "lending", "credit",
		"crypto", "blockchain", "defi", "fintech", "capital", "securities",
		"brokerage", "hedge fund", "asset management", "treasury", "mortgage",
	}},
	{"healthcare", []string{
		"health", "medical", "hospital", "pharma", "pharmaceutical", "biotech",
		"biotechnology", "clinical", "patient", "healthcare", "life sciences",
		"genomics", "diagnostics", "therapeutic", "wellness", "telemedicine",
		"healthtech", "medtech", "drug", "vaccine", "oncology",
	}},
	{"ecommerce", []string{
		"retail", "commerce", "ecommerce", "e-commerce", "shopping", "marketplace",
		"store", "merchant", "checkout", "cart", "fulfillment", "logistics",
		"delivery", "supply chain", "inventory", "wholesale", "consumer goods",
	}},
	{"saas", []string{
		"software", "cloud", "platform", "subscription", "saas", "b2b",
		"enterprise software", "crm", "erp", "hris", "collaboration",
		"productivity", "workflow", "automation", "integration",
	}},
	{"tech", []string{
		"technology", "tech", "digital", "internet", "web", "mobile",
		"app", "startup", "innovation", "engineering", "developer",
		"computing", "information technology", "it services",
	}},
	{"ai_ml", []string{
		"artificial intelligence", "machine learning", "ai", "ml", "deep learning",
		"neural network", "nlp", "natural language", "computer vision",
		"data science", "predictive", "analytics", "algorithms",
	}},
	{"cybersecurity", []string{
		"security", "cybersecurity", "infosec", "encryption", "firewall",
		"threat", "vulnerability", "penetration", "compliance", "identity",
		"authentication", "authorization", "zero trust",
	}},
	{"gaming", []string{
		"game", "gaming", "esports", "video game", "mobile game",
		"game development", "game studio", "entertainment", "interactive",
	}},
	{"media", []string{
		"media", "entertainment", "streaming", "content", "publishing",
		"news", "broadcast", "television", "film", "music", "podcast",
		"advertising", "adtech", "marketing", "digital media",
	}},
	{"education", []string{
		"education", "edtech", "learning", "school", "university", "college",
		"training", "course", "curriculum", "student", "teacher", "academic",
		"e-learning", "lms", "tutoring",
	}},
	{"real_estate", []string{
		"real estate", "property", "housing", "proptech", "rental",
		"mortgage", "construction", "building", "development", "realty",
		"commercial property", "residential",
	}},
	{"automotive", []string{
		"automotive", "automobile", "car", "vehicle", "electric vehicle", "ev",
		"autonomous", "self-driving", "mobility", "transportation",
		"fleet", "auto", "motor",
	}},
	{"telecom", []string{
		"telecom", "telecommunications", "network", "wireless", "5g",
		"mobile network", "carrier", "broadband", "fiber", "satellite",
	}},
	{"manufacturing", []string{
		"manufacturing", "industrial", "factory", "production", "assembly",
		"supply chain", "logistics", "warehouse", "robotics", "iot",
	}},
	{"energy", []string{
		"energy", "oil", "gas", "renewable", "solar", "wind", "power",
		"utility", "electric", "grid", "clean energy", "sustainability",
	}},
	{"consulting", []string{
		"consulting", "advisory", "strategy", "management consulting",
		"professional services", "business services", "transformation",
	}},
	{"government", []string{
		"government", "federal", "state", "public sector", "defense",
		"military", "civic", "municipal", "agency",
	}},
	{"nonprofit", []string{
		"nonprofit", "non-profit", "ngo", "charity", "foundation",
		"social impact", "humanitarian",
	}},
	{"travel", []string{
		"travel", "hospitality", "hotel", "airline", "tourism",
		"booking", "vacation", "resort", "transportation",
	}},
	{"food", []string{
		"food", "restaurant", "foodtech", "delivery", "catering",
		"beverage", "grocery", "meal", "kitchen",
	}},
}

// companyEntry maps a known company name to its industry. Matching is
// substring in both directions, first declared match wins.
type companyEntry struct {
	name     string
	industry string
}

var companyMap = []companyEntry{
	// Big tech
	{"google", "tech"}, {"alphabet", "tech"}, {"meta", "tech"},
	{"facebook", "tech"}, {"amazon", "ecommerce"}, {"apple", "tech"},
	{"microsoft", "tech"}, {"netflix", "media"}, {"uber", "tech"},
	{"lyft", "tech"}, {"airbnb", "travel"}, {"twitter", "tech"},
	{"x corp", "tech"}, {"linkedin", "tech"}, {"salesforce", "saas"},
	{"oracle", "tech"}, {"ibm", "tech"}, {"intel", "tech"},
	{"nvidia", "tech"}, {"amd", "tech"}, {"cisco", "tech"},
	{"adobe", "saas"}, {"zoom", "saas"}, {"slack", "saas"},
	{"atlassian", "saas"}, {"shopify", "ecommerce"}, {"stripe", "fintech"},
	{"square", "fintech"}, {"block", "fintech"}, {"paypal", "fintech"},
	{"robinhood", "fintech"}, {"coinbase", "fintech"}, {"plaid", "fintech"},
	{"chime", "fintech"}, {"affirm", "fintech"}, {"klarna", "fintech"},
	// Finance
	{"jpmorgan", "fintech"}, {"jp morgan", "fintech"}, {"goldman sachs", "fintech"},
	{"morgan stanley", "fintech"}, {"bank of america", "fintech"},
	{"wells fargo", "fintech"}, {"citibank", "fintech"}, {"citi", "fintech"},
	{"capital one", "fintech"}, {"american express", "fintech"},
	{"amex", "fintech"}, {"visa", "fintech"}, {"mastercard", "fintech"},
	{"blackrock", "fintech"}, {"fidelity", "fintech"}, {"vanguard", "fintech"},
	{"charles schwab", "fintech"},
	// Healthcare
	{"pfizer", "healthcare"}, {"johnson & johnson", "healthcare"},
	{"j&j", "healthcare"}, {"unitedhealth", "healthcare"},
	{"cvs health", "healthcare"}, {"anthem", "healthcare"},
	{"cigna", "healthcare"}, {"humana", "healthcare"},
	{"abbott", "healthcare"}, {"merck", "healthcare"},
	{"moderna", "healthcare"}, {"biontech", "healthcare"},
	// Consulting
	{"mckinsey", "consulting"}, {"boston consulting", "consulting"},
	{"bcg", "consulting"}, {"bain", "consulting"}, {"deloitte", "consulting"},
	{"accenture", "consulting"}, {"kpmg", "consulting"}, {"ey", "consulting"},
	{"ernst & young", "consulting"}, {"pwc", "consulting"},
	// Other
	{"tesla", "automotive"}, {"spacex", "tech"}, {"openai", "ai_ml"},
	{"anthropic", "ai_ml"}, {"deepmind", "ai_ml"}, {"databricks", "ai_ml"},
	{"palantir", "ai_ml"}, {"snowflake", "saas"}, {"datadog", "saas"},
	{"crowdstrike", "cybersecurity"}, {"palo alto networks", "cybersecurity"},
	{"okta", "cybersecurity"}, {"doordash", "food"}, {"instacart", "ecommerce"},
	{"walmart", "ecommerce"}, {"target", "ecommerce"}, {"costco", "ecommerce"},
	{"disney", "media"}, {"warner bros", "media"}, {"spotify", "media"},
	{"tiktok", "media"}, {"bytedance", "tech"},
}

// seniorityLevels, highest first. The scan order doubles as precedence:
// "Senior Director" classifies as director, not senior.
var seniorityLevels = []struct {
	level    string
	keywords []string
}{
	{"executive", []string{"ceo", "cto", "cfo", "coo", "cio", "chief", "president", "vp", "vice president", "evp", "svp"}},
	{"director", []string{"director", "head of", "head", "general manager"}},
	{"staff_principal", []string{"staff", "principal", "distinguished", "fellow", "architect"}},
	{"senior", []string{"senior", "sr.", "sr ", "lead", "tech lead", "team lead"}},
	{"mid", []string{"engineer", "developer", "analyst", "specialist", "associate"}},
	{"junior", []string{"junior", "jr.", "jr ", "entry", "intern", "graduate", "trainee", "apprentice"}},
}

var techIndicators = []string{
	"software", "developer", "engineer", "programmer", "coding",
	"development", "devops", "backend", "frontend", "fullstack",
	"full-stack", "web", "mobile", "data",
}

var displayNames = map[string]string{
	"fintech":       "Fintech",
	"healthcare":    "Healthcare",
	"ecommerce":     "E-commerce",
	"saas":          "SaaS",
	"tech":          "Technology",
	"ai_ml":         "AI/ML",
	"cybersecurity": "Cybersecurity",
	"gaming":        "Gaming",
	"media":         "Media & Entertainment",
	"education":     "Education",
	"real_estate":   "Real Estate",
	"automotive":    "Automotive",
	"telecom":       "Telecommunications",
	"manufacturing": "Manufacturing",
	"energy":        "Energy",
	"consulting":    "Consulting",
	"government":    "Government",
	"nonprofit":     "Nonprofit",
	"travel":        "Travel & Hospitality",
	"food":          "Food & Beverage",
	"other":         "Other",
}

// Classify maps a position to an industry tag. Company lookup wins over
// keyword scoring; keyword hits weigh 3 in the company name, 2 in the
// title and 1 in the responsibilities text. With no hits at all, roles
// that look software-related default to "tech", otherwise "other".
func Classify(company, title, responsibilities string) string {
	companyLower := strings.ToLower(strings.TrimSpace(company))

	if companyLower != "" {
		for _, entry := range companyMap {
			if strings.Contains(companyLower, entry.name) || strings.Contains(entry.name, companyLower) {
				return entry.industry
			}
		}
	}

	titleLower := strings.ToLower(title)
	combined := strings.ToLower(company + " " + title + " " + responsibilities)

	bestTag := ""
	bestScore := 0
	for _, set := range industryKeywords {
		score := 0
		for _, kw := range set.keywords {
			if !strings.Contains(combined, kw) {
				continue
			}
			switch {
			case strings.Contains(companyLower, kw):
				score += 3
			case strings.Contains(titleLower, kw):
				score += 2
			default:
				score++
			}
		}
		if score > bestScore {
			bestTag, bestScore = set.tag, score
		}
	}
	if bestTag != "" {
		return bestTag
	}

	for _, indicator := range techIndicators {
		if strings.Contains(combined, indicator) {
			return "tech"
		}
	}
	return "other"
}

// ClassifySeniority buckets a job title, scanning levels highest first.
// Titles matching nothing default to "mid".
func ClassifySeniority(title string) string {
	titleLower := strings.ToLower(title)
	for _, lvl := range seniorityLevels {
		for _, kw := range lvl.keywords {
			if strings.Contains(titleLower, kw) {
				return lvl.level
			}
		}
	}
	return "mid"
}

// DisplayName renders an industry tag for humans. Unknown tags get a
// title-cased, underscore-stripped rendition.
func DisplayName(tag string) string {
	if name, ok := displayNames[tag]; ok {
		return name
	}
	words := strings.Split(strings.ReplaceAll(tag, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
