package questions

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"talentscope/internal/errors"
)

// Template is one question template. Placeholders use {name} tokens and
// are filled per category ({duration}, {company1}, {period}, ...).
type Template struct {
	Text      string   `json:"text"`
	FollowUps []string `json:"followUps"`
}

// TemplateSet holds the template pools per question category.
type TemplateSet struct {
	Gap        []Template `json:"gap"`
	JobChange  []Template `json:"jobChange"`
	Industry   []Template `json:"industry"`
	Depth      []Template `json:"depth"`
	RedFlag    []Template `json:"redFlag"`
	Trajectory []Template `json:"trajectory"`
}

func fill(text string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func defaultTemplates() TemplateSet {
	return TemplateSet{
		Gap: []Template{
			{
				Text: "I noticed a {duration}-month gap between {company1} and {company2} ({period}). What were you doing during this time?",
				FollowUps: []string{
					"Were you actively job searching during this period?",
					"Did you pursue any professional development or learning?",
					"What made you decide to re-enter the workforce when you did?",
				},
			},
			{
				Text: "Can you walk me through the transition period from {company1} to {company2}?",
				FollowUps: []string{
					"What prompted you to leave {company1}?",
					"How did you spend the time between roles?",
					"What were you looking for in your next opportunity?",
				},
			},
			{
				Text: "There's a {duration}-month gap in your work history around {period}. Could you explain what happened?",
				FollowUps: []string{
					"Did you consider different career paths during this time?",
					"What skills or experiences did you gain during this period?",
					"How did this gap impact your career perspective?",
				},
			},
		},
		JobChange: []Template{
			{
				Text: "You've had {count} roles in {years} years. What's driving these transitions?",
				FollowUps: []string{
					"What are you looking for that you haven't found yet?",
					"How would you describe your ideal work environment?",
					"What would make you stay at a company long-term?",
				},
			},
			{
				Text: "What made you leave {company} after only {months} months?",
				FollowUps: []string{
					"Was this your decision or was there a layoff/restructuring?",
					"What did you learn from this experience?",
					"How do you evaluate opportunities differently now?",
				},
			},
			{
				Text: "I see several short tenures on your resume. What are you looking for in your next role that would make you stay longer?",
				FollowUps: []string{
					"What factors typically lead to your decision to leave a role?",
					"How do you approach evaluating company culture before joining?",
					"What's the longest you've stayed at a company and why?",
				},
			},
			{
				Text: "Your average tenure is about {tenure} months. How do you see yourself committing to a longer-term role?",
				FollowUps: []string{
					"What would you need from an employer to stay for 3+ years?",
					"How do you balance career growth with stability?",
					"What's changed in your career priorities over time?",
				},
			},
		},
		Industry: []Template{
			{
				Text: "You've worked across {industries}. What drew you from {industry1} to {industry2}?",
				FollowUps: []string{
					"Which industry did you find most fulfilling?",
					"How do these varied experiences give you a unique perspective?",
					"Are you looking to specialize now or continue exploring?",
				},
			},
			{
				Text: "How do you see your {industry1} experience applying to this {industry2} role?",
				FollowUps: []string{
					"What transferable skills are most relevant?",
					"What's the biggest adjustment you'd need to make?",
					"How quickly can you get up to speed on industry-specific knowledge?",
				},
			},
			{
				Text: "Your background spans {count} different industries. What's connecting these experiences for you?",
				FollowUps: []string{
					"Is there a common thread in the problems you enjoy solving?",
					"How do you adapt to new industry contexts quickly?",
					"What industry would you most like to work in long-term?",
				},
			},
		},
		Depth: []Template{
			{
				Text: "You mention {skill} at {company}. Can you describe a specific project where you used it?",
				FollowUps: []string{
					"What was your specific contribution?",
					"What challenges did you face?",
					"What was the outcome or impact?",
				},
			},
			{
				Text: "Tell me about the work behind {skill} at {company}. How did you approach it?",
				FollowUps: []string{
					"What trade-offs did you have to make?",
					"Who else was involved and what was your part?",
					"What would you do differently today?",
				},
			},
		},
		RedFlag: []Template{
			{
				Text: "Your resume shows overlapping dates at {company1} and {company2}. Can you clarify this timeline?",
				FollowUps: []string{
					"Were these concurrent positions?",
					"Was one a part-time or contract role?",
					"How did you manage responsibilities at both?",
				},
			},
			{
				Text: "You list {skill} as a key skill, but I don't see many projects using it. Can you elaborate on your experience?",
				FollowUps: []string{
					"What level of proficiency would you say you have?",
					"When did you last use this in a professional setting?",
					"What would you need to get up to speed on the latest developments?",
				},
			},
			{
				Text: "Your most recent role at {company} was quite short ({duration} months). What happened?",
				FollowUps: []string{
					"Was this expected when you joined?",
					"What did you accomplish in this time?",
					"What would you have done differently?",
				},
			},
		},
		Trajectory: []Template{
			{
				Text: "I see you moved from {fromTitle} to {toTitle}. That seems like a {changeType}. Can you tell me about that decision?",
				FollowUps: []string{
					"What motivated this change?",
					"How did this affect your career goals?",
					"What did you gain or sacrifice in making this move?",
				},
			},
			{
				Text: "Your career shows a {trajectory} trajectory. Where do you see yourself in 5 years?",
				FollowUps: []string{
					"What's the next step you're aiming for?",
					"What skills do you need to develop?",
					"How does this role fit into your plan?",
				},
			},
		},
	}
}

// Loader serves the active template set and optionally hot-reloads it
// from a JSON file when the file changes on disk. Categories missing
// from the file keep their built-in pools.
type Loader struct {
	mu     sync.RWMutex
	active TemplateSet
	path   string
	logger *errors.Logger
}

// NewLoader returns a loader serving the built-in templates. If path is
// non-empty the file is loaded immediately; a load failure falls back to
// the built-ins and is logged by the caller via the returned error.
func NewLoader(path string, logger *errors.Logger) (*Loader, error) {
	l := &Loader{active: defaultTemplates(), path: path, logger: logger}
	if path == "" {
		return l, nil
	}
	if err := l.reload(); err != nil {
		return l, err
	}
	return l, nil
}

// Templates returns the active set. The returned value is a copy of the
// struct; callers must not mutate the shared pool slices.
func (l *Loader) Templates() TemplateSet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

func (l *Loader) reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read question templates", err).
			WithContext("path", l.path)
	}

	var override TemplateSet
	if err := json.Unmarshal(data, &override); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "invalid question template file", err).
			WithContext("path", l.path)
	}

	merged := defaultTemplates()
	if len(override.Gap) > 0 {
		merged.Gap = override.Gap
	}
	if len(override.JobChange) > 0 {
		merged.JobChange = override.JobChange
	}
	if len(override.Industry) > 0 {
		merged.Industry = override.Industry
	}
	if len(override.Depth) > 0 {
		merged.Depth = override.Depth
	}
	if len(override.RedFlag) > 0 {
		merged.RedFlag = override.RedFlag
	}
	if len(override.Trajectory) > 0 {
		merged.Trajectory = override.Trajectory
	}

	l.mu.Lock()
	l.active = merged
	l.mu.Unlock()
	return nil
}

// Watch reloads the template file whenever it changes. It blocks until
// stop is closed and is intended to run in its own goroutine. A loader
// without a path returns immediately.
func (l *Loader) Watch(stop <-chan struct{}) error {
	if l.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewInternalError("WATCHER_INIT_FAILED", "failed to create template watcher", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.path); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound, "failed to watch template file", err).
			WithContext("path", l.path)
	}

	l.logger.Info("watching question template file", "path", l.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.reload(); err != nil {
				l.logger.LogError(err, "template reload failed, keeping previous set")
				continue
			}
			l.logger.Info("question templates reloaded", "path", l.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.LogError(err, "template watcher error")
		case <-stop:
			return nil
		}
	}
}
