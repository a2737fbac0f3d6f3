// Package classify implements rule-based categorisation of emails.
//
// The rules are deliberately cheap: keyword matching over subject and body.
// No model calls are made here, so classification works offline and its
// output is fully deterministic.
package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/inboxlab/mailrag/internal/domain/email"
)

// Report is the classification outcome for a single email.
type Report struct {
	ID         string   `json:"id"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Priority   string   `json:"priority"`
	Sentiment  string   `json:"sentiment"`
	IsReply    bool     `json:"is_reply"`
	IsForward  bool     `json:"is_forward"`
	WordCount  int      `json:"word_count"`
}

// Priority levels, ordered by urgency.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

const maxTags = 10

// categoryRule maps a category name to the keywords that trigger it.
// Evaluation order is fixed so category lists are stable across runs.
type categoryRule struct {
	name     string
	keywords []string
}

var categoryRules = []categoryRule{
	{"work", []string{"meeting", "project", "deadline", "task", "report", "presentation", "team", "client"}},
	{"urgent", []string{"urgent", "asap", "immediately", "critical", "emergency", "important", "priority"}},
	{"financial", []string{"invoice", "payment", "bill", "receipt", "transaction", "cost", "budget", "expense"}},
	{"security", []string{"security", "vulnerability", "breach", "alert", "warning", "threat", "patch", "update"}},
	{"social", []string{"invitation", "event", "party", "celebration", "gathering", "meetup"}},
	{"notification", []string{"notification", "alert", "reminder", "update", "status", "confirmation"}},
	{"newsletter", []string{"newsletter", "digest", "weekly", "monthly", "subscription", "unsubscribe"}},
	{"personal", []string{"personal", "private", "family", "friend", "vacation", "holiday"}},
}

var (
	highPriorityWords   = []string{"urgent", "asap", "critical", "emergency", "immediately", "deadline"}
	mediumPriorityWords = []string{"important", "soon", "priority", "attention", "review"}
	lowPriorityWords    = []string{"fyi", "info", "update", "newsletter", "digest"}

	positiveWords = []string{"thank", "great", "excellent", "good", "happy", "pleased", "wonderful", "appreciate"}
	negativeWords = []string{"issue", "problem", "error", "fail", "wrong", "bad", "concern", "unfortunately"}
)

var hashtagRe = regexp.MustCompile(`#(\w+)`)

// Service classifies emails. Stateless and safe for concurrent use.
type Service struct{}

// New creates a classify service.
func New() *Service { return &Service{} }

// Classify produces a report for each email, in input order.
func (s *Service) Classify(emails []email.Email) []Report {
	reports := make([]Report, len(emails))
	for i := range emails {
		reports[i] = s.classifyOne(&emails[i])
	}
	return reports
}

func (s *Service) classifyOne(e *email.Email) Report {
	raw := e.Subject() + " " + e.Body()
	text := strings.ToLower(raw)
	subject := e.Subject()

	return Report{
		ID:         e.ID(),
		Categories: detectCategories(text),
		Tags:       extractTags(raw, text),
		Priority:   calculatePriority(text, subject),
		Sentiment:  detectSentiment(text),
		IsReply:    isReply(subject),
		IsForward:  isForward(subject),
		WordCount:  len(strings.Fields(e.Body())),
	}
}

func detectCategories(text string) []string {
	var detected []string
	for _, rule := range categoryRules {
		if containsAny(text, rule.keywords) {
			detected = append(detected, rule.name)
		}
	}
	if len(detected) == 0 {
		return []string{"general"}
	}
	return detected
}

// extractTags collects hashtags and capitalised words. Dedupes keeping
// first occurrence, sorted, capped at maxTags.
func extractTags(raw, text string) []string {
	seen := make(map[string]struct{})
	var tags []string

	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	// Capitalised words longer than 3 runes usually name projects or products.
	for _, w := range strings.Fields(raw) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(w)) > 3 && isTitleWord(w) {
			add(strings.ToLower(w))
		}
	}

	sort.Strings(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// isTitleWord reports whether w starts with an upper-case letter and has no
// further upper-case letters, e.g. "Redis" but not "ASAP" or "vecDB".
func isTitleWord(w string) bool {
	for i, r := range w {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return w != ""
}

func calculatePriority(text, subject string) string {
	score := 0
	for _, kw := range highPriorityWords {
		if strings.Contains(text, kw) {
			score += 3
		}
	}
	for _, kw := range mediumPriorityWords {
		if strings.Contains(text, kw) {
			score += 2
		}
	}
	for _, kw := range lowPriorityWords {
		if strings.Contains(text, kw) {
			score--
		}
	}
	if len(subject) > 5 && isAllUpper(subject) {
		score += 2
	}
	if strings.Count(text, "!") >= 2 {
		score++
	}

	switch {
	case score >= 5:
		return PriorityHigh
	case score >= 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// isAllUpper reports whether s contains at least one letter and no
// lower-case letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func detectSentiment(text string) string {
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func isReply(subject string) bool {
	return strings.HasPrefix(strings.ToLower(subject), "re:")
}

func isForward(subject string) bool {
	lower := strings.ToLower(subject)
	return strings.HasPrefix(lower, "fwd:") || strings.HasPrefix(lower, "fw:")
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
