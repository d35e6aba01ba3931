package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/modsentry/modsentry/backend/internal/logger"
	"github.com/modsentry/modsentry/backend/internal/metrics"
	"github.com/modsentry/modsentry/backend/internal/models"
)

// Message is one inbound message to evaluate. Text takes precedence over
// Content as the evaluated body.
type Message struct {
	Text      string `json:"text,omitempty"`
	Content   string `json:"content,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Body returns the evaluated text of the message.
func (m Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Content
}

// RuleEvaluation is the outcome of testing one message against one rule.
type RuleEvaluation struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	RuleType string `json:"rule_type"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Matched  bool   `json:"matched"`
	Error    string `json:"error,omitempty"`
}

// EvaluationReport aggregates the per-rule outcomes for one message.
type EvaluationReport struct {
	FinalAction     string           `json:"final_action"`
	RuleEvaluations []RuleEvaluation `json:"rule_evaluations"`
	BlockingRules   []RuleEvaluation `json:"blocking_rules"`
}

// urlRegex extracts candidate URLs: a scheme prefix up to the next whitespace,
// with no further validation.
var urlRegex = regexp.MustCompile(`https?://\S+`)

// EvaluationService runs a user's active rules against inbound messages.
type EvaluationService struct {
	rules    *RuleService
	notifier *NotificationService
}

// NewEvaluationService wires the coordinator. notifier may be nil.
func NewEvaluationService(rules *RuleService, notifier *NotificationService) *EvaluationService {
	return &EvaluationService{rules: rules, notifier: notifier}
}

// EvaluateMessage fetches the owner's active rules and evaluates every one of
// them, in priority order, with no early exit: the caller always receives a
// complete per-rule report. final_action is block iff at least one matched
// rule requested block.
func (s *EvaluationService) EvaluateMessage(ownerID string, msg Message) (*EvaluationReport, error) {
	rules, err := s.rules.ListActive(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}

	report := &EvaluationReport{
		FinalAction:     models.ActionAllow,
		RuleEvaluations: []RuleEvaluation{},
		BlockingRules:   []RuleEvaluation{},
	}

	var blockedBy []models.Rule
	for _, rule := range rules {
		ev := EvaluateRule(rule, msg)
		report.RuleEvaluations = append(report.RuleEvaluations, ev)
		if ev.Matched && ev.Action == models.ActionBlock {
			report.BlockingRules = append(report.BlockingRules, ev)
			blockedBy = append(blockedBy, rule)
		}
	}

	if len(report.BlockingRules) > 0 {
		report.FinalAction = models.ActionBlock
	}

	metrics.IncEvaluation()
	metrics.AddRulesEvaluated(len(rules))
	if report.FinalAction == models.ActionBlock {
		metrics.IncBlocked()
		if s.notifier != nil {
			s.notifier.NotifyBlocked(ownerID, blockedBy)
		}
	}

	return report, nil
}

// EvaluateRule tests one message against one rule. It is a pure function of
// (rule, message) and never raises: any fault is downgraded to a safe allow so
// a single malformed rule degrades instead of blocking the pipeline.
func EvaluateRule(rule models.Rule, msg Message) (ev RuleEvaluation) {
	ev = RuleEvaluation{
		RuleID:   rule.UUID,
		RuleName: rule.Name,
		RuleType: rule.RuleType,
		Action:   models.ActionAllow,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(map[string]interface{}{
				"rule_id":   rule.UUID,
				"rule_type": rule.RuleType,
			}).Warnf("rule evaluation panic: %v", r)
			ev.Action = models.ActionAllow
			ev.Matched = false
			ev.Reason = "evaluation error"
			ev.Error = fmt.Sprint(r)
		}
	}()

	var err error
	switch rule.RuleType {
	case models.RuleTypeKeywordFilter:
		err = evaluateKeywordFilter(rule, msg.Body(), &ev)
	case models.RuleTypeURLFilter:
		err = evaluateURLFilter(rule, msg.Body(), &ev)
	case models.RuleTypeContentFilter:
		err = evaluateContentFilter(rule, msg.Body(), &ev)
	default:
		ev.Reason = "unknown rule type"
	}

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"rule_id":   rule.UUID,
			"rule_type": rule.RuleType,
		}).WithError(err).Warn("rule evaluation failed")
		ev.Action = models.ActionAllow
		ev.Matched = false
		ev.Reason = "evaluation error"
		ev.Error = err.Error()
	}

	return ev
}

// evaluateKeywordFilter sums case-insensitive occurrences of every keyword in
// the text and matches once the total reaches max_occurrences.
func evaluateKeywordFilter(rule models.Rule, text string, ev *RuleEvaluation) error {
	cfg, err := rule.KeywordConfig()
	if err != nil {
		return fmt.Errorf("decode keyword_filter config: %w", err)
	}

	lower := strings.ToLower(text)
	total := 0
	var hits []string
	for _, kw := range cfg.Keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		if n := strings.Count(lower, needle); n > 0 {
			total += n
			hits = append(hits, kw)
		}
	}

	if total >= cfg.MaxOccurrences {
		ev.Action = cfg.Action
		ev.Matched = true
		ev.Reason = fmt.Sprintf("matched keywords [%s], %d occurrences", strings.Join(hits, ", "), total)
		return nil
	}

	ev.Reason = fmt.Sprintf("%d keyword occurrences below threshold %d", total, cfg.MaxOccurrences)
	return nil
}

// evaluateURLFilter extracts http(s) URLs and walks them in order. For each
// URL the domain allow-list is checked first: the first URL whose host
// contains a listed domain decides the whole rule as allow, even if a later
// URL would have matched a pattern. Otherwise the first pattern match decides
// as the configured action.
func evaluateURLFilter(rule models.Rule, text string, ev *RuleEvaluation) error {
	cfg, err := rule.URLConfig()
	if err != nil {
		return fmt.Errorf("decode url_filter config: %w", err)
	}

	urls := urlRegex.FindAllString(text, -1)
	if len(urls) == 0 {
		ev.Reason = "no urls found"
		return nil
	}

	var patterns []*regexp.Regexp
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("compile url pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	for _, raw := range urls {
		host := hostOf(raw)
		if len(cfg.Domains) > 0 {
			for _, domain := range cfg.Domains {
				d := strings.ToLower(strings.TrimSpace(domain))
				if d != "" && strings.Contains(host, d) {
					ev.Reason = fmt.Sprintf("url %s allowed by domain %s", raw, domain)
					return nil
				}
			}
		}
		for i, re := range patterns {
			if re.MatchString(raw) {
				ev.Action = cfg.Action
				ev.Matched = true
				ev.Reason = fmt.Sprintf("url %s matched pattern %s", raw, cfg.Patterns[i])
				return nil
			}
		}
	}

	ev.Reason = "no url rules matched"
	return nil
}

// evaluateContentFilter walks the configured filters in order; the first
// matching filter decides.
func evaluateContentFilter(rule models.Rule, text string, ev *RuleEvaluation) error {
	cfg, err := rule.ContentConfig()
	if err != nil {
		return fmt.Errorf("decode content_filter config: %w", err)
	}

	for _, f := range cfg.Filters {
		switch f.Type {
		case "regex":
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return fmt.Errorf("compile content pattern %q: %w", f.Pattern, err)
			}
			if re.MatchString(text) {
				ev.Action = cfg.Action
				ev.Matched = true
				ev.Reason = fmt.Sprintf("content matched pattern %s", f.Pattern)
				return nil
			}
		case "length":
			if len(text) > f.MaxLength {
				ev.Action = cfg.Action
				ev.Matched = true
				ev.Reason = fmt.Sprintf("content length %d exceeds limit %d", len(text), f.MaxLength)
				return nil
			}
		}
	}

	ev.Reason = "no content filters matched"
	return nil
}

// hostOf extracts the lowercased host portion of an extracted URL, falling
// back to manual slicing when parsing fails.
func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.IndexAny(trimmed, "/?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToLower(trimmed)
}
