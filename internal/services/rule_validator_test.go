package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func input(ruleType, name, config string) RuleInput {
	return RuleInput{
		RuleType:   ruleType,
		RuleName:   name,
		RuleConfig: json.RawMessage(config),
		UserID:     "user-1",
	}
}

func TestValidateRule_GenericChecks(t *testing.T) {
	t.Run("missing rule_type", func(t *testing.T) {
		res := ValidateRule(input("", "My Rule", `{"keywords":["spam"]}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "rule_type")
	})

	t.Run("missing rule_name", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "", `{"keywords":["spam"]}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "rule_name")
	})

	t.Run("missing rule_config", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", ""))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "rule_config")
	})

	t.Run("priority out of bounds", func(t *testing.T) {
		in := input("keyword_filter", "My Rule", `{"keywords":["spam"]}`)
		p := 11
		in.Priority = &p
		res := ValidateRule(in)
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "priority")
	})

	t.Run("valid keyword rule", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", `{"keywords":["spam"]}`))
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})
}

func TestValidateRule_KeywordFilter(t *testing.T) {
	t.Run("keywords absent", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", `{"action":"block"}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "keywords")
	})

	t.Run("keywords not a sequence", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", `{"keywords":"spam"}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "keywords")
	})

	t.Run("keywords empty sequence", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", `{"keywords":[]}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "keywords")
	})

	t.Run("blank keyword entry", func(t *testing.T) {
		res := ValidateRule(input("keyword_filter", "My Rule", `{"keywords":["spam",""]}`))
		assert.False(t, res.Valid)
	})
}

func TestValidateRule_URLFilter(t *testing.T) {
	t.Run("neither domains nor patterns", func(t *testing.T) {
		res := ValidateRule(input("url_filter", "My Rule", `{"action":"block"}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "domains or patterns")
	})

	t.Run("domains only", func(t *testing.T) {
		res := ValidateRule(input("url_filter", "My Rule", `{"domains":["trusted.com"]}`))
		assert.True(t, res.Valid)
	})

	t.Run("patterns only", func(t *testing.T) {
		res := ValidateRule(input("url_filter", "My Rule", `{"patterns":["bit\\.ly"]}`))
		assert.True(t, res.Valid)
	})
}

func TestValidateRule_ContentFilter(t *testing.T) {
	t.Run("filters absent", func(t *testing.T) {
		res := ValidateRule(input("content_filter", "My Rule", `{"action":"block"}`))
		assert.False(t, res.Valid)
		assert.Contains(t, strings.Join(res.Errors, " "), "filters")
	})

	t.Run("filter entry without type", func(t *testing.T) {
		res := ValidateRule(input("content_filter", "My Rule", `{"filters":[{"pattern":"x"}]}`))
		assert.False(t, res.Valid)
	})

	t.Run("regex filter without pattern", func(t *testing.T) {
		res := ValidateRule(input("content_filter", "My Rule", `{"filters":[{"type":"regex"}]}`))
		assert.False(t, res.Valid)
	})

	t.Run("valid filters", func(t *testing.T) {
		res := ValidateRule(input("content_filter", "My Rule",
			`{"filters":[{"type":"regex","pattern":"badword"},{"type":"length","max_length":100}]}`))
		assert.True(t, res.Valid)
	})
}

func TestValidateRule_UnknownType(t *testing.T) {
	// Unknown rule types pass the generic checks and get no type-specific
	// validation.
	res := ValidateRule(input("sentiment_filter", "My Rule", `{"threshold":0.5}`))
	assert.True(t, res.Valid)
}
