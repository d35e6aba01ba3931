package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modsentry/modsentry/backend/internal/models"
)

func newTemplateService(t *testing.T) (*TemplateService, *RuleService) {
	t.Helper()
	ruleService, _, db := newRuleService(t)
	return NewTemplateService(db, ruleService), ruleService
}

func publicTemplate(name, config string) *models.RuleTemplate {
	return &models.RuleTemplate{
		Name:      name,
		Category:  "content",
		Config:    config,
		IsPublic:  true,
		CreatedBy: "system",
	}
}

func TestTemplateService_CreateOrUpdate(t *testing.T) {
	service, _ := newTemplateService(t)

	t.Run("create assigns uuid", func(t *testing.T) {
		tmpl := publicTemplate("Profanity", `{"rule_type":"keyword_filter","keywords":["damn"]}`)
		require.NoError(t, service.CreateOrUpdate(tmpl))
		assert.NotEmpty(t, tmpl.UUID)
	})

	t.Run("idempotent on name", func(t *testing.T) {
		again := publicTemplate("Profanity", `{"rule_type":"keyword_filter","keywords":["darn"]}`)
		require.NoError(t, service.CreateOrUpdate(again))

		list, err := service.List()
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Contains(t, list[0].Config, "darn")
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		tmpl := publicTemplate("Bad", `not json`)
		assert.Error(t, service.CreateOrUpdate(tmpl))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		tmpl := publicTemplate("", `{}`)
		assert.Error(t, service.CreateOrUpdate(tmpl))
	})
}

func TestTemplateService_List_Ordering(t *testing.T) {
	service, _ := newTemplateService(t)

	a := publicTemplate("Zebra", `{"rule_type":"keyword_filter","keywords":["z"]}`)
	a.Category = "links"
	b := publicTemplate("Alpha", `{"rule_type":"keyword_filter","keywords":["a"]}`)
	b.Category = "content"
	c := publicTemplate("Beta", `{"rule_type":"keyword_filter","keywords":["b"]}`)
	c.Category = "content"
	private := publicTemplate("Hidden", `{"rule_type":"keyword_filter","keywords":["h"]}`)
	private.IsPublic = false

	for _, tmpl := range []*models.RuleTemplate{a, b, c, private} {
		require.NoError(t, service.CreateOrUpdate(tmpl))
	}

	list, err := service.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Beta", list[1].Name)
	assert.Equal(t, "Zebra", list[2].Name)
}

func TestTemplateService_Materialize(t *testing.T) {
	service, rules := newTemplateService(t)

	tmpl := publicTemplate("Keyword Base",
		`{"rule_type":"keyword_filter","keywords":["spam"],"action":"allow"}`)
	tmpl.Description = "base description"
	require.NoError(t, service.CreateOrUpdate(tmpl))

	t.Run("customizations override template config", func(t *testing.T) {
		rule, err := service.Materialize(tmpl.UUID, "alice", map[string]interface{}{
			"action": "block",
		}, RequestMeta{})
		require.NoError(t, err)

		assert.Equal(t, models.RuleTypeKeywordFilter, rule.RuleType)
		assert.Equal(t, "alice", rule.OwnerUserID)
		assert.Equal(t, "Keyword Base", rule.Name)
		assert.Equal(t, "base description", rule.Description)

		cfg, err := rule.KeywordConfig()
		require.NoError(t, err)
		assert.Equal(t, models.ActionBlock, cfg.Action)
		assert.Equal(t, []string{"spam"}, cfg.Keywords)

		// Persisted through the normal create path.
		stored, err := rules.GetByUUID(rule.UUID, "alice")
		require.NoError(t, err)
		assert.NotContains(t, stored.Config, "rule_type")
	})

	t.Run("name, description and priority customizations", func(t *testing.T) {
		rule, err := service.Materialize(tmpl.UUID, "alice", map[string]interface{}{
			"rule_name":        "My Copy",
			"rule_description": "customized",
			"priority":         float64(7),
		}, RequestMeta{})
		require.NoError(t, err)
		assert.Equal(t, "My Copy", rule.Name)
		assert.Equal(t, "customized", rule.Description)
		assert.Equal(t, 7, rule.Priority)
	})

	t.Run("unknown template id", func(t *testing.T) {
		_, err := service.Materialize("no-such-template", "alice", nil, RequestMeta{})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("private template is not materializable", func(t *testing.T) {
		private := publicTemplate("Private Base", `{"rule_type":"keyword_filter","keywords":["x"]}`)
		private.IsPublic = false
		require.NoError(t, service.CreateOrUpdate(private))

		_, err := service.Materialize(private.UUID, "alice", nil, RequestMeta{})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("template without embedded type defaults to custom", func(t *testing.T) {
		untyped := publicTemplate("Untyped", `{"threshold":0.5}`)
		require.NoError(t, service.CreateOrUpdate(untyped))

		rule, err := service.Materialize(untyped.UUID, "alice", nil, RequestMeta{})
		require.NoError(t, err)
		assert.Equal(t, models.RuleTypeCustom, rule.RuleType)
	})

	t.Run("invalid merged config is rejected by validation", func(t *testing.T) {
		bad := publicTemplate("Bad Keywords", `{"rule_type":"keyword_filter","keywords":[]}`)
		require.NoError(t, service.CreateOrUpdate(bad))

		_, err := service.Materialize(bad.UUID, "alice", nil, RequestMeta{})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
