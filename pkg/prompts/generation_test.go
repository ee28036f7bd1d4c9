package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feedforge/feedforge-engine/pkg/models"
)

func TestBuildTopicsPrompt_IncludesNewsContext(t *testing.T) {
	prompt := BuildTopicsPrompt(models.TopicsInput{
		Count: 5,
		NewsContext: []models.NewsContextItem{
			{Title: "Model X released", Summary: "A new frontier model", Source: "example.com"},
		},
	})

	assert.Contains(t, prompt, "Suggest 5 LinkedIn post topics")
	assert.Contains(t, prompt, "Model X released")
	assert.Contains(t, prompt, "example.com")
	assert.Contains(t, prompt, `"topics"`)
}

func TestBuildRewritePrompt_PerAction(t *testing.T) {
	for _, action := range []string{
		models.RewriteShorten, models.RewriteExpand, models.RewriteProfessional,
		models.RewriteCasual, models.RewritePunchier,
	} {
		prompt := BuildRewritePrompt(models.RewriteInput{Body: "My post body", Action: action})
		assert.Contains(t, prompt, "My post body", action)
		assert.Contains(t, prompt, `{"body"`, action)
		assert.False(t, strings.HasPrefix(prompt, "\n"), action) // instruction present for every action
	}
}

func TestBuildHashtagsPrompt(t *testing.T) {
	prompt := BuildHashtagsPrompt(models.HashtagsInput{Title: "T", Body: "B"})
	assert.Contains(t, prompt, "Title: T")
	assert.Contains(t, prompt, `"broad"`)
	assert.Contains(t, prompt, `"trending"`)
}
