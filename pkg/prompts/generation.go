// Package prompts builds the system and user prompts for each generation
// type. Prompt wording is tuned for JSON-mode responses; every builder
// states the exact response shape so parsing stays mechanical.
package prompts

import (
	"fmt"
	"strings"

	"github.com/feedforge/feedforge-engine/pkg/models"
)

// TopicsSystemPrompt frames the model as a content strategist.
const TopicsSystemPrompt = `You are a content strategist for a professional audience on LinkedIn.
You turn AI-industry news into concrete post ideas. Respond with JSON only.`

// BuildTopicsPrompt creates the user prompt for topic research.
func BuildTopicsPrompt(in models.TopicsInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Suggest %d LinkedIn post topics about current AI developments.\n\n", in.Count)

	if len(in.NewsContext) > 0 {
		b.WriteString("Base the ideas on this researched news:\n\n")
		for _, item := range in.NewsContext {
			fmt.Fprintf(&b, "- %s", item.Title)
			if item.Source != "" {
				fmt.Fprintf(&b, " (%s)", item.Source)
			}
			b.WriteString("\n")
			if item.Summary != "" {
				fmt.Fprintf(&b, "  %s\n", item.Summary)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(`Respond with a JSON object:
{"topics": [{"title": "...", "hook": "one attention-grabbing opening line", "rationale": "why this resonates now", "tags": ["..."]}]}`)

	return b.String()
}

// DraftSystemPrompt frames the model as a ghostwriter.
const DraftSystemPrompt = `You are a ghostwriter for LinkedIn posts. You write in a direct,
first-person voice with short paragraphs and no emoji. Respond with JSON only.`

// BuildDraftPrompt creates the user prompt for drafting a full post.
func BuildDraftPrompt(in models.DraftInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a LinkedIn post titled %q.\n", in.Title)
	if in.Hook != "" {
		fmt.Fprintf(&b, "Open with this hook: %s\n", in.Hook)
	}
	if in.Rationale != "" {
		fmt.Fprintf(&b, "Angle: %s\n", in.Rationale)
	}
	if in.Language != "" && in.Language != "en" {
		fmt.Fprintf(&b, "Write in language: %s\n", in.Language)
	}

	b.WriteString("\nRespond with a JSON object:\n")
	b.WriteString(`{"title": "...", "body": "the full post text"}`)

	return b.String()
}

// HashtagsSystemPrompt frames the model as a distribution specialist.
const HashtagsSystemPrompt = `You pick hashtags that maximize reach for LinkedIn posts.
Respond with JSON only.`

// BuildHashtagsPrompt creates the user prompt for hashtag extraction.
// Broad, niche and trending groups are disjoint in intent; the model decides
// the grouping.
func BuildHashtagsPrompt(in models.HashtagsInput) string {
	var b strings.Builder

	b.WriteString("Suggest hashtags for this LinkedIn post.\n\n")
	if in.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", in.Title)
	}
	fmt.Fprintf(&b, "Body:\n%s\n\n", in.Body)

	b.WriteString(`Respond with a JSON object of plain tag words without the # prefix:
{"broad": ["..."], "niche": ["..."], "trending": ["..."]}`)

	return b.String()
}

// RewriteSystemPrompt frames the model as an editor.
const RewriteSystemPrompt = `You are an editor revising LinkedIn posts. Preserve the author's
meaning and claims exactly. Respond with JSON only.`

var rewriteInstructions = map[string]string{
	models.RewriteShorten:      "Cut the post to roughly half its length without losing the core message.",
	models.RewriteExpand:       "Expand the post with one concrete example and a closing question.",
	models.RewriteProfessional: "Rewrite in a more formal, professional register.",
	models.RewriteCasual:       "Rewrite in a relaxed, conversational register.",
	models.RewritePunchier:     "Rewrite with shorter sentences and a stronger opening line.",
}

// BuildRewritePrompt creates the user prompt for a rewrite action.
func BuildRewritePrompt(in models.RewriteInput) string {
	var b strings.Builder

	b.WriteString(rewriteInstructions[in.Action])
	b.WriteString("\n\nPost:\n")
	b.WriteString(in.Body)
	b.WriteString("\n\nRespond with a JSON object:\n")
	b.WriteString(`{"body": "the rewritten post text"}`)

	return b.String()
}

// ImageDescriptionSystemPrompt frames the model as an art director.
const ImageDescriptionSystemPrompt = `You are an art director describing a single image to accompany a
LinkedIn post. Describe composition, subject and mood in one paragraph.
Respond with JSON only.`

// BuildImageDescriptionPrompt creates the user prompt for an image
// description.
func BuildImageDescriptionPrompt(in models.ImageDescriptionInput) string {
	var b strings.Builder

	b.WriteString("Describe an image for this post.\n\n")
	if in.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", in.Title)
	}
	fmt.Fprintf(&b, "Body:\n%s\n\n", in.Body)

	b.WriteString("Respond with a JSON object:\n")
	b.WriteString(`{"description": "..."}`)

	return b.String()
}
