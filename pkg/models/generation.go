package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/feedforge/feedforge-engine/pkg/jsonutil"
)

// EntityRef names the content entity a generation result should be merged
// into.
type EntityRef struct {
	Type string    `json:"type"` // one of the EntityType* constants
	ID   uuid.UUID `json:"id"`
}

// GenerationInput is the tagged union of per-type generation payloads. Each
// generation type carries its own strongly typed input so missing fields are
// caught before the provider is called.
type GenerationInput interface {
	GenerationType() GenerationType
	Validate() error
	// InputsMap returns the key/value form recorded on the ledger entry.
	InputsMap() map[string]any
}

// TopicsInput requests a batch of topic ideas from researched news context.
type TopicsInput struct {
	Count       int               `json:"count"`
	NewsContext []NewsContextItem `json:"news_context,omitempty"`
}

// NewsContextItem is a condensed news reference fed into topic research.
type NewsContextItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source,omitempty"`
}

func (i TopicsInput) GenerationType() GenerationType { return GenerationTopics }

func (i TopicsInput) Validate() error {
	if i.Count <= 0 || i.Count > 20 {
		return fmt.Errorf("count must be between 1 and 20, got %d", i.Count)
	}
	return nil
}

func (i TopicsInput) InputsMap() map[string]any {
	m := map[string]any{"count": i.Count}
	if len(i.NewsContext) > 0 {
		m["news_context"] = i.NewsContext
	}
	return m
}

// DraftInput requests a full post draft, typically seeded from a topic.
type DraftInput struct {
	TopicID   *uuid.UUID `json:"topic_id,omitempty"`
	Title     string     `json:"title"`
	Hook      string     `json:"hook,omitempty"`
	Rationale string     `json:"rationale,omitempty"`
	Language  string     `json:"language,omitempty"`
}

func (i DraftInput) GenerationType() GenerationType { return GenerationDraft }

func (i DraftInput) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func (i DraftInput) InputsMap() map[string]any {
	m := map[string]any{"title": i.Title}
	if i.TopicID != nil {
		m["topic_id"] = i.TopicID.String()
	}
	if i.Hook != "" {
		m["hook"] = i.Hook
	}
	if i.Rationale != "" {
		m["rationale"] = i.Rationale
	}
	if i.Language != "" {
		m["language"] = i.Language
	}
	return m
}

// HashtagsInput requests broad/niche/trending hashtag groups for a post.
type HashtagsInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (i HashtagsInput) GenerationType() GenerationType { return GenerationHashtags }

func (i HashtagsInput) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("title is required")
	}
	if i.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

func (i HashtagsInput) InputsMap() map[string]any {
	return map[string]any{"title": i.Title, "body": i.Body}
}

// Rewrite actions supported by RewriteInput.
const (
	RewriteShorten      = "shorten"
	RewriteExpand       = "expand"
	RewriteProfessional = "professional"
	RewriteCasual       = "casual"
	RewritePunchier     = "punchier"
)

// RewriteInput requests a rewritten post body.
type RewriteInput struct {
	Body   string `json:"body"`
	Action string `json:"action"`
}

func (i RewriteInput) GenerationType() GenerationType { return GenerationRewrite }

func (i RewriteInput) Validate() error {
	if i.Body == "" {
		return fmt.Errorf("body is required")
	}
	switch i.Action {
	case RewriteShorten, RewriteExpand, RewriteProfessional, RewriteCasual, RewritePunchier:
		return nil
	default:
		return fmt.Errorf("unknown rewrite action %q", i.Action)
	}
}

func (i RewriteInput) InputsMap() map[string]any {
	return map[string]any{"body": i.Body, "action": i.Action}
}

// ImageDescriptionInput requests a visual description suited for image
// generation from a post's content. Title is optional context; a description
// can be derived from the body alone.
type ImageDescriptionInput struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

func (i ImageDescriptionInput) GenerationType() GenerationType { return GenerationImageDescription }

func (i ImageDescriptionInput) Validate() error {
	if i.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

func (i ImageDescriptionInput) InputsMap() map[string]any {
	return map[string]any{"title": i.Title, "body": i.Body}
}

// ImageInput requests a generated image from a prompt.
type ImageInput struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"` // provider size hint, e.g. "1024x1024"
}

func (i ImageInput) GenerationType() GenerationType { return GenerationImage }

func (i ImageInput) Validate() error {
	if i.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}

func (i ImageInput) InputsMap() map[string]any {
	m := map[string]any{"prompt": i.Prompt}
	if i.Size != "" {
		m["size"] = i.Size
	}
	return m
}

// GenerationRequest is one orchestration request: a typed input plus an
// optional target entity to merge the result into.
type GenerationRequest struct {
	Input  GenerationInput
	Target *EntityRef
}

// Validate checks the input payload and the target reference.
func (r *GenerationRequest) Validate() error {
	if r.Input == nil {
		return fmt.Errorf("input is required")
	}
	if err := r.Input.Validate(); err != nil {
		return fmt.Errorf("%s input: %w", r.Input.GenerationType(), err)
	}
	if r.Target != nil {
		switch r.Target.Type {
		case EntityTypeTopic, EntityTypeDraft, EntityTypeAsset, EntityTypePublication:
		default:
			return fmt.Errorf("unknown target entity type %q", r.Target.Type)
		}
		if r.Target.ID == uuid.Nil {
			return fmt.Errorf("target entity id is required")
		}
	}
	return nil
}

// Typed parsed outputs, one per generation type.

// TopicIdea is one generated topic suggestion.
type TopicIdea struct {
	Title     string   `json:"title"`
	Hook      string   `json:"hook"`
	Rationale string   `json:"rationale"`
	Tags      []string `json:"tags,omitempty"`
}

// UnmarshalJSON tolerates providers emitting numbers or booleans where the
// idea fields should be strings.
func (t *TopicIdea) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title     json.RawMessage `json:"title"`
		Hook      json.RawMessage `json:"hook"`
		Rationale json.RawMessage `json:"rationale"`
		Tags      []string        `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Title = jsonutil.FlexibleStringValue(raw.Title)
	t.Hook = jsonutil.FlexibleStringValue(raw.Hook)
	t.Rationale = jsonutil.FlexibleStringValue(raw.Rationale)
	t.Tags = raw.Tags
	return nil
}

// TopicsOutput is the parsed result of a topics generation.
type TopicsOutput struct {
	Topics []TopicIdea `json:"topics"`
}

// DraftOutput is the parsed result of a draft generation.
type DraftOutput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HashtagsOutput is the parsed result of a hashtags generation. The three
// groups are disjoint in intent; the core does not enforce tag-string
// exclusivity across groups.
type HashtagsOutput struct {
	Broad    []string `json:"broad"`
	Niche    []string `json:"niche"`
	Trending []string `json:"trending"`
}

// RewriteOutput is the parsed result of a rewrite generation.
type RewriteOutput struct {
	Body string `json:"body"`
}

// ImageDescriptionOutput is the parsed result of an image description
// generation.
type ImageDescriptionOutput struct {
	Description string `json:"description"`
}

// ImageOutput is the result of an image generation after the bytes have been
// stored and an asset row created.
type ImageOutput struct {
	AssetID uuid.UUID `json:"asset_id"`
	URL     string    `json:"url"`
}

// GenerationResult is returned by the orchestrator on success.
type GenerationResult struct {
	Entry   *LedgerEntry `json:"entry"`
	Output  any          `json:"output"`  // one of the *Output types above
	Applied bool         `json:"applied"` // true if a target entity was updated
}
