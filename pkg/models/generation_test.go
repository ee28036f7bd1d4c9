package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr string
	}{
		{
			name:    "missing input",
			req:     GenerationRequest{},
			wantErr: "input is required",
		},
		{
			name:    "topics count out of range",
			req:     GenerationRequest{Input: TopicsInput{Count: 0}},
			wantErr: "count must be between",
		},
		{
			name: "rewrite unknown action",
			req:  GenerationRequest{Input: RewriteInput{Body: "text", Action: "yodel"}},
			wantErr: "unknown rewrite action",
		},
		{
			name: "hashtags missing body",
			req:  GenerationRequest{Input: HashtagsInput{Title: "t"}},
			wantErr: "body is required",
		},
		{
			name:    "hashtags missing title",
			req:     GenerationRequest{Input: HashtagsInput{Body: "post body"}},
			wantErr: "title is required",
		},
		{
			name: "image description without title is valid",
			req:  GenerationRequest{Input: ImageDescriptionInput{Body: "post body"}},
		},
		{
			name: "target without id",
			req: GenerationRequest{
				Input:  RewriteInput{Body: "text", Action: RewriteShorten},
				Target: &EntityRef{Type: EntityTypeDraft},
			},
			wantErr: "target entity id is required",
		},
		{
			name: "unknown target type",
			req: GenerationRequest{
				Input:  RewriteInput{Body: "text", Action: RewriteShorten},
				Target: &EntityRef{Type: "widget", ID: uuid.New()},
			},
			wantErr: "unknown target entity type",
		},
		{
			name: "valid rewrite with target",
			req: GenerationRequest{
				Input:  RewriteInput{Body: "text", Action: RewriteShorten},
				Target: &EntityRef{Type: EntityTypeDraft, ID: uuid.New()},
			},
		},
		{
			name: "valid image without target",
			req:  GenerationRequest{Input: ImageInput{Prompt: "a lighthouse"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTopicIdeaUnmarshalCoercesLooseTypes(t *testing.T) {
	var out TopicsOutput
	raw := `{"topics": [
		{"title": 2025, "hook": "Hook text", "rationale": true, "tags": ["ai"]},
		{"title": "Plain", "hook": null}
	]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	require.Len(t, out.Topics, 2)

	assert.Equal(t, "2025", out.Topics[0].Title)
	assert.Equal(t, "Hook text", out.Topics[0].Hook)
	assert.Equal(t, "true", out.Topics[0].Rationale)
	assert.Equal(t, []string{"ai"}, out.Topics[0].Tags)

	assert.Equal(t, "Plain", out.Topics[1].Title)
	assert.Empty(t, out.Topics[1].Hook)
}

func TestGenerationType_IsValid(t *testing.T) {
	for _, gt := range []GenerationType{
		GenerationTopics, GenerationDraft, GenerationHashtags,
		GenerationRewrite, GenerationImageDescription, GenerationImage,
	} {
		assert.True(t, gt.IsValid(), string(gt))
	}
	assert.False(t, GenerationType("poetry").IsValid())
}
