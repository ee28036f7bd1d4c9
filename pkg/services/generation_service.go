// Package services implements the business logic between HTTP handlers and
// repositories: generation orchestration, content linkage, publishing, and
// settings.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/jsonutil"
	"github.com/feedforge/feedforge-engine/pkg/llm"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/prompts"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
)

// ObjectStore is the storage surface the image pipeline needs.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, bucket string, paths []string) error
}

// GenerationService orchestrates AI generation requests. Every invocation
// makes exactly one provider call and records exactly zero or one ledger
// entries: zero when the provider call itself fails, one otherwise.
type GenerationService interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error)
}

type generationService struct {
	llm         llm.Client
	ledgerRepo  repositories.LedgerRepository
	topicRepo   repositories.TopicRepository
	draftRepo   repositories.DraftRepository
	assetRepo   repositories.AssetRepository
	settings    SettingsService
	store       ObjectStore
	bucket      string
	temperature float64
	logger      *zap.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	client llm.Client,
	ledgerRepo repositories.LedgerRepository,
	topicRepo repositories.TopicRepository,
	draftRepo repositories.DraftRepository,
	assetRepo repositories.AssetRepository,
	settings SettingsService,
	store ObjectStore,
	bucket string,
	temperature float64,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		llm:         client,
		ledgerRepo:  ledgerRepo,
		topicRepo:   topicRepo,
		draftRepo:   draftRepo,
		assetRepo:   assetRepo,
		settings:    settings,
		store:       store,
		bucket:      bucket,
		temperature: temperature,
		logger:      logger.Named("generation"),
	}
}

var _ GenerationService = (*generationService)(nil)

func (s *generationService) Generate(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	genType := req.Input.GenerationType()
	s.logger.Info("generation requested",
		zap.String("type", genType.String()),
		zap.Bool("has_target", req.Target != nil))

	if genType == models.GenerationImage {
		return s.generateImage(ctx, req)
	}
	return s.generateText(ctx, req)
}

// generateText runs the provider call, parses the response, appends the
// ledger entry, and applies the output to the target entity. The ledger write
// and the apply step are deliberately separate operations: an apply failure
// never rolls back the committed entry.
func (s *generationService) generateText(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	systemPrompt, userPrompt, err := s.buildPrompts(ctx, req.Input)
	if err != nil {
		return nil, err
	}

	textResult, err := s.llm.GenerateText(ctx, systemPrompt, userPrompt, s.temperature)
	if err != nil {
		// Provider failure: nothing happened, nothing is recorded.
		return nil, err
	}

	entry := &models.LedgerEntry{
		GenerationType: req.Input.GenerationType(),
		Inputs:         req.Input.InputsMap(),
		SystemPrompt:   &systemPrompt,
		UserPrompt:     &userPrompt,
		Model:          &textResult.Model,
		RawOutput:      &textResult.Content,
		TokenUsage:     &textResult.Usage,
	}

	output, parseErr := parseOutput(req.Input.GenerationType(), textResult.Content)
	if parseErr == nil {
		parsed, err := json.Marshal(output)
		if err != nil {
			parseErr = err
		} else {
			entry.ParsedOutput = parsed
		}
	}

	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if parseErr != nil {
		s.logger.Warn("provider output unparseable",
			zap.String("type", entry.GenerationType.String()),
			zap.String("ledger_id", entry.ID.String()),
			zap.Error(parseErr))
		return nil, &apperrors.MalformedOutputError{LedgerID: entry.ID, Cause: parseErr}
	}

	applied, err := s.apply(ctx, entry, req, output)
	if err != nil {
		return nil, err
	}

	return &models.GenerationResult{Entry: entry, Output: output, Applied: applied}, nil
}

// generateImage runs the full image pipeline: provider call, storage upload,
// asset row, optional draft attach. The ledger entry is appended right after
// the provider call so a storage or persistence failure still leaves an audit
// record of the spend.
func (s *generationService) generateImage(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	input := req.Input.(models.ImageInput)

	// Reject before the provider call; there is nowhere to put the result.
	if s.store == nil {
		return nil, fmt.Errorf("image generation requires object storage to be configured")
	}

	imageResult, err := s.llm.GenerateImage(ctx, input.Prompt, input.Size)
	if err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		GenerationType: models.GenerationImage,
		Inputs:         input.InputsMap(),
		Model:          &imageResult.Model,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	assetID := uuid.New()
	path := fmt.Sprintf("generated/%s.png", assetID)
	publicURL, err := s.store.Upload(ctx, s.bucket, path, imageResult.Data, "image/png")
	if err != nil {
		return nil, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: models.EntityTypeAsset, EntityID: assetID, Cause: err}
	}

	prompt := input.Prompt
	asset := &models.Asset{
		ID:            assetID,
		URL:           publicURL,
		Prompt:        &prompt,
		IsAIGenerated: true,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: models.EntityTypeAsset, EntityID: assetID, Cause: err}
	}

	if err := s.ledgerRepo.LinkEntity(ctx, entry.ID, models.EntityTypeAsset, asset.ID); err != nil {
		s.logger.Warn("ledger link failed after asset creation",
			zap.String("ledger_id", entry.ID.String()),
			zap.String("asset_id", asset.ID.String()),
			zap.Error(err))
	} else {
		entityType := models.EntityTypeAsset
		entry.CreatedEntityType = &entityType
		entry.CreatedEntityID = &asset.ID
	}

	output := models.ImageOutput{AssetID: asset.ID, URL: asset.URL}

	// Optional attach to a draft.
	if req.Target != nil && req.Target.Type == models.EntityTypeDraft {
		draft, err := s.draftRepo.GetByID(ctx, req.Target.ID)
		if err != nil {
			return nil, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: req.Target.Type, EntityID: req.Target.ID, Cause: err}
		}
		draft.ImageAssetID = &asset.ID
		if err := s.draftRepo.Update(ctx, draft); err != nil {
			return nil, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: req.Target.Type, EntityID: req.Target.ID, Cause: err}
		}
		return &models.GenerationResult{Entry: entry, Output: output, Applied: true}, nil
	}

	return &models.GenerationResult{Entry: entry, Output: output, Applied: true}, nil
}

// buildPrompts assembles system and user prompts, folding the owner's brand
// settings into the system prompt when present.
func (s *generationService) buildPrompts(ctx context.Context, input models.GenerationInput) (string, string, error) {
	var systemPrompt, userPrompt string

	switch in := input.(type) {
	case models.TopicsInput:
		systemPrompt = prompts.TopicsSystemPrompt
		userPrompt = prompts.BuildTopicsPrompt(in)
	case models.DraftInput:
		systemPrompt = prompts.DraftSystemPrompt
		userPrompt = prompts.BuildDraftPrompt(in)
	case models.HashtagsInput:
		systemPrompt = prompts.HashtagsSystemPrompt
		userPrompt = prompts.BuildHashtagsPrompt(in)
	case models.RewriteInput:
		systemPrompt = prompts.RewriteSystemPrompt
		userPrompt = prompts.BuildRewritePrompt(in)
	case models.ImageDescriptionInput:
		systemPrompt = prompts.ImageDescriptionSystemPrompt
		userPrompt = prompts.BuildImageDescriptionPrompt(in)
	default:
		return "", "", fmt.Errorf("unsupported generation input %T", input)
	}

	if s.settings != nil {
		if voice := s.settingOrEmpty(ctx, SettingBrandVoice); voice != "" {
			systemPrompt += "\n\nBrand voice: " + voice
		}
		if audience := s.settingOrEmpty(ctx, SettingAudience); audience != "" {
			systemPrompt += "\nAudience: " + audience
		}
	}

	return systemPrompt, userPrompt, nil
}

func (s *generationService) settingOrEmpty(ctx context.Context, key string) string {
	value, err := s.settings.Get(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

// parseOutput turns the raw provider text into the typed output for the
// generation type, rejecting structurally empty results.
func parseOutput(genType models.GenerationType, raw string) (any, error) {
	switch genType {
	case models.GenerationTopics:
		var out models.TopicsOutput
		if err := jsonutil.UnmarshalLenient(raw, &out); err != nil {
			return nil, err
		}
		if len(out.Topics) == 0 {
			return nil, fmt.Errorf("topics response contained no topics")
		}
		return out, nil
	case models.GenerationDraft:
		var out models.DraftOutput
		if err := jsonutil.UnmarshalLenient(raw, &out); err != nil {
			return nil, err
		}
		if out.Body == "" {
			return nil, fmt.Errorf("draft response missing body")
		}
		return out, nil
	case models.GenerationHashtags:
		var out models.HashtagsOutput
		if err := jsonutil.UnmarshalLenient(raw, &out); err != nil {
			return nil, err
		}
		if len(out.Broad)+len(out.Niche)+len(out.Trending) == 0 {
			return nil, fmt.Errorf("hashtags response contained no tags")
		}
		return out, nil
	case models.GenerationRewrite:
		var out models.RewriteOutput
		if err := jsonutil.UnmarshalLenient(raw, &out); err != nil {
			return nil, err
		}
		if out.Body == "" {
			return nil, fmt.Errorf("rewrite response missing body")
		}
		return out, nil
	case models.GenerationImageDescription:
		var out models.ImageDescriptionOutput
		if err := jsonutil.UnmarshalLenient(raw, &out); err != nil {
			return nil, err
		}
		if out.Description == "" {
			return nil, fmt.Errorf("image description response missing description")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported generation type %q", genType)
	}
}

// apply merges the parsed output into the content store. For topics this
// creates new Topic rows; for the other types it updates the target draft
// when one was given. Any failure here surfaces as ApplyError with the
// already-committed ledger id; the target entity is never left partially
// updated because every write is a single statement.
func (s *generationService) apply(ctx context.Context, entry *models.LedgerEntry, req *models.GenerationRequest, output any) (bool, error) {
	switch out := output.(type) {
	case models.TopicsOutput:
		return s.applyTopics(ctx, entry, out)
	case models.DraftOutput:
		return s.applyDraft(ctx, entry, req.Target, out)
	case models.HashtagsOutput:
		if req.Target == nil {
			return false, nil
		}
		return s.applyToDraft(ctx, entry, req.Target, func(d *models.Draft) {
			d.HashtagsBroad = out.Broad
			d.HashtagsNiche = out.Niche
			d.HashtagsTrending = out.Trending
		})
	case models.RewriteOutput:
		if req.Target == nil {
			return false, nil
		}
		return s.applyToDraft(ctx, entry, req.Target, func(d *models.Draft) {
			d.Body = out.Body
		})
	case models.ImageDescriptionOutput:
		if req.Target == nil {
			return false, nil
		}
		return s.applyToDraft(ctx, entry, req.Target, func(d *models.Draft) {
			desc := out.Description
			d.ImageDescription = &desc
		})
	default:
		return false, nil
	}
}

// applyTopics creates one Topic row per generated idea, each carrying the
// ledger entry id as provenance.
func (s *generationService) applyTopics(ctx context.Context, entry *models.LedgerEntry, out models.TopicsOutput) (bool, error) {
	for _, idea := range out.Topics {
		topic := &models.Topic{
			Title:         idea.Title,
			Hook:          idea.Hook,
			Rationale:     idea.Rationale,
			Tags:          idea.Tags,
			Status:        models.TopicStatusNew,
			LedgerEntryID: &entry.ID,
		}
		if err := s.topicRepo.Create(ctx, topic); err != nil {
			return false, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: models.EntityTypeTopic, EntityID: topic.ID, Cause: err}
		}
	}
	return true, nil
}

// applyDraft updates the target draft when one was given, otherwise creates a
// fresh draft and links the ledger entry to it.
func (s *generationService) applyDraft(ctx context.Context, entry *models.LedgerEntry, target *models.EntityRef, out models.DraftOutput) (bool, error) {
	if target != nil {
		return s.applyToDraft(ctx, entry, target, func(d *models.Draft) {
			d.Title = out.Title
			d.Body = out.Body
		})
	}

	draft := &models.Draft{
		Title:  out.Title,
		Body:   out.Body,
		Status: models.DraftStatusDraft,
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return false, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: models.EntityTypeDraft, EntityID: draft.ID, Cause: err}
	}

	if err := s.ledgerRepo.LinkEntity(ctx, entry.ID, models.EntityTypeDraft, draft.ID); err != nil {
		s.logger.Warn("ledger link failed after draft creation",
			zap.String("ledger_id", entry.ID.String()),
			zap.String("draft_id", draft.ID.String()),
			zap.Error(err))
	} else {
		entityType := models.EntityTypeDraft
		entry.CreatedEntityType = &entityType
		entry.CreatedEntityID = &draft.ID
	}

	return true, nil
}

// applyToDraft loads the target draft, mutates it via fn, writes it back, and
// links the ledger entry. A failed load or write reports ApplyError and
// leaves the stored draft untouched.
func (s *generationService) applyToDraft(ctx context.Context, entry *models.LedgerEntry, target *models.EntityRef, fn func(*models.Draft)) (bool, error) {
	if target.Type != models.EntityTypeDraft {
		return false, &apperrors.ApplyError{
			LedgerID:   entry.ID,
			EntityType: target.Type,
			EntityID:   target.ID,
			Cause:      fmt.Errorf("generation type %s can only target a draft", entry.GenerationType),
		}
	}

	draft, err := s.draftRepo.GetByID(ctx, target.ID)
	if err != nil {
		return false, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: target.Type, EntityID: target.ID, Cause: err}
	}

	fn(draft)

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return false, &apperrors.ApplyError{LedgerID: entry.ID, EntityType: target.Type, EntityID: target.ID, Cause: err}
	}

	if err := s.ledgerRepo.LinkEntity(ctx, entry.ID, models.EntityTypeDraft, draft.ID); err != nil {
		s.logger.Warn("ledger link failed after draft update",
			zap.String("ledger_id", entry.ID.String()),
			zap.String("draft_id", draft.ID.String()),
			zap.Error(err))
	} else {
		entityType := models.EntityTypeDraft
		entry.CreatedEntityType = &entityType
		entry.CreatedEntityID = &draft.ID
	}

	return true, nil
}
