package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feedforge/feedforge-engine/pkg/apperrors"
	"github.com/feedforge/feedforge-engine/pkg/models"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
)

// In-memory repository doubles. Each keeps rows in a map and exposes
// function-field hooks to inject failures for specific tests.

type fakeLedgerRepo struct {
	entries    []*models.LedgerEntry
	appendFunc func(ctx context.Context, entry *models.LedgerEntry) error
	linkFunc   func(ctx context.Context, ledgerID uuid.UUID, entityType string, entityID uuid.UUID) error
}

var _ repositories.LedgerRepository = (*fakeLedgerRepo)(nil)

func (f *fakeLedgerRepo) Append(ctx context.Context, entry *models.LedgerEntry) error {
	if f.appendFunc != nil {
		return f.appendFunc(ctx, entry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	copied := *entry
	f.entries = append(f.entries, &copied)
	return nil
}

func (f *fakeLedgerRepo) LinkEntity(ctx context.Context, ledgerID uuid.UUID, entityType string, entityID uuid.UUID) error {
	if f.linkFunc != nil {
		return f.linkFunc(ctx, ledgerID, entityType, entityID)
	}
	for _, e := range f.entries {
		if e.ID == ledgerID {
			et := entityType
			id := entityID
			e.CreatedEntityType = &et
			e.CreatedEntityID = &id
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeLedgerRepo) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.LedgerEntry, error) {
	var out []*models.LedgerEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.CreatedEntityID != nil && *e.CreatedEntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListRecent(ctx context.Context, limit int) ([]*models.LedgerEntry, error) {
	var out []*models.LedgerEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakeTopicRepo struct {
	topics           map[uuid.UUID]*models.Topic
	updateStatusFunc func(ctx context.Context, id uuid.UUID, status models.TopicStatus) error
}

var _ repositories.TopicRepository = (*fakeTopicRepo)(nil)

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[uuid.UUID]*models.Topic)}
}

func (f *fakeTopicRepo) Create(ctx context.Context, topic *models.Topic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	if topic.Status == "" {
		topic.Status = models.TopicStatusNew
	}
	copied := *topic
	f.topics[topic.ID] = &copied
	return nil
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Topic, error) {
	topic, ok := f.topics[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *topic
	return &copied, nil
}

func (f *fakeTopicRepo) List(ctx context.Context, status *models.TopicStatus) ([]*models.Topic, error) {
	var out []*models.Topic
	for _, t := range f.topics {
		if status == nil || t.Status == *status {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) Update(ctx context.Context, topic *models.Topic) error {
	if _, ok := f.topics[topic.ID]; !ok {
		return apperrors.ErrNotFound
	}
	copied := *topic
	f.topics[topic.ID] = &copied
	return nil
}

func (f *fakeTopicRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TopicStatus) error {
	if f.updateStatusFunc != nil {
		return f.updateStatusFunc(ctx, id, status)
	}
	topic, ok := f.topics[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	topic.Status = status
	return nil
}

func (f *fakeTopicRepo) ClearNewsItemRef(ctx context.Context, newsItemID uuid.UUID) error {
	for _, t := range f.topics {
		if t.NewsItemID != nil && *t.NewsItemID == newsItemID {
			t.NewsItemID = nil
		}
	}
	return nil
}

func (f *fakeTopicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.topics[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.topics, id)
	return nil
}

type fakeDraftRepo struct {
	drafts     map[uuid.UUID]*models.Draft
	updateFunc func(ctx context.Context, draft *models.Draft) error
}

var _ repositories.DraftRepository = (*fakeDraftRepo)(nil)

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[uuid.UUID]*models.Draft)}
}

func (f *fakeDraftRepo) Create(ctx context.Context, draft *models.Draft) error {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	copied := *draft
	f.drafts[draft.ID] = &copied
	return nil
}

func (f *fakeDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, ok := f.drafts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeDraftRepo) List(ctx context.Context, status *models.DraftStatus) ([]*models.Draft, error) {
	var out []*models.Draft
	for _, d := range f.drafts {
		if status == nil || d.Status == *status {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeDraftRepo) Update(ctx context.Context, draft *models.Draft) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, draft)
	}
	if _, ok := f.drafts[draft.ID]; !ok {
		return apperrors.ErrNotFound
	}
	copied := *draft
	f.drafts[draft.ID] = &copied
	return nil
}

func (f *fakeDraftRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) error {
	draft, ok := f.drafts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	draft.Status = status
	return nil
}

func (f *fakeDraftRepo) ClearImageAsset(ctx context.Context, assetID uuid.UUID) error {
	for _, d := range f.drafts {
		if d.ImageAssetID != nil && *d.ImageAssetID == assetID {
			d.ImageAssetID = nil
		}
	}
	return nil
}

func (f *fakeDraftRepo) ClearTopicRef(ctx context.Context, topicID uuid.UUID) error {
	for _, d := range f.drafts {
		if d.TopicID != nil && *d.TopicID == topicID {
			d.TopicID = nil
		}
	}
	return nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.drafts[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.drafts, id)
	return nil
}

type fakeAssetRepo struct {
	assets     map[uuid.UUID]*models.Asset
	createFunc func(ctx context.Context, asset *models.Asset) error
}

var _ repositories.AssetRepository = (*fakeAssetRepo)(nil)

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uuid.UUID]*models.Asset)}
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, asset)
	}
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	copied := *asset
	f.assets[asset.ID] = &copied
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *asset
	return &copied, nil
}

func (f *fakeAssetRepo) List(ctx context.Context) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, a := range f.assets {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.assets[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.assets, id)
	return nil
}

type fakePublicationRepo struct {
	pubs       map[uuid.UUID]*models.Publication
	clearFunc  func(ctx context.Context, draftID uuid.UUID) error
	createFunc func(ctx context.Context, pub *models.Publication) error
}

var _ repositories.PublicationRepository = (*fakePublicationRepo)(nil)

func newFakePublicationRepo() *fakePublicationRepo {
	return &fakePublicationRepo{pubs: make(map[uuid.UUID]*models.Publication)}
}

func (f *fakePublicationRepo) Create(ctx context.Context, pub *models.Publication) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, pub)
	}
	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	if pub.PublishedAt.IsZero() {
		pub.PublishedAt = time.Now()
	}
	copied := *pub
	f.pubs[pub.ID] = &copied
	return nil
}

func (f *fakePublicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	pub, ok := f.pubs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *pub
	return &copied, nil
}

func (f *fakePublicationRepo) List(ctx context.Context) ([]*models.Publication, error) {
	var out []*models.Publication
	for _, p := range f.pubs {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakePublicationRepo) UpdateMetrics(ctx context.Context, id uuid.UUID, likes, comments, impressions int) error {
	pub, ok := f.pubs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	pub.Likes = likes
	pub.Comments = comments
	pub.Impressions = impressions
	return nil
}

func (f *fakePublicationRepo) ClearDraftRef(ctx context.Context, draftID uuid.UUID) error {
	if f.clearFunc != nil {
		return f.clearFunc(ctx, draftID)
	}
	for _, p := range f.pubs {
		if p.DraftID != nil && *p.DraftID == draftID {
			p.DraftID = nil
		}
	}
	return nil
}

type fakeNewsRepo struct {
	items map[uuid.UUID]*models.NewsItem
}

var _ repositories.NewsRepository = (*fakeNewsRepo)(nil)

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{items: make(map[uuid.UUID]*models.NewsItem)}
}

func (f *fakeNewsRepo) Create(ctx context.Context, item *models.NewsItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeNewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.NewsItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeNewsRepo) List(ctx context.Context) ([]*models.NewsItem, error) {
	var out []*models.NewsItem
	for _, i := range f.items {
		copied := *i
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeNewsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeSettings struct {
	values map[string]string
}

var _ SettingsService = (*fakeSettings)(nil)

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	if f.values == nil {
		return "", apperrors.ErrNotFound
	}
	value, ok := f.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}

func (f *fakeSettings) GetAll(ctx context.Context) (map[string]string, error) {
	return f.values, nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettings) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeObjectStore struct {
	uploads    map[string][]byte
	removed    []string
	uploadFunc func(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

var _ ObjectStore = (*fakeObjectStore)(nil)

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if f.uploadFunc != nil {
		return f.uploadFunc(ctx, bucket, path, data, contentType)
	}
	f.uploads[path] = data
	return fmt.Sprintf("https://files.test/storage/v1/object/public/%s/%s", bucket, path), nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	f.removed = append(f.removed, paths...)
	return nil
}

type fakePublisher struct {
	publishFunc func(ctx context.Context, content *models.PublicationContent) (string, string, error)
	calls       int
}

var _ Publisher = (*fakePublisher)(nil)

func (f *fakePublisher) PublishContent(ctx context.Context, content *models.PublicationContent) (string, string, error) {
	f.calls++
	if f.publishFunc != nil {
		return f.publishFunc(ctx, content)
	}
	return "urn:li:share:1", "https://www.linkedin.com/feed/update/urn:li:share:1", nil
}
