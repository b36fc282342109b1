package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-cms/apiserver/internal/policy"
	"github.com/inkwell-cms/apiserver/internal/slug"
	"github.com/inkwell-cms/apiserver/internal/store"
	"github.com/inkwell-cms/apiserver/types"
)

const excerptRunes = 160

// ContentRepository defines persistence operations for content articles.
type ContentRepository interface {
	List(ctx context.Context, filter store.ContentFilter) ([]types.Content, error)
	Get(ctx context.Context, id string) (types.Content, error)
	Create(ctx context.Context, content types.Content) (types.Content, error)
	Update(ctx context.Context, content types.Content) (types.Content, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher receives content change notifications.
type EventPublisher interface {
	PublishContentEvent(ctx context.Context, event types.ContentEvent)
}

type CreateContentInput struct {
	Title         string   `json:"title" validate:"required"`
	Body          string   `json:"content" validate:"required"`
	Excerpt       string   `json:"excerpt"`
	CategoryID    *string  `json:"categoryId"`
	Tags          []string `json:"tags"`
	FeaturedImage *string  `json:"featuredImage"`
}

// UpdateContentInput carries a partial update. Empty strings and a nil Tags
// slice keep the stored values; CategoryID and FeaturedImage are replaced
// whenever the key is present, and an explicit null clears them.
type UpdateContentInput struct {
	Title         string           `json:"title"`
	Body          string           `json:"content"`
	Excerpt       string           `json:"excerpt"`
	CategoryID    Optional[string] `json:"categoryId"`
	Tags          []string         `json:"tags"`
	FeaturedImage Optional[string] `json:"featuredImage"`
	Status        string           `json:"status" validate:"omitempty,oneof=draft published"`
}

// ContentService encapsulates content use-cases.
type ContentService struct {
	repo   ContentRepository
	events EventPublisher
	policy policy.Evaluator
	now    func() time.Time
}

// NewContentService constructs a ContentService. events may be nil.
func NewContentService(repo ContentRepository, events EventPublisher) *ContentService {
	return &ContentService{
		repo:   repo,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContentService) List(ctx context.Context, filter store.ContentFilter) ([]types.Content, error) {
	return s.repo.List(ctx, filter)
}

func (s *ContentService) Get(ctx context.Context, id string) (types.Content, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new draft authored by actor.
func (s *ContentService) Create(ctx context.Context, actor types.User, in CreateContentInput) (types.Content, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return types.Content{}, err
	}

	content := types.Content{
		Title:         in.Title,
		Slug:          slug.Make(in.Title),
		Body:          in.Body,
		Excerpt:       in.Excerpt,
		FeaturedImage: nonEmpty(in.FeaturedImage),
		Status:        types.StatusDraft,
		CategoryID:    nonEmpty(in.CategoryID),
		Tags:          in.Tags,
		AuthorID:      actor.ID,
	}
	if content.Excerpt == "" {
		content.Excerpt = excerptOf(in.Body)
	}

	created, err := s.repo.Create(ctx, content)
	if err != nil {
		return types.Content{}, mapContentError(err)
	}
	s.emit(ctx, types.EventContentCreated, actor, created)
	return created, nil
}

// Update applies a partial update. Only the author or an admin may edit.
func (s *ContentService) Update(ctx context.Context, actor types.User, id string, in UpdateContentInput) (types.Content, error) {
	content, err := s.authorize(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return types.Content{}, err
	}
	if err := validateInput(in); err != nil {
		return types.Content{}, err
	}

	wasPublished := content.Status == types.StatusPublished

	if title := strings.TrimSpace(in.Title); title != "" && title != content.Title {
		content.Title = title
		content.Slug = slug.Make(title)
	}
	if in.Body != "" {
		content.Body = in.Body
	}
	switch {
	case in.Excerpt != "":
		content.Excerpt = in.Excerpt
	case in.Body != "":
		content.Excerpt = excerptOf(in.Body)
	}
	if in.CategoryID.Set {
		content.CategoryID = nonEmpty(in.CategoryID.Value)
	}
	if in.Tags != nil {
		content.Tags = in.Tags
	}
	if in.FeaturedImage.Set {
		content.FeaturedImage = nonEmpty(in.FeaturedImage.Value)
	}
	if in.Status != "" {
		content.Status = in.Status
	}

	updated, err := s.repo.Update(ctx, content)
	if err != nil {
		return types.Content{}, mapContentError(err)
	}

	eventType := types.EventContentUpdated
	if !wasPublished && updated.Status == types.StatusPublished {
		eventType = types.EventContentPublished
	}
	s.emit(ctx, eventType, actor, updated)
	return updated, nil
}

// Publish marks the article published.
func (s *ContentService) Publish(ctx context.Context, actor types.User, id string) (types.Content, error) {
	content, err := s.authorize(ctx, actor, id, policy.ActionPublish)
	if err != nil {
		return types.Content{}, err
	}

	content.Status = types.StatusPublished
	updated, err := s.repo.Update(ctx, content)
	if err != nil {
		return types.Content{}, mapContentError(err)
	}
	s.emit(ctx, types.EventContentPublished, actor, updated)
	return updated, nil
}

func (s *ContentService) Delete(ctx context.Context, actor types.User, id string) error {
	content, err := s.authorize(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, types.EventContentDeleted, actor, content)
	return nil
}

// authorize loads the article and checks that actor may perform action on
// it. A missing article is reported before a denied one.
func (s *ContentService) authorize(ctx context.Context, actor types.User, id string, action policy.Action) (types.Content, error) {
	content, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Content{}, err
	}
	res := policy.Resource{Kind: policy.KindContent, ID: content.ID, OwnerID: content.AuthorID}
	if !s.policy.Can(actor, res, action) {
		return types.Content{}, ErrForbidden
	}
	return content, nil
}

func (s *ContentService) emit(ctx context.Context, eventType string, actor types.User, content types.Content) {
	if s.events == nil {
		return
	}
	s.events.PublishContentEvent(ctx, types.ContentEvent{
		Type:       eventType,
		ContentID:  content.ID,
		AuthorID:   content.AuthorID,
		ActorID:    actor.ID,
		Status:     content.Status,
		OccurredAt: s.now(),
	})
}

func mapContentError(err error) error {
	if errors.Is(err, store.ErrInvalidCategory) {
		return invalid("categoryId", "invalid category ID")
	}
	return err
}

// excerptOf returns the first 160 characters of body followed by an
// ellipsis.
func excerptOf(body string) string {
	r := []rune(body)
	if len(r) > excerptRunes {
		r = r[:excerptRunes]
	}
	return string(r) + "..."
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
