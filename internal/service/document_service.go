package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"team-knowledge-be/internal/dto"
	"team-knowledge-be/internal/entity"
	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/internal/repository/memory"
	"team-knowledge-be/internal/repository/specification"
	"team-knowledge-be/internal/repository/unitofwork"
	"team-knowledge-be/pkg/enrichment"
	"team-knowledge-be/pkg/events"
	pktNats "team-knowledge-be/pkg/nats"
	"team-knowledge-be/pkg/qa"
	"team-knowledge-be/pkg/retrieval"

	"github.com/google/uuid"
)

// How many ranked candidates each read path keeps.
const (
	searchResultLimit = 5
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, tag string) ([]*dto.DocumentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	RegenerateSummary(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RegenerateSummaryResponse, error)
	RegenerateTags(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RegenerateTagsResponse, error)
	SemanticSearch(ctx context.Context, query string) ([]*dto.SemanticSearchResult, error)
	TeamQA(ctx context.Context, question string) (*dto.TeamQAResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	pipeline         *enrichment.Pipeline
	ranker           *retrieval.Ranker
	orchestrator     *qa.Orchestrator
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	nameCache        *memory.UserNameCache
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *enrichment.Pipeline,
	ranker *retrieval.Ranker,
	orchestrator *qa.Orchestrator,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	nameCache *memory.UserNameCache,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		pipeline:         pipeline,
		ranker:           ranker,
		orchestrator:     orchestrator,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		nameCache:        nameCache,
	}
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ownerName := s.resolveOwnerName(ctx, uow, userId)

	enriched, err := s.pipeline.Enrich(ctx, req.Title, req.Content, ownerName)
	if err != nil {
		return nil, err
	}

	document := entity.Document{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Summary:   enriched.Summary,
		Tags:      enriched.Tags,
		Embedding: enriched.Embedding,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	// The enrichment already succeeded in full, so this is a single write
	// of the complete document. No partial rows.
	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, entity.ActivityDocumentCreated, &document, userId)

	return documentToResponse(&document), nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperrors.NotFound("document")
	}

	return documentToResponse(document), nil
}

// List returns the team corpus, newest first, optionally filtered by a tag
// keyword.
func (s *documentService) List(ctx context.Context, tag string) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.OrderByCreatedDesc{}}
	if tag != "" {
		specs = append(specs, specification.ByTag{Tag: tag})
	}

	documents, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, documentToResponse(document))
	}
	return responses, nil
}

func (s *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Title != "" && req.Title != document.Title {
		document.Title = req.Title
		changed = true
	}
	if req.Content != "" && req.Content != document.Content {
		document.Content = req.Content
		changed = true
	}

	if changed {
		ownerName := s.resolveOwnerName(ctx, uow, document.UserId)
		enriched, err := s.pipeline.Enrich(ctx, document.Title, document.Content, ownerName)
		if err != nil {
			return nil, err
		}
		document.Summary = enriched.Summary
		document.Tags = enriched.Tags
		document.Embedding = enriched.Embedding
	}

	now := time.Now()
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, entity.ActivityDocumentUpdated, document, userId)

	return documentToResponse(document), nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.DocumentRepository().Delete(ctx, document.Id); err != nil {
		return err
	}

	s.publishActivity(ctx, entity.ActivityDocumentDeleted, document, userId)

	return nil
}

func (s *documentService) RegenerateSummary(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RegenerateSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	// Refreshes only the summary; the stored embedding stays as computed at
	// the last full enrichment.
	summary, err := s.pipeline.Summarize(ctx, document.Title, document.Content)
	if err != nil {
		return nil, err
	}
	document.Summary = summary

	now := time.Now()
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, entity.ActivityDocumentUpdated, document, userId)

	return &dto.RegenerateSummaryResponse{
		Id:      document.Id,
		Summary: document.Summary,
	}, nil
}

func (s *documentService) RegenerateTags(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.RegenerateTagsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.pipeline.GenerateTags(ctx, document.Title, document.Content)
	if err != nil {
		return nil, err
	}
	document.Tags = tags

	now := time.Now()
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, entity.ActivityDocumentUpdated, document, userId)

	return &dto.RegenerateTagsResponse{
		Id:   document.Id,
		Tags: document.Tags,
	}, nil
}

func (s *documentService) SemanticSearch(ctx context.Context, query string) ([]*dto.SemanticSearchResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Search runs over the whole team corpus, not just the caller's documents.
	documents, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	corpus := make([]*retrieval.Document, 0, len(documents))
	byId := make(map[uuid.UUID]*entity.Document, len(documents))
	for _, document := range documents {
		corpus = append(corpus, toRetrievalDocument(document, ""))
		byId[document.Id] = document
	}

	candidates, err := s.ranker.Rank(ctx, query, corpus)
	if err != nil {
		return nil, err
	}
	candidates = retrieval.Truncate(candidates, searchResultLimit)

	results := make([]*dto.SemanticSearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		document := byId[candidate.Document.Id]
		result := &dto.SemanticSearchResult{
			Id:        document.Id,
			Title:     document.Title,
			Summary:   document.Summary,
			Tags:      document.Tags,
			CreatedBy: document.UserId,
			CreatedAt: document.CreatedAt,
		}
		if !candidate.Exact && !math.IsNaN(candidate.Score) {
			score := candidate.Score
			result.Similarity = &score
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *documentService) TeamQA(ctx context.Context, question string) (*dto.TeamQAResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	corpus := make([]*retrieval.Document, 0, len(documents))
	for _, document := range documents {
		corpus = append(corpus, toRetrievalDocument(document, s.resolveOwnerName(ctx, uow, document.UserId)))
	}

	answer, err := s.orchestrator.Answer(ctx, question, corpus)
	if err != nil {
		return nil, err
	}

	sources := make([]dto.QASource, 0, len(answer.Sources))
	for _, source := range answer.Sources {
		sources = append(sources, dto.QASource{
			Title: source.Title,
			Score: source.Score,
		})
	}
	return &dto.TeamQAResponse{
		Answer:  answer.Answer,
		Sources: sources,
	}, nil
}

// findOwned loads a document and enforces the owner-or-admin rule for
// mutating operations.
func (s *documentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, id uuid.UUID) (*entity.Document, error) {
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperrors.NotFound("document")
	}

	if document.UserId != userId {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		if err != nil {
			return nil, err
		}
		if user == nil || !user.IsAdmin() {
			return nil, apperrors.Forbidden("document belongs to another user")
		}
	}
	return document, nil
}

func (s *documentService) resolveOwnerName(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) string {
	if name, ok := s.nameCache.Get(userId); ok {
		return name
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return "Unknown"
	}

	s.nameCache.Save(userId, user.Name)
	return user.Name
}

func (s *documentService) publishActivity(ctx context.Context, activityType string, document *entity.Document, userId uuid.UUID) {
	payload := dto.PublishActivityMessage{
		Type:          activityType,
		DocumentId:    document.Id,
		DocumentTitle: document.Title,
		UserId:        userId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("[WARN] Failed to marshal %s activity: %v\n", activityType, err)
		return
	}

	// The feed is auxiliary; a publish failure never fails the request.
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		fmt.Printf("[WARN] Failed to publish %s activity: %v\n", activityType, err)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: activityType,
			Data: map[string]interface{}{
				"document_id": document.Id,
				"title":       document.Title,
				"user_id":     userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", activityType, err)
		}
	}
}

func documentToResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        document.Id,
		Title:     document.Title,
		Content:   document.Content,
		Summary:   document.Summary,
		Tags:      document.Tags,
		Embedding: document.Embedding,
		CreatedBy: document.UserId,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}

func toRetrievalDocument(document *entity.Document, ownerName string) *retrieval.Document {
	return &retrieval.Document{
		Id:        document.Id,
		Title:     document.Title,
		Content:   document.Content,
		Summary:   document.Summary,
		Tags:      document.Tags,
		Embedding: document.Embedding,
		OwnerId:   document.UserId,
		OwnerName: ownerName,
	}
}
