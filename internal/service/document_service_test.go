package service

import (
	"context"
	"errors"
	"testing"

	"team-knowledge-be/internal/dto"
	"team-knowledge-be/internal/entity"
	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/internal/repository/contract"
	"team-knowledge-be/internal/repository/memory"
	"team-knowledge-be/internal/repository/specification"
	"team-knowledge-be/internal/repository/unitofwork"
	"team-knowledge-be/pkg/embedding"
	"team-knowledge-be/pkg/enrichment"
	"team-knowledge-be/pkg/llm"
	"team-knowledge-be/pkg/qa"
	"team-knowledge-be/pkg/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository fakes. Only the specifications the service actually
// uses are interpreted.

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.users[s.ID]; ok {
				return u, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == s.Email {
					return u, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeDocumentRepo struct {
	docs    map[uuid.UUID]*entity.Document
	order   []uuid.UUID
	updates int
}

func (r *fakeDocumentRepo) Create(_ context.Context, document *entity.Document) error {
	copied := *document
	r.docs[document.Id] = &copied
	r.order = append(r.order, document.Id)
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, document *entity.Document) error {
	copied := *document
	r.docs[document.Id] = &copied
	r.updates++
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if d, ok := r.docs[s.ID]; ok {
				copied := *d
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Document, error) {
	out := make([]*entity.Document, 0, len(r.docs))
	for _, id := range r.order {
		if d, ok := r.docs[id]; ok {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.docs)), nil
}

type fakeActivityRepo struct {
	activities []*entity.Activity
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *entity.Activity) error {
	r.activities = append(r.activities, activity)
	return nil
}

func (r *fakeActivityRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Activity, error) {
	return r.activities, nil
}

type fakeUow struct {
	users      *fakeUserRepo
	documents  *fakeDocumentRepo
	activities *fakeActivityRepo
}

func (u *fakeUow) Begin(_ context.Context) error { return nil }
func (u *fakeUow) Commit() error                 { return nil }
func (u *fakeUow) Rollback() error               { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository         { return u.users }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository { return u.documents }
func (u *fakeUow) ActivityRepository() contract.ActivityRepository { return u.activities }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

// Provider fakes.

type countingLLM struct {
	summary string
	tags    string
	calls   int
}

func (s *countingLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	s.calls++
	if s.calls%2 == 1 {
		return s.summary, nil
	}
	return s.tags, nil
}

type fixedEmbedder struct {
	vector []float32
	calls  int
	err    error
}

func (f *fixedEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestService(llmFake llm.LLMProvider, embedFake embedding.EmbeddingProvider) (IDocumentService, *fakeUow, *capturingPublisher) {
	uow := &fakeUow{
		users:      &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		documents:  &fakeDocumentRepo{docs: map[uuid.UUID]*entity.Document{}},
		activities: &fakeActivityRepo{},
	}
	factory := &fakeUowFactory{uow: uow}
	publisher := &capturingPublisher{}

	pipeline := enrichment.NewPipeline(llmFake, embedFake)
	ranker := retrieval.NewRanker(embedFake)
	orchestrator := qa.NewOrchestrator(ranker, llmFake)

	svc := NewDocumentService(factory, pipeline, ranker, orchestrator, publisher, nil, memory.NewUserNameCache())
	return svc, uow, publisher
}

func addUser(uow *fakeUow, name, role string) uuid.UUID {
	id := uuid.New()
	uow.users.users[id] = &entity.User{Id: id, Name: name, Email: name + "@example.com", Role: role}
	return id
}

func TestDocumentServiceCreatePersistsDerivedFields(t *testing.T) {
	llmFake := &countingLLM{summary: "A short summary.", tags: "Go, Backend, Search"}
	embedFake := &fixedEmbedder{vector: []float32{1, 0, 0}}
	svc, uow, publisher := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)

	res, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
		Title:   "Deploy Guide",
		Content: "How we deploy.",
	})
	require.NoError(t, err)

	assert.Equal(t, "A short summary.", res.Summary)
	assert.Equal(t, []string{"go", "backend", "search"}, res.Tags)
	assert.Equal(t, []float32{1, 0, 0}, res.Embedding)
	assert.Equal(t, userId, res.CreatedBy)

	stored := uow.documents.docs[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, res.Summary, stored.Summary)
	assert.Equal(t, res.Tags, stored.Tags)

	require.Len(t, publisher.payloads, 1)
	assert.Contains(t, string(publisher.payloads[0]), entity.ActivityDocumentCreated)
}

func TestDocumentServiceCreateFailsWhenEnrichmentFails(t *testing.T) {
	llmFake := &countingLLM{summary: "summary", tags: "a, b"}
	embedFake := &fixedEmbedder{err: errors.New("quota exceeded")}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)

	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
		Title:   "Doc",
		Content: "Body",
	})
	require.Error(t, err)
	assert.Empty(t, uow.documents.docs, "failed enrichment must not persist a partial document")
}

func TestDocumentServiceUpdateForbiddenForOtherUser(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	ownerId := addUser(uow, "alice", entity.RoleUser)
	otherId := addUser(uow, "bob", entity.RoleUser)

	created, err := svc.Create(context.Background(), ownerId, &dto.CreateDocumentRequest{Title: "Mine", Content: "Body"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), otherId, &dto.UpdateDocumentRequest{Id: created.Id, Title: "Stolen"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDocumentServiceUpdateAllowedForAdmin(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	ownerId := addUser(uow, "alice", entity.RoleUser)
	adminId := addUser(uow, "root", entity.RoleAdmin)

	created, err := svc.Create(context.Background(), ownerId, &dto.CreateDocumentRequest{Title: "Mine", Content: "Body"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), adminId, &dto.UpdateDocumentRequest{Id: created.Id, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	// Ownership does not transfer on an admin edit.
	assert.Equal(t, ownerId, updated.CreatedBy)
}

func TestDocumentServiceUpdateSkipsEnrichmentWhenUnchanged(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	ownerId := addUser(uow, "alice", entity.RoleUser)
	created, err := svc.Create(context.Background(), ownerId, &dto.CreateDocumentRequest{Title: "Mine", Content: "Body"})
	require.NoError(t, err)

	llmCallsAfterCreate := llmFake.calls
	embedCallsAfterCreate := embedFake.calls

	_, err = svc.Update(context.Background(), ownerId, &dto.UpdateDocumentRequest{Id: created.Id, Title: "Mine", Content: "Body"})
	require.NoError(t, err)

	assert.Equal(t, llmCallsAfterCreate, llmFake.calls, "unchanged text must not re-run generation")
	assert.Equal(t, embedCallsAfterCreate, embedFake.calls)
	assert.Equal(t, 1, uow.documents.updates)
}

func TestDocumentServiceRegenerateSummaryKeepsEmbedding(t *testing.T) {
	llmFake := &countingLLM{summary: "Fresh summary.", tags: "a, b"}
	embedFake := &fixedEmbedder{vector: []float32{1, 0}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	ownerId := addUser(uow, "alice", entity.RoleUser)
	created, err := svc.Create(context.Background(), ownerId, &dto.CreateDocumentRequest{Title: "Doc", Content: "Body"})
	require.NoError(t, err)

	embedCallsAfterCreate := embedFake.calls

	res, err := svc.RegenerateSummary(context.Background(), ownerId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Fresh summary.", res.Summary)
	assert.Equal(t, embedCallsAfterCreate, embedFake.calls, "regeneration must not re-embed")

	stored := uow.documents.docs[created.Id]
	assert.Equal(t, []float32{1, 0}, stored.Embedding)
	assert.Equal(t, "Fresh summary.", stored.Summary)
}

func TestDocumentServiceListFiltersByTag(t *testing.T) {
	// The jsonb containment filter itself runs in Postgres; here the fake
	// ignores it, so this only covers the unfiltered listing shape.
	llmFake := &countingLLM{summary: "s", tags: "ops, infra"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)
	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{Title: "Doc", Content: "Body"})
	require.NoError(t, err)

	res, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []string{"ops", "infra"}, res[0].Tags)
}

func TestDocumentServiceDeleteNotFound(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)
	err := svc.Delete(context.Background(), userId, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDocumentServiceSemanticSearchExactTitleFirst(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1, 0}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)

	first, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{Title: "Release Process", Content: "Ship it"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{Title: "Onboarding", Content: "Welcome"})
	require.NoError(t, err)

	results, err := svc.SemanticSearch(context.Background(), "release process")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, first.Id, results[0].Id)
	assert.Nil(t, results[0].Similarity, "exact title match carries no similarity score")
	for _, r := range results[1:] {
		require.NotNil(t, r.Similarity)
	}
}

func TestDocumentServiceSemanticSearchCapsResults(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1, 0}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)
	for i := 0; i < 7; i++ {
		_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
			Title:   "Doc " + uuid.New().String(),
			Content: "Body",
		})
		require.NoError(t, err)
	}

	results, err := svc.SemanticSearch(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Len(t, results, searchResultLimit)
}

func TestDocumentServiceTeamQAEmptyCorpus(t *testing.T) {
	llmFake := &countingLLM{summary: "s", tags: "t"}
	embedFake := &fixedEmbedder{vector: []float32{1}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	addUser(uow, "alice", entity.RoleUser)

	res, err := svc.TeamQA(context.Background(), "Where is the runbook?")
	require.NoError(t, err)
	assert.Equal(t, qa.EmptyCorpusAnswer, res.Answer)
	assert.Empty(t, res.Sources)
	assert.Zero(t, embedFake.calls, "empty corpus must not call the embedding provider")
}

func TestDocumentServiceTeamQAReturnsSources(t *testing.T) {
	llmFake := &countingLLM{summary: "A summary.", tags: "ops"}
	embedFake := &fixedEmbedder{vector: []float32{1, 0}}
	svc, uow, _ := newTestService(llmFake, embedFake)

	userId := addUser(uow, "alice", entity.RoleUser)
	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{Title: "Runbook", Content: "Restart the pods"})
	require.NoError(t, err)

	res, err := svc.TeamQA(context.Background(), "How do I restart?")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "Runbook", res.Sources[0].Title)
}
