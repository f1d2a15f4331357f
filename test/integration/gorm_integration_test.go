package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"team-knowledge-be/internal/entity"
	"team-knowledge-be/internal/repository/specification"
	"team-knowledge-be/internal/repository/unitofwork"
	"team-knowledge-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.ActivityRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Document Round Trip", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:        uuid.New(),
			Name:      "integration-" + uuid.New().String()[:8],
			Email:     "integration-" + uuid.New().String() + "@example.com",
			Password:  "not-a-real-hash",
			Role:      entity.RoleUser,
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		embedding := make([]float32, 768)
		embedding[0] = 1

		document := &entity.Document{
			Id:        uuid.New(),
			Title:     "Integration Fixture",
			Content:   "Round trip content",
			Summary:   "Round trip summary",
			Tags:      []string{"integration", "fixture"},
			Embedding: embedding,
			UserId:    user.Id,
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, document))

		found, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: document.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, document.Title, found.Title)
		assert.Equal(t, document.Tags, found.Tags)
		assert.Len(t, found.Embedding, 768)
		assert.Equal(t, float32(1), found.Embedding[0])

		// cleanup
		assert.NoError(t, uow.DocumentRepository().Delete(ctx, document.Id))
	})

	t.Run("Activity Feed Ordering", func(t *testing.T) {
		ctx := context.Background()

		activities, err := uow.ActivityRepository().FindAll(ctx,
			specification.OrderByCreatedDesc{},
			specification.Limit{N: 10},
		)
		assert.NoError(t, err)
		for i := 1; i < len(activities); i++ {
			assert.False(t, activities[i].CreatedAt.After(activities[i-1].CreatedAt))
		}
	})
}
