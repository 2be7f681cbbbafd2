package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasktrack/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache DSN so every pooled connection sees the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	return db
}

func createUser(t *testing.T, repo UserRepository, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserUniqueConstraints(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	createUser(t, repo, "alice", "alice@example.com")

	dupUsername := &model.User{Username: "alice", Email: "other@example.com", Password: "hash"}
	err := repo.Create(ctx, dupUsername)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	dupEmail := &model.User{Username: "other", Email: "alice@example.com", Password: "hash"}
	err = repo.Create(ctx, dupEmail)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserUpdateUniqueViolationLeavesRowUntouched(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice", "alice@example.com")
	bob := createUser(t, repo, "bob", "bob@example.com")

	bob.Username = "alice"
	err := repo.Update(ctx, bob)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	stored, err := repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.Username)
}

func TestUserListInsertionOrderAndPagination(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createUser(t, repo, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "user1", page[0].Username)
	assert.Equal(t, "user2", page[1].Username)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "alice@example.com")

	byUsername, err := repo.FindByUsernameOrEmail(ctx, "alice", "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byUsername.ID)

	byEmail, err := repo.FindByUsernameOrEmail(ctx, "nobody", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserDeleteCascadesTasks(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")
	bob := createUser(t, userRepo, "bob", "bob@example.com")

	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: "a1", State: model.StateDraft}))
	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: "a2", State: model.StateDraft}))
	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: bob.ID, Title: "b1", State: model.StateDraft}))

	require.NoError(t, userRepo.Delete(ctx, alice))

	_, err := userRepo.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Task{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Bob's tasks survive.
	bobTasks, err := taskRepo.List(ctx, bob.ID, TaskFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, bobTasks, 1)
}

func TestTaskListOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")
	bob := createUser(t, userRepo, "bob", "bob@example.com")

	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: "mine", State: model.StateDraft}))
	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: bob.ID, Title: "theirs", State: model.StateDraft}))

	tasks, err := taskRepo.List(ctx, alice.ID, TaskFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func TestTaskFiltersAreANDed(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")

	for i := 0; i < 5; i++ {
		require.NoError(t, taskRepo.Create(ctx, &model.Task{
			UserID:      alice.ID,
			Title:       fmt.Sprintf("Test todo combined %d", i),
			Description: fmt.Sprintf("combined description %d", i),
			State:       model.StateDoing,
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, taskRepo.Create(ctx, &model.Task{
			UserID:      alice.ID,
			Title:       fmt.Sprintf("other %d", i),
			Description: fmt.Sprintf("other description %d", i),
			State:       model.StateDraft,
		}))
	}

	tasks, err := taskRepo.List(ctx, alice.ID, TaskFilter{
		Title:       "combined",
		Description: "combined",
		State:       model.StateDoing,
		Limit:       100,
	})
	require.NoError(t, err)
	assert.Len(t, tasks, 5)
}

func TestTaskTitleFilterCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")
	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: "Buy GROCERIES", State: model.StateDraft}))

	tasks, err := taskRepo.List(ctx, alice.ID, TaskFilter{Title: "groceries", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskPaginationAppliesAfterFiltering(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")
	for i := 0; i < 4; i++ {
		require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: fmt.Sprintf("match %d", i), State: model.StateDraft}))
		require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: alice.ID, Title: fmt.Sprintf("skip %d", i), State: model.StateDraft}))
	}

	tasks, err := taskRepo.List(ctx, alice.ID, TaskFilter{Title: "match", Offset: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "match 2", tasks[0].Title)
	assert.Equal(t, "match 3", tasks[1].Title)
}

func TestFindByIDAndOwnerHidesOtherOwners(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createUser(t, userRepo, "alice", "alice@example.com")
	bob := createUser(t, userRepo, "bob", "bob@example.com")

	task := &model.Task{UserID: alice.ID, Title: "secret", State: model.StateDraft}
	require.NoError(t, taskRepo.Create(ctx, task))

	_, err := taskRepo.FindByIDAndOwner(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := taskRepo.FindByIDAndOwner(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)
}
