package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Cascade steps run concurrently; a single connection keeps them on
	// the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Reaction{},
		&models.Follow{},
		&models.Repost{},
		&models.Bookmark{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.Job{},
		&models.JobApplication{},
		&models.Paper{},
		&models.PaperAuthor{},
		&models.Event{},
		&models.EventRSVP{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Story{},
		&models.StoryView{},
		&models.Poll{},
		&models.PollVote{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.ReputationEvent{},
	)
	require.NoError(t, err)
	return db
}

// memPostRepository is an in-memory stand-in for the MongoDB post
// collection
type memPostRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newMemPostRepository() *memPostRepository {
	return &memPostRepository{posts: make(map[string]*models.Post)}
}

func (r *memPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	clone := *post
	r.posts[post.ID.Hex()] = &clone
	return nil
}

func (r *memPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (r *memPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, id := range ids {
		if post, ok := r.posts[id]; ok {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (r *memPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (r *memPostRepository) ListPostIDsByAuthorID(ctx context.Context, authorID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, post := range r.posts {
		if post.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, post := range r.posts {
		out = append(out, *post)
	}
	return out, nil
}

func (r *memPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	clone := *post
	r.posts[id] = &clone
	return nil
}

func (r *memPostRepository) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepository) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.CommentCount += delta
	if post.CommentCount < 0 {
		post.CommentCount = 0
	}
	return nil
}

func (r *memPostRepository) AdjustShareCount(ctx context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.ShareCount += delta
	if post.ShareCount < 0 {
		post.ShareCount = 0
	}
	return nil
}

func (r *memPostRepository) SetReactionCounts(ctx context.Context, postID string, counts map[string]int, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.ReactionCounts = counts
	post.LikeCount = total
	return nil
}

// memFeedRepository is an in-memory stand-in for the MongoDB user_feed
// collection
type memFeedRepository struct {
	mu    sync.Mutex
	items []models.FeedItem
	// failFor makes inserts for one recipient fail, to exercise the
	// abort-mid-loop path
	failFor uint
}

func newMemFeedRepository() *memFeedRepository {
	return &memFeedRepository{}
}

func (r *memFeedRepository) InsertFeedItem(ctx context.Context, userID uint, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor != 0 && userID == r.failFor {
		return fmt.Errorf("insert failed for user %d", userID)
	}
	r.items = append(r.items, models.FeedItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *memFeedRepository) GetFeedByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.FeedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FeedItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memFeedRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if item.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memFeedRepository) DeleteByPostID(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.PostID != postID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *memFeedRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

func (r *memFeedRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// testEnv wires the full service stack over SQLite and the in-memory
// post/feed repositories
type testEnv struct {
	db       *gorm.DB
	sched    *scheduler.Scheduler
	posts    *memPostRepository
	feed     *memFeedRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository

	reactionRepo     repositories.ReactionRepository
	followRepo       repositories.FollowRepository
	repostRepo       repositories.RepostRepository
	bookmarkRepo     repositories.BookmarkRepository
	notificationRepo repositories.NotificationRepository
	jobRepo          repositories.JobRepository
	eventRepo        repositories.EventRepository
	communityRepo    repositories.CommunityRepository
	reputationRepo   repositories.ReputationRepository

	counters   *CounterService
	notifier   *Notifier
	fanout     *FanoutService
	reactions  *ReactionService
	cleanup    *CleanupService
	reputation *ReputationService
	mentions   *MentionScanner
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	posts := newMemPostRepository()
	feed := newMemFeedRepository()

	env := &testEnv{
		db:               db,
		sched:            scheduler.New(nil),
		posts:            posts,
		feed:             feed,
		users:            repositories.NewPostgresUserRepository(db),
		comments:         repositories.NewPostgresCommentRepository(db),
		reactionRepo:     repositories.NewPostgresReactionRepository(db),
		followRepo:       repositories.NewPostgresFollowRepository(db),
		repostRepo:       repositories.NewPostgresRepostRepository(db),
		bookmarkRepo:     repositories.NewPostgresBookmarkRepository(db),
		notificationRepo: repositories.NewPostgresNotificationRepository(db),
		jobRepo:          repositories.NewPostgresJobRepository(db),
		eventRepo:        repositories.NewPostgresEventRepository(db),
		communityRepo:    repositories.NewPostgresCommunityRepository(db),
		reputationRepo:   repositories.NewPostgresReputationRepository(db),
	}

	env.counters = NewCounterService(nil, env.users, posts, env.comments, env.reactionRepo, env.jobRepo, env.eventRepo, env.communityRepo)
	env.notifier = NewNotifier(nil, env.notificationRepo)
	env.fanout = NewFanoutService(nil, feed, env.followRepo)
	env.reputation = NewReputationService(nil, env.users, env.reputationRepo, nil)
	env.mentions = NewMentionScanner(nil, env.users, env.notifier)
	env.reactions = NewReactionService(nil, env.sched, env.counters, env.notifier, env.reputation, env.reactionRepo, posts, env.comments, env.users)
	env.cleanup = NewCleanupService(nil, env.sched, env.counters, CleanupRepos{
		Users:         env.users,
		Posts:         posts,
		Comments:      env.comments,
		Reactions:     env.reactionRepo,
		Reposts:       env.repostRepo,
		Bookmarks:     env.bookmarkRepo,
		Follows:       env.followRepo,
		Feed:          feed,
		Notifications: env.notificationRepo,
		Jobs:          env.jobRepo,
		Events:        env.eventRepo,
		Papers:        repositories.NewPostgresPaperRepository(db),
		Communities:   env.communityRepo,
		Stories:       repositories.NewPostgresStoryRepository(db),
		Polls:         repositories.NewPostgresPollRepository(db),
		Conversations: repositories.NewPostgresConversationRepository(db),
		Reputation:    env.reputationRepo,
	})
	return env
}

// drain waits for every scheduled task to settle
func (env *testEnv) drain(t *testing.T) {
	require.True(t, env.sched.Drain(5*time.Second), "scheduled tasks did not settle")
}

func (env *testEnv) createUser(t *testing.T, name, username string) *models.User {
	user := &models.User{
		Name:        name,
		Username:    username,
		Email:       username + "@campus.edu",
		FirebaseUID: "uid-" + username,
	}
	require.NoError(t, env.users.CreateUser(user))
	return user
}

func (env *testEnv) createPost(t *testing.T, authorID uint, content string) *models.Post {
	post := &models.Post{AuthorID: authorID, Content: content}
	require.NoError(t, env.posts.CreatePost(context.Background(), post))
	return post
}
