package comments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/authz"
	"github.com/forumlab/webforum/internal/server/posts"
)

// --- helpers ---

// fakeCommentsRepo guards its state with a mutex so the cap property can be
// exercised with real concurrency.
type fakeCommentsRepo struct {
	mu       sync.Mutex
	comments map[int64]*Comment
	nextID   int64
	caps     map[int64]*int // postID -> max_comments
	posts    map[int64]bool
}

func newFakeCommentsRepo() *fakeCommentsRepo {
	return &fakeCommentsRepo{
		comments: make(map[int64]*Comment),
		nextID:   1,
		caps:     make(map[int64]*int),
		posts:    make(map[int64]bool),
	}
}

func (f *fakeCommentsRepo) ListByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentsRepo) CountByPost(ctx context.Context, postID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(postID), nil
}

func (f *fakeCommentsRepo) countLocked(postID int64) int {
	n := 0
	for _, c := range f.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id int64) (*Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentsRepo) CreateCapped(ctx context.Context, postID int64, authorID *int64, text string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.posts[postID] {
		return 0, common.ErrNotFound
	}
	if max := f.caps[postID]; max != nil && f.countLocked(postID) >= *max {
		return 0, common.ErrCapacityExceeded
	}

	id := f.nextID
	f.nextID++
	f.comments[id] = &Comment{ID: id, PostID: postID, AuthorID: authorID, Text: text, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeCommentsRepo) UpdateText(ctx context.Context, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return common.ErrNotFound
	}
	c.Text = text
	c.Edited = true
	return nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakePostsRepo struct {
	repo *fakeCommentsRepo
}

func (f *fakePostsRepo) List(ctx context.Context) ([]*posts.Post, error) { return nil, nil }

func (f *fakePostsRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	if !f.repo.posts[id] {
		return nil, common.ErrNotFound
	}
	return &posts.Post{ID: id, MaxComments: f.repo.caps[id]}, nil
}

func (f *fakePostsRepo) Create(ctx context.Context, title, text string, authorID int64, maxComments *int) (int64, error) {
	return 0, nil
}

func (f *fakePostsRepo) DeleteCascade(ctx context.Context, id int64) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeCommentsRepo) {
	t.Helper()
	repo := newFakeCommentsRepo()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(repo, &fakePostsRepo{repo: repo}, log), repo
}

func (f *fakeCommentsRepo) addPost(id int64, max *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[id] = true
	f.caps[id] = max
}

var (
	alice    = &authz.Caller{ID: 1}
	bob      = &authz.Caller{ID: 2}
	elevated = &authz.Caller{ID: 99, IsAdmin: true, AdminElevated: true}
)

// --- tests ---

func TestCreate_Authenticated(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)

	c, err := svc.Create(context.Background(), alice, 10, "hello")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.AuthorID == nil || *c.AuthorID != alice.ID {
		t.Fatalf("author not recorded: %+v", c)
	}
}

func TestCreate_Anonymous(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)

	c, err := svc.Create(context.Background(), nil, 10, "drive-by comment")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !c.Anonymous() {
		t.Fatalf("anonymous comment has an author: %+v", c)
	}
}

func TestCreate_EmptyText(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)

	if _, err := svc.Create(context.Background(), alice, 10, "   "); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestCreate_PostNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), alice, 404, "text"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreate_CapReached(t *testing.T) {
	svc, repo := newTestService(t)
	one := 1
	repo.addPost(10, &one)

	if _, err := svc.Create(context.Background(), bob, 10, "first"); err != nil {
		t.Fatalf("first comment rejected: %v", err)
	}
	_, err := svc.Create(context.Background(), bob, 10, "second")
	if !errors.Is(err, common.ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
}

// N+1 concurrent submissions against a cap of N must persist exactly N.
func TestCreate_ConcurrentCapRace(t *testing.T) {
	svc, repo := newTestService(t)
	n := 8
	repo.addPost(10, &n)

	var wg sync.WaitGroup
	errs := make(chan error, n+1)
	for i := 0; i < n+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), nil, 10, "racer")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, capacity int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrCapacityExceeded):
			capacity++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != n || capacity != 1 {
		t.Fatalf("want %d successes and 1 capacity rejection, got %d/%d", n, ok, capacity)
	}
	if count, _ := repo.CountByPost(context.Background(), 10); count != n {
		t.Fatalf("want %d persisted comments, got %d", n, count)
	}
}

func TestListForPost_AnonymousSeesOnlyAnonymous(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)

	svc.Create(context.Background(), alice, 10, "signed")
	svc.Create(context.Background(), nil, 10, "unsigned")

	all, err := svc.ListForPost(context.Background(), alice, 10)
	if err != nil {
		t.Fatalf("ListForPost error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("authenticated viewer: want 2 comments, got %d", len(all))
	}

	visible, err := svc.ListForPost(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("ListForPost error: %v", err)
	}
	if len(visible) != 1 || !visible[0].Anonymous() {
		t.Fatalf("anonymous viewer: want only the anonymous comment, got %+v", visible)
	}
}

func TestEdit_ByAuthor(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)
	c, _ := svc.Create(context.Background(), alice, 10, "original")

	if err := svc.Edit(context.Background(), alice, c.ID, "updated"); err != nil {
		t.Fatalf("Edit error: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), c.ID)
	if got.Text != "updated" || !got.Edited {
		t.Fatalf("edit not applied: %+v", got)
	}
}

func TestEdit_NonAuthorForbiddenAndUnchanged(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)
	c, _ := svc.Create(context.Background(), alice, 10, "original")

	err := svc.Edit(context.Background(), bob, c.ID, "hijacked")
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	got, _ := repo.GetByID(context.Background(), c.ID)
	if got.Text != "original" || got.Edited {
		t.Fatalf("comment mutated despite rejection: %+v", got)
	}
}

func TestEdit_AnonymousCommentOnlyByElevatedAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)
	c, _ := svc.Create(context.Background(), nil, 10, "anonymous text")

	if err := svc.Edit(context.Background(), alice, c.ID, "x"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("regular user: want ErrForbidden, got %v", err)
	}
	if err := svc.Edit(context.Background(), elevated, c.ID, "moderated"); err != nil {
		t.Fatalf("elevated admin: Edit error: %v", err)
	}
}

func TestEdit_Unauthenticated(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.Edit(context.Background(), nil, 1, "x"); !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
}

func TestDelete_OwnershipRules(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addPost(10, nil)

	mine, _ := svc.Create(context.Background(), alice, 10, "mine")
	other, _ := svc.Create(context.Background(), bob, 10, "other")

	if err := svc.Delete(context.Background(), alice, other.ID); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, mine.ID); err != nil {
		t.Fatalf("author delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), elevated, other.ID); err != nil {
		t.Fatalf("admin delete error: %v", err)
	}
}
