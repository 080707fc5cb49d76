package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
	"newsdesk/internal/store"
)

// memStore is an in-memory ArticleStore with the same compare-and-swap
// semantics as the SQL implementation. beforeUpdate, when set, runs between
// the engine's read and its write so tests can simulate a lost race.
type memStore struct {
	mu           sync.Mutex
	articles     map[uuid.UUID]*models.Article
	beforeUpdate func()
}

func newMemStore() *memStore {
	return &memStore{articles: make(map[uuid.UUID]*models.Article)}
}

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

func (s *memStore) Create(ctx context.Context, a *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a.Clone()
	return nil
}

func (s *memStore) UpdateIfStatus(ctx context.Context, a *models.Article, expected models.Status) error {
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.articles[a.ID]
	if !ok || cur.Status != expected {
		return store.ErrConflict
	}
	s.articles[a.ID] = a.Clone()
	return nil
}

// recordingInvalidator counts cache invalidations per article.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *recordingInvalidator) InvalidateArticle(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestEngine(t *testing.T) (*Engine, *memStore, *recordingInvalidator) {
	t.Helper()
	st := newMemStore()
	inv := &recordingInvalidator{}
	e := NewEngine(st, inv)
	e.Now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}
	return e, st, inv
}

func seedArticle(t *testing.T, st *memStore, status models.Status) *models.Article {
	t.Helper()
	a := models.NewArticle(owner.ID, "Budget Hearing Recap", "The hearing ran long.", models.ContentTypeStandard)
	a.Status = status
	if err := st.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestEngineCreateDraft(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	a, err := e.CreateDraft(ctx, owner, "First Draft", "Body text.", models.ContentTypeStandard)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if a.Status != models.StatusDraft {
		t.Errorf("status: got %q, want draft", a.Status)
	}
	stored, _ := st.FindByID(ctx, a.ID)
	if stored == nil {
		t.Fatal("draft not persisted")
	}

	t.Run("reader cannot create", func(t *testing.T) {
		_, err := e.CreateDraft(ctx, reader, "T", "B", models.ContentTypeStandard)
		assertErrType(t, err, &AuthorizationError{})
	})

	t.Run("unknown content type refused", func(t *testing.T) {
		_, err := e.CreateDraft(ctx, owner, "T", "B", models.ContentType("editorial"))
		assertErrType(t, err, &ValidationError{})
	})
}

func TestEngineFullEditorialPass(t *testing.T) {
	e, st, inv := newTestEngine(t)
	ctx := context.Background()
	a := seedArticle(t, st, models.StatusDraft)

	if _, err := e.SubmitForReview(ctx, a.ID, owner); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.Reject(ctx, a.ID, moderator, "missing quotes"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := e.UpdateContent(ctx, a.ID, owner, "Budget Hearing Recap", "Now with quotes."); err != nil {
		t.Fatalf("edit after reject: %v", err)
	}
	if _, err := e.SubmitForReview(ctx, a.ID, owner); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if _, err := e.Approve(ctx, a.ID, moderator); err != nil {
		t.Fatalf("approve: %v", err)
	}
	pub, err := e.Publish(ctx, a.ID, moderator, PlacementOptions{Essential: true, IsPremium: true})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.Status != models.StatusPublished {
		t.Errorf("status: got %q, want published", pub.Status)
	}
	if pub.RejectionReason != nil {
		t.Error("rejection reason must not survive the resubmission")
	}

	stored, _ := st.FindByID(ctx, a.ID)
	if stored.Status != models.StatusPublished {
		t.Errorf("stored status: got %q, want published", stored.Status)
	}
	if inv.count() != 6 {
		t.Errorf("cache invalidations: got %d, want one per transition (6)", inv.count())
	}
}

func TestEngineFailedTransitionLeavesStoreUntouched(t *testing.T) {
	e, st, inv := newTestEngine(t)
	ctx := context.Background()
	a := seedArticle(t, st, models.StatusApproved)

	// Standard article with no placement: the publish must fail whole.
	_, err := e.Publish(ctx, a.ID, moderator, PlacementOptions{})
	assertErrType(t, err, &ValidationError{})

	stored, _ := st.FindByID(ctx, a.ID)
	if stored.Status != models.StatusApproved || stored.Section != nil || stored.PublishedAt != nil {
		t.Error("failed publish leaked partial state into the store")
	}
	if inv.count() != 0 {
		t.Error("failed transition must not invalidate the cache")
	}
}

func TestEngineConcurrentModerationOneWinner(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	a := seedArticle(t, st, models.StatusPending)

	// Between the reject's read and write, an approve lands first.
	st.beforeUpdate = func() {
		st.beforeUpdate = nil
		if _, err := e.Approve(ctx, a.ID, moderator); err != nil {
			t.Errorf("approve: %v", err)
		}
	}

	_, err := e.Reject(ctx, a.ID, moderator, "too thin")
	assertErrType(t, err, &ConflictError{})

	stored, _ := st.FindByID(ctx, a.ID)
	if stored.Status != models.StatusApproved {
		t.Errorf("stored status: got %q, want approved (the first writer wins)", stored.Status)
	}
	if stored.RejectionReason != nil {
		t.Error("the losing reject must leave no trace")
	}
}

func TestEngineScheduledPublishThroughStore(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	a := seedArticle(t, st, models.StatusApproved)

	fireAt := e.Now().Add(time.Hour)
	if _, err := e.Publish(ctx, a.ID, moderator, PlacementOptions{
		Section:            sectionPtr(models.SectionFocus),
		IsScheduled:        true,
		ScheduledPublishAt: &fireAt,
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	t.Run("firing early refused", func(t *testing.T) {
		_, err := e.FireScheduledPublish(ctx, a.ID)
		assertErrType(t, err, &ValidationError{})
	})

	e.Now = func() time.Time { return fireAt }

	fired, err := e.FireScheduledPublish(ctx, a.ID)
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if fired.Status != models.StatusPublished {
		t.Errorf("status: got %q, want published", fired.Status)
	}
	if fired.Section == nil || *fired.Section != models.SectionFocus {
		t.Error("placement captured at schedule time was lost")
	}

	t.Run("firing again is a no-op", func(t *testing.T) {
		again, err := e.FireScheduledPublish(ctx, a.ID)
		if err != nil {
			t.Fatalf("second fire: %v", err)
		}
		if !again.PublishedAt.Equal(*fired.PublishedAt) {
			t.Error("published_at must not move on a repeated fire")
		}
	})
}

func TestEngineNotFound(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Approve(ctx, uuid.New(), moderator)
	assertErrType(t, err, &NotFoundError{})

	_, err = e.FireScheduledPublish(ctx, uuid.New())
	assertErrType(t, err, &NotFoundError{})
}

func TestEngineUnpublishKeepsPlacement(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()
	a := seedArticle(t, st, models.StatusApproved)

	if _, err := e.Publish(ctx, a.ID, moderator, PlacementOptions{
		Section:        sectionPtr(models.SectionChronicle),
		IsPremium:      true,
		IsFeaturedHome: true,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	down, err := e.Unpublish(ctx, a.ID, moderator)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if down.Status != models.StatusApproved || down.PublishedAt != nil {
		t.Error("unpublish must land on approved with no publish timestamp")
	}

	up, err := e.Publish(ctx, a.ID, moderator, PlacementOptions{
		Section:        down.Section,
		IsPremium:      down.IsPremium,
		IsFeaturedHome: down.IsFeaturedHome,
	})
	if err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	if up.Section == nil || *up.Section != models.SectionChronicle || !up.IsPremium || !up.IsFeaturedHome {
		t.Error("re-publish with the preserved placement must restore the same feeds")
	}
}
