package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/models"
)

func newCommentFixture() (*fakeCommentRepo, *fakeCatalogRepo, CommentService) {
	comments := newFakeCommentRepo()
	catalog := newFakeCatalogRepo()
	svc := NewCommentService(comments, catalog, zap.NewNop())
	return comments, catalog, svc
}

func TestComment_CreateAndList(t *testing.T) {
	_, catalog, svc := newCommentFixture()
	catalog.episodes[3] = &models.Episode{ID: 3, SeriesID: 1, Name: "Warmup"}

	created, err := svc.Create(context.Background(), 3, "a@b.com", "  great session  ", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Body != "great session" {
		t.Errorf("body not trimmed: %q", created.Body)
	}
	if created.Author != "a@b.com" {
		t.Errorf("author = %q", created.Author)
	}
	if created.Rating != nil {
		t.Errorf("rating should stay unset, got %d", *created.Rating)
	}

	list, err := svc.ListByEpisode(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListByEpisode returned error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 comment, got %d", len(list))
	}
}

func TestComment_CreateWithRating(t *testing.T) {
	comments, catalog, svc := newCommentFixture()
	catalog.episodes[3] = &models.Episode{ID: 3, SeriesID: 1, Name: "Warmup"}

	score := 4
	created, err := svc.Create(context.Background(), 3, "a@b.com", "loved it", &score)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Rating == nil || *created.Rating != 4 {
		t.Fatalf("rating not carried onto the comment: %+v", created.Rating)
	}
	stored := comments.comments[created.ID]
	if stored.Rating == nil || *stored.Rating != 4 {
		t.Errorf("stored rating = %+v, want 4", stored.Rating)
	}

	for _, bad := range []int{0, 6, -1} {
		bad := bad
		if _, err := svc.Create(context.Background(), 3, "a@b.com", "nope", &bad); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("rating %d: expected ErrInvalidScore, got %v", bad, err)
		}
	}
}

func TestComment_CreateValidation(t *testing.T) {
	_, catalog, svc := newCommentFixture()
	catalog.episodes[3] = &models.Episode{ID: 3}

	if _, err := svc.Create(context.Background(), 3, "a@b.com", "   ", nil); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 99, "a@b.com", "hello", nil); !errors.Is(err, ErrEpisodeNotFound) {
		t.Errorf("expected ErrEpisodeNotFound, got %v", err)
	}
}

func TestComment_DeleteOwnership(t *testing.T) {
	_, catalog, svc := newCommentFixture()
	catalog.episodes[3] = &models.Episode{ID: 3}
	created, err := svc.Create(context.Background(), 3, "owner@b.com", "mine", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Someone else, not admin.
	if err := svc.Delete(context.Background(), created.ID, "other@b.com", false); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	// Admin may delete anyone's comment.
	if err := svc.Delete(context.Background(), created.ID, "admin@b.com", true); err != nil {
		t.Errorf("admin delete returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, "owner@b.com", false); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("expected ErrCommentNotFound after deletion, got %v", err)
	}
}

func TestComment_OwnerCanDelete(t *testing.T) {
	_, catalog, svc := newCommentFixture()
	catalog.episodes[3] = &models.Episode{ID: 3}
	created, err := svc.Create(context.Background(), 3, "owner@b.com", "mine", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "owner@b.com", false); err != nil {
		t.Errorf("owner delete returned error: %v", err)
	}
}
