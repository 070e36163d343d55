package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/models"
)

func newCatalogFixture() (*fakeCatalogRepo, CatalogService) {
	repo := newFakeCatalogRepo()
	return repo, NewCatalogService(repo, zap.NewNop())
}

func TestCatalog_CreateAndGetSeries(t *testing.T) {
	_, svc := newCatalogFixture()

	created, err := svc.CreateSeries(context.Background(), models.CreateSeriesRequest{Name: "Yoga Flow", Description: "d", Image: "i.jpg"})
	if err != nil {
		t.Fatalf("CreateSeries returned error: %v", err)
	}
	got, err := svc.GetSeries(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetSeries returned error: %v", err)
	}
	if got.Name != "Yoga Flow" {
		t.Errorf("series name = %q", got.Name)
	}

	if _, err := svc.GetSeries(context.Background(), 999); !errors.Is(err, ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestCatalog_UpdateSeriesPartial(t *testing.T) {
	_, svc := newCatalogFixture()
	created, err := svc.CreateSeries(context.Background(), models.CreateSeriesRequest{Name: "Yoga Flow", Description: "original", Image: "i.jpg"})
	if err != nil {
		t.Fatalf("CreateSeries returned error: %v", err)
	}

	newName := "Yoga Flow II"
	updated, err := svc.UpdateSeries(context.Background(), created.ID, models.UpdateSeriesRequest{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateSeries returned error: %v", err)
	}
	if updated.Name != "Yoga Flow II" {
		t.Errorf("name = %q", updated.Name)
	}
	// Fields not present in the request keep their values.
	if updated.Description != "original" || updated.Image != "i.jpg" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestCatalog_EpisodeLifecycle(t *testing.T) {
	_, svc := newCatalogFixture()
	series, err := svc.CreateSeries(context.Background(), models.CreateSeriesRequest{Name: "Yoga Flow"})
	if err != nil {
		t.Fatalf("CreateSeries returned error: %v", err)
	}

	pos := 1
	episode, err := svc.CreateEpisode(context.Background(), models.CreateEpisodeRequest{
		SeriesID: series.ID,
		Name:     "Intro",
		VideoURL: "https://cdn.example.com/intro.mp4",
		Position: &pos,
	})
	if err != nil {
		t.Fatalf("CreateEpisode returned error: %v", err)
	}

	episodes, err := svc.ListEpisodes(context.Background(), series.ID)
	if err != nil {
		t.Fatalf("ListEpisodes returned error: %v", err)
	}
	if len(episodes) != 1 || episodes[0].Name != "Intro" {
		t.Errorf("episodes = %+v", episodes)
	}

	if err := svc.DeleteEpisode(context.Background(), episode.ID); err != nil {
		t.Fatalf("DeleteEpisode returned error: %v", err)
	}
	if err := svc.DeleteEpisode(context.Background(), episode.ID); !errors.Is(err, ErrEpisodeNotFound) {
		t.Errorf("expected ErrEpisodeNotFound, got %v", err)
	}
}

func TestCatalog_CreateEpisodeForUnknownSeries(t *testing.T) {
	_, svc := newCatalogFixture()
	_, err := svc.CreateEpisode(context.Background(), models.CreateEpisodeRequest{SeriesID: 42, Name: "Orphan"})
	if !errors.Is(err, ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
}
