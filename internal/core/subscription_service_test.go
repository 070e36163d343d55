package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/models"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"active", "Active"},
		{"trialing", "Active"},
		{"past_due", "Active"},
		{"canceled", "Inactive"},
		{"incomplete", "Inactive"},
		{"incomplete_expired", "Inactive"},
		{"unpaid", "Inactive"},
		{"", ""},
		{"paused", "paused"}, // unknown statuses pass through
		// Provider casing is not trusted: statuses are lowercased before
		// matching, and unknown ones come back lowercased too.
		{"TRIALING", "Active"},
		{"Canceled", "Inactive"},
		{"Weird_Status", "weird_status"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestHasAccess_StatusTable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"active", true},
		{"trialing", true},
		{"past_due", true},
		{"canceled", false},
		{"unpaid", false},
		{"incomplete", false},
		{"ACTIVE", true},
	}
	for _, tt := range tests {
		repo := newFakeCustomerRepo()
		repo.subscriptions["u1"] = &models.Subscription{
			Status:           tt.status,
			CurrentPeriodEnd: time.Now().Add(-time.Hour), // expired period
		}
		svc := NewSubscriptionService(repo, zap.NewNop())
		if got := svc.HasAccess(context.Background(), "u1"); got != tt.want {
			t.Errorf("HasAccess with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestHasAccess_CanceledWithRemainingPeriod(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.subscriptions["u1"] = &models.Subscription{
		Status:           "canceled",
		CurrentPeriodEnd: time.Now().Add(48 * time.Hour),
	}
	svc := NewSubscriptionService(repo, zap.NewNop())
	if !svc.HasAccess(context.Background(), "u1") {
		t.Error("expected access to remain until the paid period ends")
	}
}

func TestHasAccess_NoSubscription(t *testing.T) {
	svc := NewSubscriptionService(newFakeCustomerRepo(), zap.NewNop())
	if svc.HasAccess(context.Background(), "u1") {
		t.Error("expected no access for a user without subscriptions")
	}
}

func TestHasAccess_FailsClosedOnLookupError(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.getErr = errors.New("firestore unavailable")
	svc := NewSubscriptionService(repo, zap.NewNop())
	if svc.HasAccess(context.Background(), "u1") {
		t.Error("expected access to be denied when the subscription store is unreadable")
	}
}

func TestStatus(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.subscriptions["u1"] = &models.Subscription{Status: "active"}
	svc := NewSubscriptionService(repo, zap.NewNop())

	status, label, err := svc.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status != "active" || label != "Active" {
		t.Errorf("Status = (%q, %q), want (active, Active)", status, label)
	}

	status, label, err = svc.Status(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Status for unknown user returned error: %v", err)
	}
	if status != "" || label != "" {
		t.Errorf("Status for unknown user = (%q, %q), want empty", status, label)
	}
}
