package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
)

const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"

	LabelActive   = "Active"
	LabelInactive = "Inactive"
)

// accessStatuses are the provider statuses that grant content access
// directly, regardless of the stored period end.
var accessStatuses = map[string]bool{
	StatusActive:   true,
	StatusTrialing: true,
	StatusPastDue:  true,
}

var inactiveStatuses = map[string]bool{
	"canceled":           true,
	"incomplete":         true,
	"incomplete_expired": true,
	"unpaid":             true,
}

// StatusLabel maps a provider subscription status onto the display label
// shown in the account page. Statuses are lowercased before matching;
// unknown ones pass through (lowercased) so new provider states surface
// instead of being mislabeled.
func StatusLabel(status string) string {
	status = strings.ToLower(status)
	switch {
	case status == "":
		return ""
	case accessStatuses[status]:
		return LabelActive
	case inactiveStatuses[status]:
		return LabelInactive
	default:
		return status
	}
}

type subscriptionService struct {
	customers db.CustomerRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewSubscriptionService(customers db.CustomerRepository, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *subscriptionService) latest(ctx context.Context, uid string) (*models.Subscription, error) {
	sub, err := s.customers.LatestSubscription(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) HasAccess(ctx context.Context, uid string) bool {
	sub, err := s.latest(ctx, uid)
	if err != nil {
		// Fail closed: an unreadable subscription store must not open the gate.
		s.logger.Warn("subscription lookup failed, denying access",
			zap.String("uid", uid), zap.Error(err))
		return false
	}
	if sub == nil {
		return false
	}
	if accessStatuses[strings.ToLower(sub.Status)] {
		return true
	}
	// A canceled subscription keeps access until the paid period runs out.
	return sub.CurrentPeriodEnd.After(s.now())
}

func (s *subscriptionService) Status(ctx context.Context, uid string) (string, string, error) {
	sub, err := s.latest(ctx, uid)
	if err != nil {
		return "", "", err
	}
	if sub == nil {
		return "", "", nil
	}
	return sub.Status, StatusLabel(sub.Status), nil
}
