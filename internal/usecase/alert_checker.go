package usecase

import (
	"context"
	"fmt"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/domain/service"
	"CardScout/internal/services/normalize"
	applogger "CardScout/pkg/logger"
)

const alertSearchLimit = 20

// AlertChecker evaluates a user's active price alerts against live listings.
type AlertChecker struct {
	alerts   repository.AlertStore
	adapters MarketplaceSet
	events   repository.EventPublisher
	notifier service.Notifier
	metrics  repository.Metrics
	log      *applogger.Logger
	now      func() time.Time
}

func NewAlertChecker(alerts repository.AlertStore, adapters MarketplaceSet, events repository.EventPublisher,
	notifier service.Notifier, metrics repository.Metrics, l *applogger.Logger) *AlertChecker {
	if l == nil {
		l = applogger.Nop()
	}
	return &AlertChecker{
		alerts:   alerts,
		adapters: adapters,
		events:   events,
		notifier: notifier,
		metrics:  metrics,
		log:      l,
		now:      time.Now,
	}
}

// CheckAll runs one pass over the user's active alerts. The lowest priced
// listing across the alert's marketplaces decides whether it fires.
// A failure on one alert does not stop the others.
func (c *AlertChecker) CheckAll(ctx context.Context, userID string) (models.AlertCheckResult, error) {
	alerts, err := c.alerts.ListActiveAlerts(ctx, userID)
	if err != nil {
		return models.AlertCheckResult{}, fmt.Errorf("list active alerts: %w", err)
	}

	res := models.AlertCheckResult{Triggered: []models.AlertTriggered{}}
	for _, a := range alerts {
		res.AlertsChecked++

		ev, fired, err := c.check(ctx, a)
		if err != nil {
			if res.Errors == nil {
				res.Errors = make(map[string]string)
			}
			res.Errors[a.ID] = err.Error()
			c.metrics.RecordError("alert_check")
			continue
		}
		if err := c.alerts.MarkAlertChecked(ctx, a.ID, c.now().UTC(), fired); err != nil {
			c.log.Warn("mark alert checked failed", applogger.String("alert_id", a.ID), applogger.Error(err))
		}
		if !fired {
			continue
		}

		res.Triggered = append(res.Triggered, ev)
		res.NotificationsSent++
		c.metrics.RecordAlertTriggered(string(ev.Marketplace))
		if c.notifier != nil {
			c.notifier.Broadcast(ev)
		}
		if c.events != nil {
			if err := c.events.PublishAlert(ctx, ev); err != nil {
				c.log.Warn("publish alert failed", applogger.String("alert_id", a.ID), applogger.Error(err))
			}
		}
	}
	return res, nil
}

func (c *AlertChecker) check(ctx context.Context, a models.PriceAlert) (models.AlertTriggered, bool, error) {
	adapters, err := c.adaptersFor(a.Marketplace)
	if err != nil {
		return models.AlertTriggered{}, false, err
	}

	q := models.SearchQuery{Keywords: a.CardName, Limit: alertSearchLimit, Sort: models.SortPrice}
	var best *models.CardListing
	var lastErr error
	for _, m := range adapters {
		sr, err := m.Search(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		for _, l := range normalize.NormalizeAll(sr.Items) {
			if l.Price <= 0 {
				continue
			}
			if best == nil || l.Price < best.Price {
				l := l
				best = &l
			}
		}
	}
	if best == nil {
		if lastErr != nil {
			return models.AlertTriggered{}, false, lastErr
		}
		return models.AlertTriggered{}, false, nil
	}
	if !a.Matches(best.Price) {
		return models.AlertTriggered{}, false, nil
	}

	return models.AlertTriggered{
		AlertID:     a.ID,
		UserID:      a.UserID,
		CardName:    a.CardName,
		AlertType:   a.AlertType,
		TargetPrice: a.TargetPrice,
		Price:       best.Price,
		Marketplace: best.Marketplace,
		ListingURL:  best.ListingURL,
		TriggeredAt: c.now().UTC(),
	}, true, nil
}

func (c *AlertChecker) adaptersFor(name string) ([]service.Marketplace, error) {
	if name == "" || name == "all" {
		return c.adapters.Searchable(), nil
	}
	a, err := c.adapters.Get(models.Marketplace(name))
	if err != nil {
		return nil, err
	}
	return []service.Marketplace{a}, nil
}
