package repository

import (
	"context"
	"time"

	"CardScout/internal/domain/models"
	domrepo "CardScout/internal/domain/repository"
	pkgkafka "CardScout/pkg/kafka"
)

// ScoredEvent is the listing.scored payload.
type ScoredEvent struct {
	ListingID      string             `json:"listingId"`
	Marketplace    models.Marketplace `json:"marketplace"`
	Title          string             `json:"title"`
	Player         string             `json:"player"`
	Year           int                `json:"year"`
	Sport          models.Sport       `json:"sport"`
	Price          float64            `json:"price"`
	Currency       string             `json:"currency"`
	ListingURL     string             `json:"listingUrl"`
	DealScore      float64            `json:"dealScore"`
	Recommendation models.Tier        `json:"recommendation"`
	ScoredAt       time.Time          `json:"scoredAt"`
}

// publisher is the part of the Kafka producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaEventPublisher emits scored listings and triggered alerts. Scored
// listings are keyed by marketplace and listing id, alerts by user.
type KafkaEventPublisher struct {
	p           publisher
	scoredTopic string
	alertTopic  string
	now         func() time.Time
}

func NewKafkaEventPublisher(p *pkgkafka.Producer, scoredTopic, alertTopic string) *KafkaEventPublisher {
	return newKafkaEventPublisher(p, scoredTopic, alertTopic)
}

func newKafkaEventPublisher(p publisher, scoredTopic, alertTopic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{p: p, scoredTopic: scoredTopic, alertTopic: alertTopic, now: time.Now}
}

func (k *KafkaEventPublisher) PublishScored(ctx context.Context, listings []models.ScoredListing) error {
	if len(listings) == 0 {
		return nil
	}
	at := k.now().UTC()
	msgs := make([]pkgkafka.Message, 0, len(listings))
	for _, s := range listings {
		l := s.Listing
		msgs = append(msgs, pkgkafka.Message{
			Key: []byte(string(l.Marketplace) + ":" + l.ID),
			Value: ScoredEvent{
				ListingID:      l.ID,
				Marketplace:    l.Marketplace,
				Title:          l.Card.Title,
				Player:         l.Card.Player,
				Year:           l.Card.Year,
				Sport:          l.Card.Sport,
				Price:          l.Price,
				Currency:       l.Currency,
				ListingURL:     l.ListingURL,
				DealScore:      s.DealScore.Overall,
				Recommendation: s.DealScore.Recommendation,
				ScoredAt:       at,
			},
		})
	}
	return k.p.PublishBatch(ctx, k.scoredTopic, msgs)
}

func (k *KafkaEventPublisher) PublishAlert(ctx context.Context, ev models.AlertTriggered) error {
	return k.p.Publish(ctx, k.alertTopic, []byte(ev.UserID), ev)
}

func (k *KafkaEventPublisher) Close() error { return k.p.Close() }

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishScored(context.Context, []models.ScoredListing) error { return nil }
func (NopEventPublisher) PublishAlert(context.Context, models.AlertTriggered) error   { return nil }
func (NopEventPublisher) Close() error                                                { return nil }

var (
	_ domrepo.EventPublisher   = (*KafkaEventPublisher)(nil)
	_ domrepo.EventPublisher   = NopEventPublisher{}
	_ domrepo.ObservationStore = (*CHObservationStore)(nil)
	_ domrepo.ObservationStore = (*MemoryObservationStore)(nil)
)
