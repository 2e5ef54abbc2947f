package service

import (
	"context"

	"CardScout/internal/domain/models"
)

// Marketplace fetches raw listings from one marketplace.
type Marketplace interface {
	Name() models.Marketplace
	Search(ctx context.Context, q models.SearchQuery) (models.SearchResult, error)
	Detail(ctx context.Context, id string) (models.RawListing, error)
}

// Notifier pushes triggered alerts to connected clients.
type Notifier interface {
	Broadcast(ev models.AlertTriggered)
}

// Grader looks up certificates and population reports at grading companies.
type Grader interface {
	Verify(ctx context.Context, company models.GradingCompany, cert string) (models.CertVerification, error)
	Population(ctx context.Context, company models.GradingCompany, card string) (models.PopulationReport, error)
}
