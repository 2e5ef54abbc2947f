package marketplace

import (
	"fmt"
	"sort"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/service"
)

// Registry looks adapters up by marketplace name.
type Registry struct {
	adapters map[models.Marketplace]service.Marketplace
}

func NewRegistry(adapters ...service.Marketplace) *Registry {
	r := &Registry{adapters: make(map[models.Marketplace]service.Marketplace, len(adapters))}
	for _, a := range adapters {
		if a != nil {
			r.adapters[a.Name()] = a
		}
	}
	return r
}

// Get returns the adapter for m or an UNSUPPORTED_MARKETPLACE error.
func (r *Registry) Get(m models.Marketplace) (service.Marketplace, error) {
	a, ok := r.adapters[m]
	if !ok {
		return nil, newError(m, "UNSUPPORTED_MARKETPLACE", fmt.Sprintf("marketplace %q is not supported", m), ErrNotImplemented)
	}
	return a, nil
}

// Searchable returns the adapters a deal search fans out to, in name order.
// Fanatics is excluded since it cannot search.
func (r *Registry) Searchable() []service.Marketplace {
	out := make([]service.Marketplace, 0, len(r.adapters))
	for name, a := range r.adapters {
		if name == models.MarketplaceFanatics {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names lists the registered marketplaces.
func (r *Registry) Names() []models.Marketplace {
	out := make([]models.Marketplace, 0, len(r.adapters))
	for name := range r.adapters {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
