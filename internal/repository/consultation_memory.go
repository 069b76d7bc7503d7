package repository

import (
	"context"
	"time"

	"github.com/medlane/prediag-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// ConsultationMemory is the in-memory consultation store. Sessions live
// only for the lifetime of the process; the TTL bounds growth, and any
// update extends a session's lease. Readers get deep copies, so the owning
// connection loop is the only writer of its working record.
type ConsultationMemory struct {
	cache *gocache.Cache
}

func NewConsultationMemory(ttl, janitorInterval time.Duration) *ConsultationMemory {
	return &ConsultationMemory{
		cache: gocache.New(ttl, janitorInterval),
	}
}

// Create stores a new consultation record.
func (r *ConsultationMemory) Create(ctx context.Context, c *entity.Consultation) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.cache.SetDefault(c.ID, c.Clone())
	return nil
}

// Get returns a copy of the stored record, or entity.ErrSessionNotFound.
func (r *ConsultationMemory) Get(ctx context.Context, id string) (*entity.Consultation, error) {
	stored, ok := r.cache.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return stored.(*entity.Consultation).Clone(), nil
}

// Update replaces the stored record and renews its TTL.
func (r *ConsultationMemory) Update(ctx context.Context, c *entity.Consultation) error {
	if _, ok := r.cache.Get(c.ID); !ok {
		return entity.ErrSessionNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	r.cache.SetDefault(c.ID, c.Clone())
	return nil
}

// Count reports how many sessions are currently stored.
func (r *ConsultationMemory) Count() int {
	return r.cache.ItemCount()
}
