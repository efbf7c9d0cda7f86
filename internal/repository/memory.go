package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gigflow/internal/models"

	"github.com/google/uuid"
)

// MemoryRepo is a concurrency-safe in-memory Store. It backs tests and local
// runs without postgres; the single mutex gives HireBid the same all-or-nothing,
// serialized-per-gig behavior the SQL transaction provides.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]models.User // key: user id
	gigs  map[string]models.Gig  // key: gig id
	bids  map[string]models.Bid  // key: bid id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users: make(map[string]models.User),
		gigs:  make(map[string]models.Gig),
		bids:  make(map[string]models.Bid),
	}
}

//// Users

func (r *MemoryRepo) AddUser(ctx context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return user, fmt.Errorf("repository.MemoryRepo.AddUser: %w", models.ErrEmailTaken)
		}
	}

	user.Id = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.Id] = user

	return user, nil
}

func (r *MemoryRepo) UserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (r *MemoryRepo) UserByUUID(ctx context.Context, UUID string) (models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[UUID]
	return u, ok, nil
}

//// Gigs

func (r *MemoryRepo) AddGig(ctx context.Context, gig models.Gig) (models.Gig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gig.Id = uuid.NewString()
	gig.Status = models.GigOpen
	gig.CreatedAt = time.Now().UTC()
	gig.UpdatedAt = gig.CreatedAt
	if owner, ok := r.users[gig.OwnerId]; ok {
		gig.OwnerName = owner.Name
	}
	r.gigs[gig.Id] = gig

	return gig, nil
}

func (r *MemoryRepo) GetGigs(ctx context.Context, limit, offset int, search string) ([]models.Gig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Gig
	search = strings.ToLower(search)
	for _, g := range r.gigs {
		if search == "" || strings.Contains(strings.ToLower(g.Title), search) {
			result = append(result, g)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return page(result, limit, offset), nil
}

func (r *MemoryRepo) GetGigByUUID(ctx context.Context, UUID string) (models.Gig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gigs[UUID]
	return g, ok, nil
}

//// Bids

func (r *MemoryRepo) AddBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gig, ok := r.gigs[bid.GigId]
	if !ok {
		return bid, fmt.Errorf("repository.MemoryRepo.AddBid: %w", models.ErrNoGig)
	}

	for _, b := range r.bids {
		if b.GigId == bid.GigId && b.FreelancerId == bid.FreelancerId {
			return bid, fmt.Errorf("repository.MemoryRepo.AddBid: %w", models.ErrDuplicateBid)
		}
	}

	bid.Id = uuid.NewString()
	bid.Status = models.BidPending
	bid.GigTitle = gig.Title
	bid.CreatedAt = time.Now().UTC()
	bid.UpdatedAt = bid.CreatedAt
	r.bids[bid.Id] = bid

	return bid, nil
}

func (r *MemoryRepo) GetBids(ctx context.Context, limit, offset int, freelancerId, gigId string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Bid
	for _, b := range r.bids {
		if len(freelancerId) > 0 && b.FreelancerId != freelancerId {
			continue
		}
		if len(gigId) > 0 && b.GigId != gigId {
			continue
		}
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return page(result, limit, offset), nil
}

func (r *MemoryRepo) GetBidByUUID(ctx context.Context, UUID string) (models.Bid, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bids[UUID]
	return b, ok, nil
}

func (r *MemoryRepo) HireBid(ctx context.Context, bidId, actingUserId string) (models.HireResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res models.HireResult

	bid, ok := r.bids[bidId]
	if !ok {
		return res, fmt.Errorf("repository.MemoryRepo.HireBid: %w", models.ErrNoBid)
	}

	gig, ok := r.gigs[bid.GigId]
	if !ok {
		return res, fmt.Errorf("repository.MemoryRepo.HireBid: %w", models.ErrNoGig)
	}

	if gig.OwnerId != actingUserId {
		return res, fmt.Errorf("repository.MemoryRepo.HireBid: %w", models.ErrForbidden)
	}
	if gig.Status != models.GigOpen {
		return res, fmt.Errorf("repository.MemoryRepo.HireBid: %w", models.ErrGigAssigned)
	}

	now := time.Now().UTC()

	gig.Status = models.GigAssigned
	gig.UpdatedAt = now
	r.gigs[gig.Id] = gig

	bid.Status = models.BidHired
	bid.GigTitle = gig.Title
	bid.UpdatedAt = now
	r.bids[bid.Id] = bid

	for id, b := range r.bids {
		if b.GigId == gig.Id && b.Id != bid.Id && b.Status == models.BidPending {
			b.Status = models.BidRejected
			b.UpdatedAt = now
			r.bids[id] = b
		}
	}

	res.Bid = bid
	res.GigTitle = gig.Title
	res.FreelancerId = bid.FreelancerId
	return res, nil
}

//// Service

func page[T any](vals []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(vals) {
		return nil
	}
	vals = vals[offset:]
	if limit > 0 && limit < len(vals) {
		vals = vals[:limit]
	}
	return vals
}
