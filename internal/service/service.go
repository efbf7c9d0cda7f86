package service

import (
	"context"
	"fmt"

	"gigflow/internal/auth"
	"gigflow/internal/models"
	"gigflow/internal/repository"
)

type Service struct {
	repo repository.Store
}

func NewService(repo repository.Store) *Service {
	return &Service{repo: repo}
}

//// Users

func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.RegisterUser: %w", err)
	}

	user, err := s.repo.AddUser(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.RegisterUser: %w", err)
	}

	return user, nil
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (models.User, error) {
	user, ok, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.LoginUser: %w", err)
	}
	if !ok || !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, fmt.Errorf("service.Service.LoginUser: %w", models.ErrInvalidCredentials)
	}

	return user, nil
}

func (s *Service) UserByUUID(ctx context.Context, userId string) (models.User, error) {
	user, ok, err := s.repo.UserByUUID(ctx, userId)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.UserByUUID: %w", err)
	}
	if !ok {
		return models.User{}, fmt.Errorf("service.Service.UserByUUID: %w", models.ErrNoUser)
	}

	return user, nil
}

//// Gigs

func (s *Service) GetGigs(ctx context.Context, limit, offset int, search string) ([]models.Gig, error) {
	gigs, err := s.repo.GetGigs(ctx, limit, offset, search)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetGigs: %w", err)
	}
	return gigs, nil
}

func (s *Service) AddGig(ctx context.Context, ownerId string, gig models.Gig) (models.Gig, error) {
	gig.OwnerId = ownerId
	gig.Status = models.GigOpen

	gig, err := s.repo.AddGig(ctx, gig)
	if err != nil {
		return gig, fmt.Errorf("service.Service.AddGig: %w", err)
	}

	return gig, nil
}

func (s *Service) GetGig(ctx context.Context, gigId string) (models.Gig, error) {
	gig, ok, err := s.repo.GetGigByUUID(ctx, gigId)
	if err != nil {
		return models.Gig{}, fmt.Errorf("service.Service.GetGig: %w", err)
	}
	if !ok {
		return models.Gig{}, fmt.Errorf("service.Service.GetGig: %w", models.ErrNoGig)
	}

	return gig, nil
}

//// Bids

func (s *Service) AddBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	// check if gig exists
	gig, ok, err := s.repo.GetGigByUUID(ctx, bid.GigId)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service.Service.AddBid: %w", err)
	}
	if !ok {
		return models.Bid{}, fmt.Errorf("service.Service.AddBid: %w", models.ErrNoGig)
	}

	// check if gig is still accepting bids
	if gig.Status != models.GigOpen {
		return models.Bid{}, fmt.Errorf("service.Service.AddBid: %w", models.ErrGigClosed)
	}

	// owners do not bid on their own gigs
	if gig.OwnerId == bid.FreelancerId {
		return models.Bid{}, fmt.Errorf("service.Service.AddBid: %w", models.ErrOwnGigBid)
	}

	// add bid; one per (gig, freelancer) pair is enforced by the store
	bid, err = s.repo.AddBid(ctx, bid)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service.Service.AddBid: %w", err)
	}

	return bid, nil
}

func (s *Service) GetUserBids(ctx context.Context, freelancerId string, limit, offset int) ([]models.Bid, error) {
	bids, err := s.repo.GetBids(ctx, limit, offset, freelancerId, "")
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetUserBids: %w", err)
	}
	return bids, nil
}

func (s *Service) GetGigBids(ctx context.Context, actingUserId, gigId string, limit, offset int) ([]models.Bid, error) {
	// check if gig exists
	gig, ok, err := s.repo.GetGigByUUID(ctx, gigId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetGigBids: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("service.Service.GetGigBids: %w", models.ErrNoGig)
	}

	// only the gig owner sees its bids
	if gig.OwnerId != actingUserId {
		return nil, fmt.Errorf("service.Service.GetGigBids: %w", models.ErrForbidden)
	}

	bids, err := s.repo.GetBids(ctx, limit, offset, "", gigId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetGigBids: %w", err)
	}
	return bids, nil
}

// HireBid settles a gig in favor of one bid. All precondition checks
// (bid exists, gig exists, acting user owns the gig, gig still open) and the
// three-way state change run inside the store's atomic update, so concurrent
// hires on the same gig cannot both win. The returned result carries what the
// caller needs to notify the hired freelancer; notification is the caller's
// decision and never part of the settlement itself.
func (s *Service) HireBid(ctx context.Context, actingUserId, bidId string) (models.HireResult, error) {
	res, err := s.repo.HireBid(ctx, bidId, actingUserId)
	if err != nil {
		return models.HireResult{}, fmt.Errorf("service.Service.HireBid: %w", err)
	}
	return res, nil
}
