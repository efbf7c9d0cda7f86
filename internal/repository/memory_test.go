package repository

import (
	"context"
	"errors"
	"testing"

	"gigflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func addMemUser(t *testing.T, r *MemoryRepo, email string) models.User {
	t.Helper()
	user, err := r.AddUser(context.Background(), models.User{Name: email, Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return user
}

func addMemGig(t *testing.T, r *MemoryRepo, ownerId, title string) models.Gig {
	t.Helper()
	gig, err := r.AddGig(context.Background(), models.Gig{
		OwnerId: ownerId,
		Title:   title,
		Budget:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return gig
}

func TestMemoryGigSearch(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	owner := addMemUser(t, r, "owner@example.com")
	addMemGig(t, r, owner.Id, "Build a Website")
	addMemGig(t, r, owner.Id, "design a logo")
	addMemGig(t, r, owner.Id, "translate a website")

	gigs, err := r.GetGigs(ctx, 0, 0, "")
	require.NoError(t, err)
	require.Len(t, gigs, 3)
	require.Equal(t, owner.Name, gigs[0].OwnerName)

	gigs, err = r.GetGigs(ctx, 0, 0, "WEBSITE")
	require.NoError(t, err)
	require.Len(t, gigs, 2)

	gigs, err = r.GetGigs(ctx, 0, 0, "nothing-matches")
	require.NoError(t, err)
	require.Empty(t, gigs)

	// a negative offset reads from the start instead of panicking
	gigs, err = r.GetGigs(ctx, 0, -1, "")
	require.NoError(t, err)
	require.Len(t, gigs, 3)
}

func TestMemoryBidFilters(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	owner := addMemUser(t, r, "owner@example.com")
	f1 := addMemUser(t, r, "f1@example.com")
	f2 := addMemUser(t, r, "f2@example.com")
	gig1 := addMemGig(t, r, owner.Id, "gig one")
	gig2 := addMemGig(t, r, owner.Id, "gig two")

	for _, pair := range [][2]string{{gig1.Id, f1.Id}, {gig1.Id, f2.Id}, {gig2.Id, f1.Id}} {
		_, err := r.AddBid(ctx, models.Bid{GigId: pair[0], FreelancerId: pair[1], Price: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}

	bids, err := r.GetBids(ctx, 0, 0, f1.Id, "")
	require.NoError(t, err)
	require.Len(t, bids, 2)

	bids, err = r.GetBids(ctx, 0, 0, "", gig1.Id)
	require.NoError(t, err)
	require.Len(t, bids, 2)

	bids, err = r.GetBids(ctx, 0, 0, f2.Id, gig2.Id)
	require.NoError(t, err)
	require.Empty(t, bids)

	_, err = r.AddBid(ctx, models.Bid{GigId: gig1.Id, FreelancerId: f1.Id})
	require.True(t, errors.Is(err, models.ErrDuplicateBid))

	_, err = r.AddBid(ctx, models.Bid{GigId: "no-such-gig", FreelancerId: f1.Id})
	require.True(t, errors.Is(err, models.ErrNoGig))
}

func TestPage(t *testing.T) {
	vals := []int{1, 2, 3, 4, 5}

	require.Equal(t, vals, page(vals, 0, 0))
	require.Equal(t, []int{1, 2}, page(vals, 2, 0))
	require.Equal(t, []int{3, 4}, page(vals, 2, 2))
	require.Equal(t, []int{5}, page(vals, 2, 4))
	require.Empty(t, page(vals, 2, 5))
	require.Empty(t, page(vals, 2, 100))
	require.Equal(t, vals, page(vals, 0, -1))
	require.Equal(t, []int{1, 2}, page(vals, 2, -5))
}
