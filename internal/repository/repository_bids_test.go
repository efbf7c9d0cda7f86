package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gigflow/internal/models"
)

func TestBids(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	owner := AddTestUser(t, repo)
	f1 := AddTestUser(t, repo)
	f2 := AddTestUser(t, repo)
	gig1 := AddTestGig(t, repo, owner.Id, "first gig")
	gig2 := AddTestGig(t, repo, owner.Id, "second gig")

	b1 := AddTestBid(t, repo, gig1.Id, f1.Id)
	AddTestBid(t, repo, gig1.Id, f2.Id)
	b3 := AddTestBid(t, repo, gig2.Id, f1.Id)

	if b1.Status != models.BidPending {
		t.Errorf("new bid should be pending, got '%s'", b1.Status)
	}

	// one bid per freelancer per gig
	_, err := repo.AddBid(ctx, models.Bid{GigId: gig1.Id, FreelancerId: f1.Id})
	if err == nil || !errors.Is(err, models.ErrDuplicateBid) {
		t.Fatalf("expected ErrDuplicateBid, got %v", err)
	}

	// filter by gig
	bids, err := repo.GetBids(ctx, 0, 0, "", gig1.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected 2 bids on gig1, got %d", len(bids))
	}
	for _, bid := range bids {
		if bid.GigTitle != gig1.Title {
			t.Errorf("expected bid listing to carry gig title '%s', got '%s'", gig1.Title, bid.GigTitle)
		}
	}

	// filter by freelancer
	bids, err = repo.GetBids(ctx, 0, 0, f1.Id, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected 2 bids by f1, got %d", len(bids))
	}

	// lookups
	bid, ok, err := repo.GetBidByUUID(ctx, b3.Id)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || bid.Id != b3.Id {
		t.Errorf("expected bid '%s' by UUID, got ok=%v", b3.Id, ok)
	}

	_, ok, err = repo.GetBidByUUID(ctx, "not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected malformed UUID lookup to return ok=false")
	}
}

func TestHireBid(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	owner := AddTestUser(t, repo)
	stranger := AddTestUser(t, repo)
	f1 := AddTestUser(t, repo)
	f2 := AddTestUser(t, repo)
	gig := AddTestGig(t, repo, owner.Id, "settled gig")
	b1 := AddTestBid(t, repo, gig.Id, f1.Id)
	b2 := AddTestBid(t, repo, gig.Id, f2.Id)

	// pre-settlement failures must not change anything
	_, err := repo.HireBid(ctx, "not-a-uuid", owner.Id)
	if !errors.Is(err, models.ErrNoBid) {
		t.Fatalf("expected ErrNoBid, got %v", err)
	}
	_, err = repo.HireBid(ctx, b1.Id, stranger.Id)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	check, _, err := repo.GetGigByUUID(ctx, gig.Id)
	if err != nil {
		t.Fatal(err)
	}
	if check.Status != models.GigOpen {
		t.Fatalf("failed hire attempts must leave the gig open, got '%s'", check.Status)
	}

	// settle
	res, err := repo.HireBid(ctx, b1.Id, owner.Id)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bid.Id != b1.Id || res.Bid.Status != models.BidHired {
		t.Fatalf("expected bid '%s' hired, got %v", b1.Id, res.Bid)
	}
	if res.GigTitle != gig.Title || res.FreelancerId != f1.Id {
		t.Fatalf("unexpected settlement result: %v", res)
	}

	// all three records changed together
	check, _, err = repo.GetGigByUUID(ctx, gig.Id)
	if err != nil {
		t.Fatal(err)
	}
	if check.Status != models.GigAssigned {
		t.Errorf("settled gig should be assigned, got '%s'", check.Status)
	}

	loser, _, err := repo.GetBidByUUID(ctx, b2.Id)
	if err != nil {
		t.Fatal(err)
	}
	if loser.Status != models.BidRejected {
		t.Errorf("losing bid should be rejected, got '%s'", loser.Status)
	}

	// a settled gig refuses further hires
	_, err = repo.HireBid(ctx, b2.Id, owner.Id)
	if !errors.Is(err, models.ErrGigAssigned) {
		t.Fatalf("expected ErrGigAssigned, got %v", err)
	}
}

// Concurrent hire attempts on one gig must settle exactly once.
func TestHireBidConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	owner := AddTestUser(t, repo)
	gig := AddTestGig(t, repo, owner.Id, "contested gig")

	const bidders = 8
	bidIds := make([]string, bidders)
	for i := 0; i < bidders; i++ {
		f := AddTestUser(t, repo)
		bidIds[i] = AddTestBid(t, repo, gig.Id, f.Id).Id
	}

	var wg sync.WaitGroup
	errs := make([]error, bidders)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.HireBid(ctx, bidIds[i], owner.Id)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, models.ErrGigAssigned) {
			t.Errorf("unexpected error from losing hire: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly 1 winning hire, got %d", winners)
	}

	bids, err := repo.GetBids(ctx, 0, 0, "", gig.Id)
	if err != nil {
		t.Fatal(err)
	}
	hired, rejected := 0, 0
	for _, bid := range bids {
		switch bid.Status {
		case models.BidHired:
			hired++
		case models.BidRejected:
			rejected++
		}
	}
	if hired != 1 || rejected != bidders-1 {
		t.Fatalf("expected 1 hired and %d rejected bids, got %d and %d", bidders-1, hired, rejected)
	}
}
