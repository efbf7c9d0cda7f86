package repository

import (
	"context"
	"testing"

	"gigflow/internal/models"
)

func TestGigs(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	owner := AddTestUser(t, repo)

	ids := make(map[string]bool)
	titles := []string{"build a website", "design a logo", "translate a website"}
	for _, title := range titles {
		gig := AddTestGig(t, repo, owner.Id, title)
		if gig.Status != models.GigOpen {
			t.Errorf("new gig should be open, got '%s'", gig.Status)
		}
		ids[gig.Id] = true
	}

	// full listing carries the owner's name
	gigs, err := repo.GetGigs(ctx, 0, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(gigs) != len(ids) {
		t.Fatalf("created %d gigs, received %d", len(ids), len(gigs))
	}
	for _, gig := range gigs {
		if !ids[gig.Id] {
			t.Errorf("received gig '%s' that has not been created", gig.Id)
		}
		if gig.OwnerName != owner.Name {
			t.Errorf("expected owner name '%s', got '%s'", owner.Name, gig.OwnerName)
		}
	}

	// title search, case-insensitive
	gigs, err = repo.GetGigs(ctx, 0, 0, "WEBSITE")
	if err != nil {
		t.Fatal(err)
	}
	if len(gigs) != 2 {
		t.Fatalf("expected 2 gigs matching 'WEBSITE', got %d", len(gigs))
	}

	// pagination
	gigs, err = repo.GetGigs(ctx, 2, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(gigs) != 1 {
		t.Fatalf("expected 1 gig on the last page, got %d", len(gigs))
	}

	// lookups
	gig, ok, err := repo.GetGigByUUID(ctx, gigs[0].Id)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || gig.Id != gigs[0].Id {
		t.Errorf("expected gig '%s' by UUID, got ok=%v", gigs[0].Id, ok)
	}

	_, ok, err = repo.GetGigByUUID(ctx, "not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected malformed UUID lookup to return ok=false")
	}
}
