package models

import "errors"

var (
	ErrNoUser             = errors.New("requested user does not exist")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("provided user does not have permission for this operation")
	ErrNoGig              = errors.New("requested gig does not exist")
	ErrNoBid              = errors.New("requested bid does not exist")
	ErrGigClosed          = errors.New("gig is no longer accepting bids")
	ErrGigAssigned        = errors.New("gig has already been assigned")
	ErrOwnGigBid          = errors.New("cannot bid on own gig")
	ErrDuplicateBid       = errors.New("bid for this gig already submitted")
)
