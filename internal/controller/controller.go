package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gigflow/internal/auth"
	"gigflow/internal/models"
	"gigflow/internal/realtime"

	log "github.com/sirupsen/logrus"
)

const tokenCookie = "token"

type Service interface {
	RegisterUser(ctx context.Context, name, email, password string) (models.User, error)
	LoginUser(ctx context.Context, email, password string) (models.User, error)
	UserByUUID(ctx context.Context, userId string) (models.User, error)

	GetGigs(ctx context.Context, limit, offset int, search string) ([]models.Gig, error)
	AddGig(ctx context.Context, ownerId string, gig models.Gig) (models.Gig, error)
	GetGig(ctx context.Context, gigId string) (models.Gig, error)

	AddBid(ctx context.Context, bid models.Bid) (models.Bid, error)
	GetUserBids(ctx context.Context, freelancerId string, limit, offset int) ([]models.Bid, error)
	GetGigBids(ctx context.Context, actingUserId, gigId string, limit, offset int) ([]models.Bid, error)
	HireBid(ctx context.Context, actingUserId, bidId string) (models.HireResult, error)
}

// Notifier delivers best-effort live events. The controller forwards the
// settlement result here after a hire commits; failures stay invisible to the
// HTTP caller.
type Notifier interface {
	Notify(userId string, event realtime.Event)
}

type Controller struct {
	service  Service
	tokens   *auth.JWTManager
	notifier Notifier
}

func NewController(service Service, tokens *auth.JWTManager, notifier Notifier) *Controller {
	return &Controller{service: service, tokens: tokens, notifier: notifier}
}

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

//// Auth

// POST /api/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseRegisterReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	if !c.setTokenCookie(w, user.Id) {
		return
	}

	c.marshalResponse(w, http.StatusCreated, map[string]any{"user": user})
}

// POST /api/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseLoginReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	if !c.setTokenCookie(w, user.Id) {
		return
	}

	c.marshalResponse(w, http.StatusOK, map[string]any{"user": user})
}

// POST /api/auth/logout
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
	c.marshalResponse(w, http.StatusOK, map[string]any{"message": "logged out"})
}

// GET /api/auth/me
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	user, err := c.service.UserByUUID(r.Context(), userId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusOK, map[string]any{"user": user})
}

//// Gigs

// GET /api/gigs
func (c *Controller) GetGigs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	gigs, err := c.service.GetGigs(r.Context(), limit, offset, query.Get("search"))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusOK, gigs)
}

// POST /api/gigs
func (c *Controller) NewGig(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewGigReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	gig, err := c.service.AddGig(r.Context(), userId, models.Gig{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusCreated, gig)
}

// GET /api/gigs/{gigId}
func (c *Controller) GigById(w http.ResponseWriter, r *http.Request) {
	gigId := r.PathValue("gigId")
	if len(gigId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty gigId supplied")
		return
	}

	gig, err := c.service.GetGig(r.Context(), gigId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusOK, gig)
}

//// Bids

// POST /api/bids
func (c *Controller) NewBid(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewBidReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	bid, err := c.service.AddBid(r.Context(), models.Bid{
		GigId:        req.GigId,
		FreelancerId: userId,
		Message:      req.Message,
		Price:        req.Price,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusCreated, bid)
}

// GET /api/bids/my
func (c *Controller) MyBids(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	bids, err := c.service.GetUserBids(r.Context(), userId, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusOK, bids)
}

// GET /api/bids/{gigId}
func (c *Controller) GigBids(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	gigId := r.PathValue("gigId")
	if len(gigId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty gigId supplied")
		return
	}

	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	bids, err := c.service.GetGigBids(r.Context(), userId, gigId, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, http.StatusOK, bids)
}

// PATCH /api/bids/{bidId}/hire
func (c *Controller) HireBid(w http.ResponseWriter, r *http.Request) {
	userId, ok := c.authenticate(w, r)
	if !ok {
		return
	}

	bidId := r.PathValue("bidId")
	if len(bidId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty bidId supplied")
		return
	}

	res, err := c.service.HireBid(r.Context(), userId, bidId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	// settlement is committed; tell the freelancer if they are connected
	c.notifier.Notify(res.FreelancerId, realtime.Event{
		Name:    "hired",
		Payload: realtime.HiredPayload{GigTitle: res.GigTitle},
	})

	c.marshalResponse(w, http.StatusOK, map[string]any{
		"message":      "freelancer hired successfully",
		"bid":          res.Bid,
		"gigTitle":     res.GigTitle,
		"freelancerId": res.FreelancerId,
	})
}

// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

// authenticate resolves the acting user from the auth cookie. It writes the
// 401 response itself when the cookie is absent or invalid.
func (c *Controller) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil || len(cookie.Value) == 0 {
		c.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}

	userId, err := c.tokens.Validate(cookie.Value)
	if err != nil {
		c.errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
		return "", false
	}

	return userId, true
}

func (c *Controller) setTokenCookie(w http.ResponseWriter, userId string) bool {
	token, err := c.tokens.Generate(userId)
	if err != nil {
		log.WithError(err).Error("controller: could not issue token")
		c.errorResponse(w, http.StatusInternalServerError, "could not issue session token")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(c.tokens.TokenTTL().Seconds()),
	})
	return true
}

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		n, err := strconv.Atoi(strs[0])
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("negative value supplied")
		}
		return n, nil
	}
	return 0, nil
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.WithError(err).Error("controller: could not marshal error response")
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.WithError(err).Error("controller: could not write error response")
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		c.errorResponse(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrEmailTaken):
		c.errorResponse(w, http.StatusBadRequest, models.ErrEmailTaken.Error())
	case errors.Is(err, models.ErrWeakPassword):
		c.errorResponse(w, http.StatusBadRequest, models.ErrWeakPassword.Error())
	case errors.Is(err, models.ErrForbidden):
		c.errorResponse(w, http.StatusForbidden, "user has no permission for requested action")
	case errors.Is(err, models.ErrNoUser):
		c.errorResponse(w, http.StatusNotFound, "requested user does not exist")
	case errors.Is(err, models.ErrNoGig):
		c.errorResponse(w, http.StatusNotFound, "requested gig does not exist")
	case errors.Is(err, models.ErrNoBid):
		c.errorResponse(w, http.StatusNotFound, "requested bid does not exist")
	case errors.Is(err, models.ErrGigAssigned):
		c.errorResponse(w, http.StatusConflict, models.ErrGigAssigned.Error())
	case errors.Is(err, models.ErrGigClosed):
		c.errorResponse(w, http.StatusBadRequest, models.ErrGigClosed.Error())
	case errors.Is(err, models.ErrOwnGigBid):
		c.errorResponse(w, http.StatusBadRequest, models.ErrOwnGigBid.Error())
	case errors.Is(err, models.ErrDuplicateBid):
		c.errorResponse(w, http.StatusBadRequest, models.ErrDuplicateBid.Error())
	default:
		log.WithError(err).Error("controller: internal error")
		c.errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, status int, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(d)
	if err != nil {
		log.WithError(err).Error("controller: could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
