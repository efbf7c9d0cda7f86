package controller

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Register request

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ParseRegisterReq(data []byte) (*RegisterReq, error) {
	t := &RegisterReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)

	if len(t.Name) == 0 {
		return nil, fmt.Errorf("empty name supplied")
	}
	if len(t.Email) == 0 || !strings.Contains(t.Email, "@") {
		return nil, fmt.Errorf("empty or malformed email supplied")
	}
	if err = checkLengthLimit(t.Name, "name", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Email, "email", 200); err != nil {
		return nil, err
	}

	return t, nil
}

// Login request

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ParseLoginReq(data []byte) (*LoginReq, error) {
	t := &LoginReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	t.Email = strings.TrimSpace(t.Email)
	if len(t.Email) == 0 || len(t.Password) == 0 {
		return nil, fmt.Errorf("empty email or password supplied")
	}

	return t, nil
}

// New gig request

type NewGigReq struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
}

func ParseNewGigReq(data []byte) (*NewGigReq, error) {
	t := &NewGigReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	t.Title = strings.TrimSpace(t.Title)
	if len(t.Title) == 0 {
		return nil, fmt.Errorf("empty title supplied")
	}
	if err = checkLengthLimit(t.Title, "title", 200); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Description, "description", 2000); err != nil {
		return nil, err
	}
	if t.Budget.IsNegative() {
		return nil, fmt.Errorf("budget must not be negative")
	}

	return t, nil
}

// New bid request

type NewBidReq struct {
	GigId   string          `json:"gigId"`
	Message string          `json:"message"`
	Price   decimal.Decimal `json:"price"`
}

func ParseNewBidReq(data []byte) (*NewBidReq, error) {
	t := &NewBidReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.GigId) == 0 {
		return nil, fmt.Errorf("empty gigId supplied")
	}
	if err = checkLengthLimit(t.GigId, "gigId", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Message, "message", 2000); err != nil {
		return nil, err
	}
	if t.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	return t, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}
