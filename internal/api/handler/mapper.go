package handler

import (
	"github.com/shopspring/decimal"

	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// money renders amounts with two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// --- Request → Service input ---

func toOpenAccountInput(req openAccountRequest) ports.OpenAccountInput {
	return ports.OpenAccountInput{
		Number:         req.AccountNumber,
		PIN:            req.PIN,
		InitialBalance: req.InitialBalance,
	}
}

func toProductInput(req productRequest) ports.ProductInput {
	in := ports.ProductInput{Name: req.Name, Price: req.Price}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	return in
}

// --- Domain → Response ---

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		AccountNumber: a.Number,
		Balance:       money(a.Balance),
		CreatedAt:     a.CreatedAt,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func toSessionResponse(s *ports.IssuedSession) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		Tool:      string(s.Session.Tool),
		ExpiresAt: s.Session.ExpiresAt,
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     money(p.Price),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
