package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type ledgerLoginRequest struct {
	AccountNumber int64  `json:"account_number" validate:"required,gt=0"`
	PIN           string `json:"pin"            validate:"required"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	Tool      string    `json:"tool"`
	ExpiresAt time.Time `json:"expires_at"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Ledger ---

// Amounts are accepted as JSON strings or numbers ("12.50" or 12.5).
type openAccountRequest struct {
	AccountNumber  int64           `json:"account_number"  validate:"required,gt=0"`
	PIN            string          `json:"pin"             validate:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	AccountNumber int64     `json:"account_number"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type balanceResponse struct {
	AccountNumber int64  `json:"account_number"`
	Balance       string `json:"balance"`
}

// --- Inventory ---

type productRequest struct {
	Name     string          `json:"name"     validate:"required"`
	Quantity *int            `json:"quantity" validate:"required"`
	Price    decimal.Decimal `json:"price"`
}

type productResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type productListResponse struct {
	Data  []productResponse `json:"data"`
	Total int               `json:"total"`
}

type lowStockResponse struct {
	Threshold *int              `json:"threshold,omitempty"`
	Data      []productResponse `json:"data"`
	Total     int               `json:"total"`
}
