package dto

import (
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a new baki/dena entry.
// Amount is a positive magnitude; Direction decides the stored sign.
type CreateTransactionRequest struct {
	CustomerName string           `json:"customerName" binding:"required,max=100"`
	Amount       decimal.Decimal  `json:"amount" binding:"required" swaggertype:"string" example:"500"`
	Direction    domain.Direction `json:"direction" binding:"required,oneof=lend borrow" example:"lend"`
	Notes        string           `json:"notes" binding:"max=500"`
	Date         *time.Time       `json:"date,omitempty"` // Defaults to now
}

// UpdateTransactionRequest defines the fields allowed for updating a transaction.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateTransactionRequest struct {
	Amount    *decimal.Decimal  `json:"amount,omitempty" swaggertype:"string"`
	Notes     *string           `json:"notes,omitempty" binding:"omitempty,max=500"`
	Direction *domain.Direction `json:"direction,omitempty" binding:"omitempty,oneof=lend borrow"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	ID                 string           `json:"id"`
	CustomerName       string           `json:"customerName"`
	Amount             decimal.Decimal  `json:"amount" swaggertype:"string"`
	Direction          domain.Direction `json:"direction"`
	IsPaid             bool             `json:"isPaid"`
	Date               time.Time        `json:"date"`
	Notes              string           `json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	IsHiddenFromRecent bool             `json:"isHiddenFromRecent"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                 txn.ID,
		CustomerName:       txn.CustomerName,
		Amount:             txn.Amount,
		Direction:          txn.Direction(),
		IsPaid:             txn.IsPaid,
		Date:               txn.Date,
		Notes:              txn.Notes,
		CreatedAt:          txn.CreatedAt,
		IsHiddenFromRecent: txn.IsHiddenFromRecent,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ListRecentParams defines query parameters for the recent activity feed.
type ListRecentParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListRecentResponse wraps one page of recent activity.
type ListRecentResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ClearRecentRequest lists the transactions to hide from recent activity.
type ClearRecentRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1,dive,required"`
}
