// Package api defines the wire messages of the split and settlement RPCs.
// Amounts travel as decimal strings and timestamps as unix seconds.
package api

import "github.com/shopspring/decimal"

// ParticipantInput is one member's input to a split. Which optional field is
// read depends on the split type.
type ParticipantInput struct {
	MemberID        string           `json:"memberId"`
	MemberName      string           `json:"memberName"`
	ShareAmount     *decimal.Decimal `json:"shareAmount,omitempty"`
	SharePercentage *decimal.Decimal `json:"sharePercentage,omitempty"`
	ShareUnits      *int64           `json:"shareUnits,omitempty"`
}

// ParticipantShare is a member's computed share of a split.
type ParticipantShare struct {
	ID              string          `json:"id,omitempty"`
	MemberID        string          `json:"memberId"`
	MemberName      string          `json:"memberName"`
	ShareAmount     decimal.Decimal `json:"shareAmount"`
	SharePercentage decimal.Decimal `json:"sharePercentage"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *int64          `json:"paidAt,omitempty"`
}

// Tag labels a split.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Split is a stored expense with its shares.
type Split struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transactionId"`
	TripID        string             `json:"tripId"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Currency      string             `json:"currency"`
	SplitType     string             `json:"splitType"`
	PayerID       string             `json:"payerId"`
	PayerName     string             `json:"payerName"`
	Participants  []ParticipantShare `json:"participants"`
	Tags          []Tag              `json:"tags"`
	CreatedAt     int64              `json:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt"`
}

// Settlement is a proposed or recorded transfer between two members.
type Settlement struct {
	ID             string          `json:"id"`
	TripID         string          `json:"tripId"`
	FromMemberID   string          `json:"fromMemberId"`
	FromMemberName string          `json:"fromMemberName"`
	ToMemberID     string          `json:"toMemberId"`
	ToMemberName   string          `json:"toMemberName"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CreatedAt      int64           `json:"createdAt"`
	SettledAt      *int64          `json:"settledAt,omitempty"`
}

// MemberBalance is a member's aggregated position in a trip.
type MemberBalance struct {
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
	Net        decimal.Decimal `json:"net"`
}

type PreviewSharesRequest struct {
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Currency     string             `json:"currency"`
	SplitType    string             `json:"splitType"`
	Participants []ParticipantInput `json:"participants"`
}

type PreviewSharesResponse struct {
	Participants []ParticipantShare `json:"participants"`
}

type CreateSplitRequest struct {
	TransactionID string             `json:"transactionId"`
	TripID        string             `json:"tripId"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Currency      string             `json:"currency"`
	SplitType     string             `json:"splitType"`
	PayerID       string             `json:"payerId"`
	PayerName     string             `json:"payerName"`
	Participants  []ParticipantInput `json:"participants"`
	Tags          []string           `json:"tags,omitempty"`
}

type CreateSplitResponse struct {
	Split *Split `json:"split"`
}

type GetSplitRequest struct {
	SplitID string `json:"splitId"`
}

type GetSplitResponse struct {
	Split *Split `json:"split"`
}

type ListSplitsByTripRequest struct {
	TripID string `json:"tripId"`
}

type ListSplitsByTripResponse struct {
	Splits []Split `json:"splits"`
}

// UpdateSplitRequest replaces a split's amount, payer and whole participant
// list. The trip cannot change.
type UpdateSplitRequest struct {
	SplitID       string             `json:"splitId"`
	TransactionID string             `json:"transactionId"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Currency      string             `json:"currency"`
	SplitType     string             `json:"splitType"`
	PayerID       string             `json:"payerId"`
	PayerName     string             `json:"payerName"`
	Participants  []ParticipantInput `json:"participants"`
	Tags          []string           `json:"tags,omitempty"`
}

type UpdateSplitResponse struct {
	Split *Split `json:"split"`
}

type DeleteSplitRequest struct {
	SplitID string `json:"splitId"`
}

type DeleteSplitResponse struct{}

type MarkParticipantPaidRequest struct {
	ParticipantID string `json:"participantId"`
}

type MarkParticipantPaidResponse struct {
	Participant *ParticipantShare `json:"participant"`
}

type ListTagsRequest struct{}

type ListTagsResponse struct {
	Tags []Tag `json:"tags"`
}

type CalculateSettlementsRequest struct {
	TripID string `json:"tripId"`
}

type CalculateSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

// ListSettlementsRequest lists a trip's settlements, optionally filtered by
// status (PENDING, COMPLETED or CANCELLED).
type ListSettlementsRequest struct {
	TripID string `json:"tripId"`
	Status string `json:"status,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type CompleteSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type CompleteSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type CancelSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type CancelSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetBalancesRequest struct {
	TripID string `json:"tripId"`
}

type GetBalancesResponse struct {
	Currency string          `json:"currency"`
	Balances []MemberBalance `json:"balances"`
}
