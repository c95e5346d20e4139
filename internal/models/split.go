package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SplitType selects how a split's total is divided among participants.
type SplitType string

const (
	SplitTypeEqual       SplitType = "EQUAL"
	SplitTypePercentage  SplitType = "PERCENTAGE"
	SplitTypeFixedAmount SplitType = "FIXED_AMOUNT"
	SplitTypeByShares    SplitType = "BY_SHARES"
)

// SplitTypes lists every supported split type.
var SplitTypes = [4]SplitType{
	SplitTypeEqual,
	SplitTypePercentage,
	SplitTypeFixedAmount,
	SplitTypeByShares,
}

// Valid reports whether t is one of SplitTypes.
func (t SplitType) Valid() bool {
	for _, v := range SplitTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParseSplitType accepts the canonical names as well as the camel case
// spellings used by older clients ("FixedAmount", "byShares").
func ParseSplitType(s string) (SplitType, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	switch key {
	case "EQUAL":
		return SplitTypeEqual, true
	case "PERCENTAGE":
		return SplitTypePercentage, true
	case "FIXEDAMOUNT":
		return SplitTypeFixedAmount, true
	case "BYSHARES":
		return SplitTypeByShares, true
	}
	return "", false
}

// ParticipantInput is one member's input to the share calculator.
// Which optional field is read depends on the split type.
type ParticipantInput struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`

	// ShareAmount is read by FIXED_AMOUNT splits.
	ShareAmount *decimal.Decimal `json:"shareAmount,omitempty"`

	// SharePercentage is read by PERCENTAGE splits, in [0, 100].
	SharePercentage *decimal.Decimal `json:"sharePercentage,omitempty"`

	// ShareUnits is the weight read by BY_SHARES splits.
	ShareUnits *int64 `json:"shareUnits,omitempty"`
}

// ParticipantShare is the computed share of one member in a split.
type ParticipantShare struct {
	// ID is assigned by the store.
	ID string `json:"id,omitempty"`

	MemberID        string          `json:"memberId"`
	MemberName      string          `json:"memberName"`
	ShareAmount     decimal.Decimal `json:"shareAmount"`
	SharePercentage decimal.Decimal `json:"sharePercentage"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
}

// Split is one shared expense of a trip together with its computed shares.
// Participants keep the order in which they were supplied.
type Split struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transactionId"`
	TripID        string             `json:"tripId"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Currency      string             `json:"currency"`
	SplitType     SplitType          `json:"splitType"`
	PayerID       string             `json:"payerId"`
	PayerName     string             `json:"payerName"`
	Participants  []ParticipantShare `json:"participants"`
	Tags          []Tag              `json:"tags"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ShareTotal returns the sum of all participant share amounts.
func (s *Split) ShareTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Participants {
		total = total.Add(p.ShareAmount)
	}
	return total
}

// Tag is a free-form label attached to splits. Color is a #RRGGBB string.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}
