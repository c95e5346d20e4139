package service

import (
	"strings"
	"time"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/calculator"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/pkg/api"
)

func toInputs(in []api.ParticipantInput) []models.ParticipantInput {
	out := make([]models.ParticipantInput, len(in))
	for i, p := range in {
		out[i] = models.ParticipantInput{
			MemberID:        strings.TrimSpace(p.MemberID),
			MemberName:      p.MemberName,
			ShareAmount:     p.ShareAmount,
			SharePercentage: p.SharePercentage,
			ShareUnits:      p.ShareUnits,
		}
	}
	return out
}

func tagsFromNames(names []string) []models.Tag {
	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, models.Tag{Name: n})
	}
	return tags
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	sec := t.Unix()
	return &sec
}

func toAPIShare(p models.ParticipantShare) api.ParticipantShare {
	return api.ParticipantShare{
		ID:              p.ID,
		MemberID:        p.MemberID,
		MemberName:      p.MemberName,
		ShareAmount:     p.ShareAmount,
		SharePercentage: p.SharePercentage,
		IsPaid:          p.IsPaid,
		PaidAt:          unixPtr(p.PaidAt),
	}
}

func toAPIShares(shares []models.ParticipantShare) []api.ParticipantShare {
	out := make([]api.ParticipantShare, len(shares))
	for i, p := range shares {
		out[i] = toAPIShare(p)
	}
	return out
}

func toAPITags(tags []models.Tag) []api.Tag {
	out := make([]api.Tag, len(tags))
	for i, t := range tags {
		out[i] = api.Tag{ID: t.ID, Name: t.Name, Color: t.Color, Description: t.Description}
	}
	return out
}

func toAPISplit(s *models.Split) *api.Split {
	return &api.Split{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		TripID:        s.TripID,
		TotalAmount:   s.TotalAmount,
		Currency:      s.Currency,
		SplitType:     string(s.SplitType),
		PayerID:       s.PayerID,
		PayerName:     s.PayerName,
		Participants:  toAPIShares(s.Participants),
		Tags:          toAPITags(s.Tags),
		CreatedAt:     s.CreatedAt.Unix(),
		UpdatedAt:     s.UpdatedAt.Unix(),
	}
}

func toAPISettlement(s models.Settlement) api.Settlement {
	return api.Settlement{
		ID:             s.ID,
		TripID:         s.TripID,
		FromMemberID:   s.FromMemberID,
		FromMemberName: s.FromMemberName,
		ToMemberID:     s.ToMemberID,
		ToMemberName:   s.ToMemberName,
		Amount:         s.Amount,
		Currency:       s.Currency,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt.Unix(),
		SettledAt:      unixPtr(s.SettledAt),
	}
}

func toAPISettlements(in []models.Settlement) []api.Settlement {
	out := make([]api.Settlement, len(in))
	for i, s := range in {
		out[i] = toAPISettlement(s)
	}
	return out
}

func toAPIBalances(in []calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(in))
	for i, b := range in {
		out[i] = api.MemberBalance{
			MemberID:   b.MemberID,
			MemberName: b.MemberName,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
			Net:        b.Net,
		}
	}
	return out
}
