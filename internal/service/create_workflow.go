package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// CreateShowroomInput carries the owner-supplied fields of a new draft.
type CreateShowroomInput struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Country string   `json:"country"`
	City    string   `json:"city"`
	Address string   `json:"address"`
	Brands  []string `json:"brands"`
}

// Create opens a new draft showroom for the actor. Creation is refused
// while the owner's most recent soft delete is inside the cooldown
// window; the conflict carries meta.nextAvailableAt so clients can show
// when retrying becomes possible. The standalone guard check is a fast
// path only; the transactional guard next to the write is authoritative.
func (s *ShowroomService) Create(ctx context.Context, actor model.Actor, input CreateShowroomInput) (*model.Showroom, error) {
	if err := s.users.AssertWritable(ctx, actor.UID); err != nil {
		return nil, err
	}

	latest, err := s.showrooms.LatestDeletedByOwner(ctx, actor.UID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.DeletedAt != nil {
		nextAvailableAt := latest.DeletedAt.Add(s.cooldown)
		if s.now().Before(nextAvailableAt) {
			return nil, repository.RecreateCooldown(nextAvailableAt)
		}
	}

	var id string
	err = s.store.RunTransaction(ctx, func(tx store.Tx) error {
		if err := s.users.AssertWritableTx(tx, actor.UID); err != nil {
			return err
		}
		id = s.showrooms.CreateTx(tx, map[string]any{
			"ownerUid":          actor.UID,
			"status":            string(model.StatusDraft),
			"name":              input.Name,
			"type":              input.Type,
			"country":           input.Country,
			"city":              input.City,
			"address":           input.Address,
			"brands":            toAnySlice(input.Brands),
			"nameNormalized":    normalizeText(input.Name),
			"addressNormalized": normalizeAddress(input.Country, input.City, input.Address),
			"brandsMap":         brandsMap(input.Brands),
			"editCount":         0,
			"editHistory":       []any{},
			"viewCount":         0,
			"createdAt":         store.ServerTimestamp,
			"updatedAt":         store.ServerTimestamp,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("showroom draft created",
		zap.String("showroom_id", id),
		zap.String("owner_uid", actor.UID))
	return s.showrooms.Get(ctx, id)
}

// normalizeText lowercases, trims and collapses interior whitespace so
// lookups match regardless of input formatting.
func normalizeText(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

func normalizeAddress(country, city, address string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{country, city, address} {
		if n := normalizeText(p); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

func brandsMap(brands []string) map[string]any {
	m := make(map[string]any, len(brands))
	for _, b := range brands {
		if n := normalizeText(b); n != "" {
			m[n] = true
		}
	}
	return m
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
