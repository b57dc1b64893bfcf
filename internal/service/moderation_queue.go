package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
)

// Moderation list defaults and bounds.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PagingEnd marks the last page of a moderation listing.
const PagingEnd = "end"

// PagingCursor marks a page with a follow-up cursor.
const PagingCursor = "cursor"

// ShowroomDTO is the whitelisted external view of a showroom. Derived and
// internal fields (normalized names, brands map, pending snapshot, edit
// history) are never included.
type ShowroomDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	OwnerUID    string     `json:"ownerUid"`
	SubmittedAt *time.Time `json:"submittedAt"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	EditCount   int        `json:"editCount"`
	Status      string     `json:"status"`
}

// NewShowroomDTO projects a showroom onto the external whitelist.
func NewShowroomDTO(s *model.Showroom) ShowroomDTO {
	return ShowroomDTO{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		Country:     s.Country,
		City:        s.City,
		OwnerUID:    s.OwnerUID,
		SubmittedAt: s.SubmittedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		EditCount:   s.EditCount,
		Status:      string(s.Status),
	}
}

// PageMeta describes the pagination state of one moderation page.
type PageMeta struct {
	HasMore    bool    `json:"hasMore"`
	NextCursor *string `json:"nextCursor"`
	Paging     string  `json:"paging"`
}

// ModerationPage is the moderation queue listing response.
type ModerationPage struct {
	Showrooms []ShowroomDTO `json:"showrooms"`
	Meta      PageMeta      `json:"meta"`
}

// ModerationService serves the admin moderation queue listing.
type ModerationService struct {
	showrooms *repository.ShowroomRepo
	logger    *zap.Logger
}

// NewModerationService wires the moderation queue over the showroom
// repository.
func NewModerationService(showrooms *repository.ShowroomRepo, logger *zap.Logger) *ModerationService {
	if showrooms == nil {
		panic("nil repository passed to NewModerationService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{showrooms: showrooms, logger: logger}
}

// List pages showrooms by status for an admin. Ordering is submittedAt
// descending with document ID ascending as the tie-break, which gives a
// total order over the non-unique sort field and therefore duplicate-free,
// skip-free pages. Validation runs before any cursor decoding: role,
// unknown parameters, status, then limit. The page over-fetches by one
// row to decide hasMore, mints the next cursor from the last returned
// row, and reports paging "end" with a nil cursor on the final page.
func (s *ModerationService) List(ctx context.Context, params url.Values, actor model.Actor) (*ModerationPage, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	for key := range params {
		switch key {
		case "status", "limit", "cursor":
		default:
			return nil, repository.QueryInvalid("unknown parameter: " + key)
		}
	}

	status := params.Get("status")
	if status == "" {
		return nil, repository.QueryInvalid("status is required")
	}
	if !model.ValidStatus(model.Status(status)) {
		return nil, repository.QueryInvalid("invalid status: " + status)
	}

	limit := defaultPageLimit
	if params.Has("limit") {
		n, err := strconv.Atoi(params.Get("limit"))
		if err != nil {
			return nil, repository.QueryInvalid("limit must be an integer")
		}
		if n < 1 || n > maxPageLimit {
			return nil, repository.QueryInvalid("limit must be between 1 and 100")
		}
		limit = n
	}

	var cursor *repository.ModerationCursor
	if params.Has("cursor") {
		c, err := repository.DecodeModerationCursor(params.Get("cursor"), status)
		if err != nil {
			return nil, err
		}
		cursor = &c
	}

	rows, err := s.showrooms.ModerationPage(ctx, status, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	dtos := make([]ShowroomDTO, len(rows))
	for i := range rows {
		dtos[i] = NewShowroomDTO(&rows[i])
	}

	meta := PageMeta{HasMore: hasMore, Paging: PagingEnd}
	if hasMore {
		last := rows[len(rows)-1]
		token := repository.NewModerationCursor(status, *last.SubmittedAt, last.ID).Encode()
		meta.NextCursor = &token
		meta.Paging = PagingCursor
	}

	s.logger.Debug("moderation page served",
		zap.String("status", status),
		zap.Int("count", len(dtos)),
		zap.Bool("has_more", hasMore))
	return &ModerationPage{Showrooms: dtos, Meta: meta}, nil
}
