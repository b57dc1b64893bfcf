// This file implements persistence for showroom documents: point reads,
// transactional mutations, the cooldown lookup and the moderation page
// query. Internal derived fields (nameNormalized, addressNormalized,
// brandsMap) live only in the stored document and in the model; DTO
// construction strips them.
package repository

import (
	"context"
	"errors"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// ShowroomRepo manages showroom documents.
type ShowroomRepo struct {
	store store.Store
}

// NewShowroomRepo constructs a ShowroomRepo over the given store.
func NewShowroomRepo(s store.Store) *ShowroomRepo {
	if s == nil {
		panic("nil store passed to NewShowroomRepo")
	}
	return &ShowroomRepo{store: s}
}

// Get loads a showroom by ID. Returns ErrShowroomNotFound when absent.
func (r *ShowroomRepo) Get(ctx context.Context, id string) (*model.Showroom, error) {
	doc, err := r.store.Get(ctx, CollectionShowrooms, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShowroomNotFound
		}
		return nil, err
	}
	return ShowroomFromDoc(doc), nil
}

// GetTx is Get inside a transaction.
func (r *ShowroomRepo) GetTx(tx store.Tx, id string) (*model.Showroom, error) {
	doc, err := tx.Get(CollectionShowrooms, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShowroomNotFound
		}
		return nil, err
	}
	return ShowroomFromDoc(doc), nil
}

// UpdateTx stages a field merge on a showroom document. ServerTimestamp
// values resolve to the transaction commit time.
func (r *ShowroomRepo) UpdateTx(tx store.Tx, id string, fields map[string]any) {
	tx.Update(CollectionShowrooms, id, fields)
}

// CreateTx stages a new showroom document and returns its assigned ID.
func (r *ShowroomRepo) CreateTx(tx store.Tx, data map[string]any) string {
	return tx.Create(CollectionShowrooms, data)
}

// LatestDeletedByOwner returns the owner's most recently soft-deleted
// showroom, or nil when none exists. Feeds the recreate cooldown check.
func (r *ShowroomRepo) LatestDeletedByOwner(ctx context.Context, ownerUID string) (*model.Showroom, error) {
	q := store.NewQuery(CollectionShowrooms).
		Where("ownerUid", store.OpEqual, ownerUID).
		Where("status", store.OpEqual, string(model.StatusDeleted)).
		OrderBy("deletedAt", store.Desc).
		Limit(1)
	docs, err := r.store.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return ShowroomFromDoc(docs[0]), nil
}

// HasNonDeletedByOwner reports whether the owner still has any showroom
// that is not soft-deleted. Existence probe for the account delete guard.
func (r *ShowroomRepo) HasNonDeletedByOwner(ctx context.Context, ownerUID string) (bool, error) {
	q := store.NewQuery(CollectionShowrooms).
		Where("ownerUid", store.OpEqual, ownerUID).
		Where("status", store.OpNotEqual, string(model.StatusDeleted)).
		Limit(1)
	docs, err := r.store.Run(ctx, q)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// ModerationPage fetches up to limit showrooms in the requested status,
// ordered by submittedAt descending with document ID ascending as the
// tie-break, starting strictly after the cursor position when one is
// given. The caller over-fetches by one row to detect a further page.
func (r *ShowroomRepo) ModerationPage(ctx context.Context, status string, cursor *ModerationCursor, limit int) ([]model.Showroom, error) {
	q := store.NewQuery(CollectionShowrooms).
		Where("status", store.OpEqual, status).
		OrderBy("submittedAt", store.Desc).
		Limit(limit)
	if cursor != nil {
		at, err := cursor.SubmittedAt()
		if err != nil {
			return nil, err
		}
		q = q.StartAfter(at, cursor.ID)
	}
	docs, err := r.store.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Showroom, len(docs))
	for i, d := range docs {
		out[i] = *ShowroomFromDoc(d)
	}
	return out, nil
}

// AppendHistory returns the document's editHistory slice with one more
// entry appended. The stored history is never rewritten, only grown.
func AppendHistory(s *model.Showroom, entry map[string]any) []any {
	history := make([]any, 0, len(s.EditHistory)+1)
	for _, e := range s.EditHistory {
		history = append(history, map[string]any{
			"action":       e.Action,
			"at":           e.At,
			"statusBefore": string(e.StatusBefore),
			"statusAfter":  string(e.StatusAfter),
		})
	}
	return append(history, entry)
}

// ShowroomFromDoc maps a stored document into the model.
func ShowroomFromDoc(doc store.Document) *model.Showroom {
	s := &model.Showroom{
		ID:                doc.ID,
		OwnerUID:          docString(doc.Data, "ownerUid"),
		Status:            model.Status(docString(doc.Data, "status")),
		Name:              docString(doc.Data, "name"),
		Type:              docString(doc.Data, "type"),
		Country:           docString(doc.Data, "country"),
		City:              docString(doc.Data, "city"),
		Address:           docString(doc.Data, "address"),
		Brands:            docStringSlice(doc.Data, "brands"),
		SubmittedAt:       docTime(doc.Data, "submittedAt"),
		ReviewedAt:        docTime(doc.Data, "reviewedAt"),
		CreatedAt:         docTime(doc.Data, "createdAt"),
		UpdatedAt:         docTime(doc.Data, "updatedAt"),
		DeletedAt:         docTime(doc.Data, "deletedAt"),
		EditCount:         docInt(doc.Data, "editCount"),
		PendingSnapshot:   docMap(doc.Data, "pendingSnapshot"),
		ViewCount:         docInt(doc.Data, "viewCount"),
		NameNormalized:    docString(doc.Data, "nameNormalized"),
		AddressNormalized: docString(doc.Data, "addressNormalized"),
	}
	if rb := docMap(doc.Data, "reviewedBy"); rb != nil {
		s.ReviewedBy = &model.ActorSnapshot{
			UID:  docString(rb, "uid"),
			Role: docString(rb, "role"),
		}
	}
	if bm := docMap(doc.Data, "brandsMap"); bm != nil {
		s.BrandsMap = make(map[string]bool, len(bm))
		for k, v := range bm {
			b, _ := v.(bool)
			s.BrandsMap[k] = b
		}
	}
	if rawHistory, ok := doc.Data["editHistory"].([]any); ok {
		s.EditHistory = make([]model.EditEntry, 0, len(rawHistory))
		for _, raw := range rawHistory {
			e, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			entry := model.EditEntry{
				Action:       docString(e, "action"),
				StatusBefore: model.Status(docString(e, "statusBefore")),
				StatusAfter:  model.Status(docString(e, "statusAfter")),
			}
			if at := docTime(e, "at"); at != nil {
				entry.At = *at
			}
			s.EditHistory = append(s.EditHistory, entry)
		}
	}
	return s
}
