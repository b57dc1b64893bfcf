package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

// fakeClock is a mutable test clock shared by the store and the services.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

const testCooldown = 72 * time.Hour

type fixture struct {
	clock     *fakeClock
	store     *store.MemStore
	users     *repository.UserRepo
	showrooms *repository.ShowroomRepo
	ownership *repository.OwnershipRepo
	favorites *repository.FavoriteRepo
	dedup     *MemoryDedupStore

	svc        *ShowroomService
	moderation *ModerationService
	accounts   *AccountService
	engagement *EngagementService
}

func newFixture() *fixture {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ms := store.NewMemStore(clock.Now)

	f := &fixture{
		clock:     clock,
		store:     ms,
		users:     repository.NewUserRepo(ms),
		showrooms: repository.NewShowroomRepo(ms),
		ownership: repository.NewOwnershipRepo(ms),
		favorites: repository.NewFavoriteRepo(ms),
		dedup:     NewMemoryDedupStore(clock.Now),
	}
	f.svc = NewShowroomService(ms, f.users, f.showrooms, nil, testCooldown, clock.Now, nil)
	f.moderation = NewModerationService(f.showrooms, nil)
	f.accounts = NewAccountService(ms, f.users, f.showrooms, f.ownership, nil, clock.Now, nil)
	f.engagement = NewEngagementService(ms, f.users, f.showrooms, f.favorites, f.dedup,
		2*time.Second, 30*time.Minute, nil)
	return f
}

func (f *fixture) putUser(t *testing.T, uid, role string) {
	t.Helper()
	require.NoError(t, f.users.Put(context.Background(), &model.User{UID: uid, Role: role}))
}

func (f *fixture) putLockedUser(t *testing.T, uid string) {
	t.Helper()
	at := f.clock.Now()
	require.NoError(t, f.users.Put(context.Background(), &model.User{
		UID: uid, Role: model.RoleOwner, DeleteLock: true, DeleteLockAt: &at,
	}))
}

// putShowroom seeds a showroom document with a fixed ID so ordering and
// tie-break assertions stay deterministic.
func (f *fixture) putShowroom(t *testing.T, id, owner string, status model.Status, extra map[string]any) {
	t.Helper()
	data := map[string]any{
		"ownerUid":    owner,
		"status":      string(status),
		"name":        "Showroom " + id,
		"type":        "retail",
		"country":     "KR",
		"city":        "Seoul",
		"editCount":   0,
		"editHistory": []any{},
		"viewCount":   0,
		"createdAt":   f.clock.Now(),
		"updatedAt":   f.clock.Now(),
	}
	for k, v := range extra {
		data[k] = v
	}
	err := f.store.RunTransaction(context.Background(), func(tx store.Tx) error {
		tx.Set(repository.CollectionShowrooms, id, data)
		return nil
	})
	require.NoError(t, err)
}

func (f *fixture) getShowroom(t *testing.T, id string) *model.Showroom {
	t.Helper()
	sr, err := f.showrooms.Get(context.Background(), id)
	require.NoError(t, err)
	return sr
}

func owner() model.Actor { return model.Actor{UID: "owner-1", Role: model.RoleOwner} }
func admin() model.Actor { return model.Actor{UID: "admin-1", Role: model.RoleAdmin} }
