package item

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var errRequestNotFound = apperror.NotFound("item request not found")

type fakeUsers map[int64]*user.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type fakeRequests map[int64]bool

func (f fakeRequests) Exists(_ context.Context, id int64) error {
	if f[id] {
		return nil
	}
	return errRequestNotFound
}

type fakeRepo struct {
	nextID    int64
	items     []*Item
	listCalls int
}

func (r *fakeRepo) Create(_ context.Context, it *Item) error {
	r.nextID++
	it.ID = r.nextID
	r.items = append(r.items, it)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, f Filter) ([]*Item, error) {
	r.listCalls++
	var out []*Item
	for _, it := range r.items {
		if f.OwnerID != 0 && it.OwnerID != f.OwnerID {
			continue
		}
		if f.AvailableOnly && !it.Available {
			continue
		}
		if f.Text != "" {
			text := strings.ToLower(f.Text)
			if !strings.Contains(strings.ToLower(it.Name), text) &&
				!strings.Contains(strings.ToLower(it.Description), text) {
				continue
			}
		}
		out = append(out, it)
	}
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		end := min(f.Offset+f.Limit, len(out))
		out = out[f.Offset:end]
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, mutate func(it *Item) error) (*Item, error) {
	for i, it := range r.items {
		if it.ID == id {
			cp := *it
			if err := mutate(&cp); err != nil {
				return nil, err
			}
			r.items[i] = &cp
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ExistsByOwner(_ context.Context, ownerID int64) (bool, error) {
	for _, it := range r.items {
		if it.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := &service{
		repo: repo,
		users: fakeUsers{
			1: {ID: 1, Name: "Ann"},
			2: {ID: 2, Name: "Ben"},
		},
		requests: fakeRequests{7: true},
	}
	return svc, repo
}

func ptr[T any](v T) *T { return &v }

func createItem(t *testing.T, svc *service, ownerID int64, name, desc string, available bool) *Item {
	t.Helper()
	it, err := svc.Create(context.Background(), ownerID, CreateRequest{
		Name:        name,
		Description: desc,
		Available:   ptr(available),
	})
	require.NoError(t, err)
	return it
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService()
		it := createItem(t, svc, 1, "Drill", "Cordless drill", true)
		assert.NotZero(t, it.ID)
		assert.Equal(t, int64(1), it.OwnerID)
		assert.True(t, it.Available)
		assert.Nil(t, it.RequestID)
	})

	t.Run("unknown owner", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, 99, CreateRequest{Name: "x", Description: "y", Available: ptr(true)})
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateRequest{Name: "  ", Description: "y", Available: ptr(true)})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("blank description", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateRequest{Name: "x", Description: "", Available: ptr(true)})
		assert.ErrorIs(t, err, ErrDescriptionRequired)
	})

	t.Run("missing available flag", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateRequest{Name: "x", Description: "y"})
		assert.ErrorIs(t, err, ErrAvailableRequired)
	})

	t.Run("fulfills existing request", func(t *testing.T) {
		svc, _ := newTestService()
		it, err := svc.Create(ctx, 1, CreateRequest{Name: "x", Description: "y", Available: ptr(true), RequestID: ptr(int64(7))})
		require.NoError(t, err)
		require.NotNil(t, it.RequestID)
		assert.Equal(t, int64(7), *it.RequestID)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, repo := newTestService()
		_, err := svc.Create(ctx, 1, CreateRequest{Name: "x", Description: "y", Available: ptr(true), RequestID: ptr(int64(8))})
		assert.ErrorIs(t, err, errRequestNotFound)
		assert.Empty(t, repo.items)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps absent and blank fields", func(t *testing.T) {
		svc, _ := newTestService()
		it := createItem(t, svc, 1, "Drill", "Cordless drill", true)

		updated, err := svc.Update(ctx, 1, it.ID, UpdateRequest{Name: ptr("Hammer drill"), Description: ptr("  ")})
		require.NoError(t, err)
		assert.Equal(t, "Hammer drill", updated.Name)
		assert.Equal(t, "Cordless drill", updated.Description)
		assert.True(t, updated.Available)
	})

	t.Run("available flag overwrites when present", func(t *testing.T) {
		svc, _ := newTestService()
		it := createItem(t, svc, 1, "Drill", "Cordless drill", true)

		updated, err := svc.Update(ctx, 1, it.ID, UpdateRequest{Available: ptr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Available)
		assert.Equal(t, "Drill", updated.Name)
	})

	t.Run("non owner sees not found", func(t *testing.T) {
		svc, repo := newTestService()
		it := createItem(t, svc, 1, "Drill", "Cordless drill", true)

		_, err := svc.Update(ctx, 2, it.ID, UpdateRequest{Name: ptr("Mine now")})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Drill", repo.items[0].Name)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Update(ctx, 1, 42, UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	page := request.DefaultPagination()

	t.Run("blank text skips storage", func(t *testing.T) {
		svc, repo := newTestService()
		createItem(t, svc, 1, "Drill", "Cordless drill", true)

		list, err := svc.Search(ctx, "   ", page)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		assert.Zero(t, repo.listCalls)
	})

	t.Run("matches name or description, available only", func(t *testing.T) {
		svc, _ := newTestService()
		createItem(t, svc, 1, "Drill", "Cordless", true)
		createItem(t, svc, 1, "Saw", "pairs with a DRILL", true)
		createItem(t, svc, 2, "Old drill", "broken", false)
		createItem(t, svc, 2, "Ladder", "tall", true)

		list, err := svc.Search(ctx, "dRiLl", page)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Drill", list[0].Name)
		assert.Equal(t, "Saw", list[1].Name)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Search(ctx, "drill", request.Pagination{From: -1, Size: 10})
		assert.ErrorIs(t, err, request.ErrInvalidPagination)
	})
}

func TestListByOwnerAndHasItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	for i := 0; i < 3; i++ {
		createItem(t, svc, 1, "Thing", "desc", i%2 == 0)
	}

	list, err := svc.ListByOwner(ctx, 1, request.Pagination{From: 0, Size: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListByOwner(ctx, 1, request.Pagination{From: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	has, err := svc.HasItems(ctx, 1)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasItems(ctx, 2)
	require.NoError(t, err)
	assert.False(t, has)
}
