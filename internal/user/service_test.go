package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
	// referenced marks users that still own rows elsewhere.
	referenced map[int64]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*User{}, referenced: map[int64]bool{}}
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, mutate func(u *User) error) (*User, error) {
	r.mu.Lock()
	u, ok := r.users[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.users[id] = &cp
	r.mu.Unlock()
	out := cp
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	if r.referenced[id] {
		return ErrStillReferenced
	}
	delete(r.users, id)
	return nil
}

func TestCreateUser(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateRequest{Name: " Alice ", Email: " Alice@Example.com "})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.Create(ctx, CreateRequest{Name: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	_, err = svc.Create(ctx, CreateRequest{Name: "  ", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, CreateRequest{Name: "X", Email: " "})
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestUpdateUserPartial(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	alice, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, CreateRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	blank := "   "
	newName := "Alicia"
	u, err := svc.Update(ctx, alice.ID, alice.ID, UpdateRequest{Name: &newName, Email: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, "alice@example.com", u.Email, "blank email leaves the field untouched")

	taken := "BOB@example.com"
	_, err = svc.Update(ctx, alice.ID, alice.ID, UpdateRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	same := "alice@example.com"
	_, err = svc.Update(ctx, alice.ID, alice.ID, UpdateRequest{Email: &same})
	assert.NoError(t, err, "keeping one's own email is not a conflict")

	_, err = svc.Update(ctx, bob.ID, alice.ID, UpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound, "updating someone else is reported as not found")
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	alice, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, CreateRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, alice.ID), ErrNotFound)

	repo.referenced[bob.ID] = true
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, bob.ID), ErrStillReferenced)

	require.NoError(t, svc.Delete(ctx, alice.ID, alice.ID))
	_, err = svc.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)
}
