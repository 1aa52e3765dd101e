package session

import (
	"context"
	"errors"
	"testing"

	"github.com/go-feeding-dashboard/internal/domain"
	"github.com/go-feeding-dashboard/internal/infrastructure/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *mockStorage) SetMany(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}
func (m *mockStorage) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// --- helpers ---

func schoolSession() *domain.Session {
	return &domain.Session{
		Token:    "t1",
		Role:     "SCHOOL",
		SchoolID: "sch-9",
		UserID:   "s1",
		Profile:  &domain.Profile{ID: "s1", Names: "Head Teacher", Email: "head@school.example", School: "sch-9"},
	}
}

// --- tests ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewStore(kv.NewMemory(), nil)

	require.NoError(t, st.Save(ctx, schoolSession()))

	got, ok := st.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, "SCHOOL", got.Role)
	assert.Equal(t, "sch-9", got.SchoolID)
	assert.Equal(t, "", got.DistrictID)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Head Teacher", got.Profile.Names)
}

func TestSave_WritesAllSixKeys(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	st := NewStore(mem, nil)

	require.NoError(t, st.Save(ctx, &domain.Session{Token: "t", Role: "ADMIN"}))

	assert.Equal(t, len(domain.SessionKeys), mem.Len())
	for _, key := range domain.SessionKeys {
		_, ok, _ := mem.Get(ctx, key)
		assert.True(t, ok, "key %s", key)
	}
}

func TestSave_RejectsPartialSession(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	st := NewStore(mem, nil)

	err := st.Save(ctx, &domain.Session{Token: "t-only"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	err = st.Save(ctx, &domain.Session{Role: "SCHOOL"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	assert.Equal(t, 0, mem.Len())
}

func TestSave_StorageFailureIsSwallowedAndRolledBack(t *testing.T) {
	ms := &mockStorage{}
	ms.On("SetMany", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))
	ms.On("Delete", mock.Anything, domain.SessionKeys).Return(nil)

	err := NewStore(ms, nil).Save(context.Background(), schoolSession())

	require.NoError(t, err)
	ms.AssertCalled(t, "Delete", mock.Anything, domain.SessionKeys)
}

func TestClear_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := NewStore(kv.NewMemory(), nil)
	require.NoError(t, st.Save(ctx, schoolSession()))

	st.Clear(ctx)
	_, ok := st.Load(ctx)
	assert.False(t, ok)

	st.Clear(ctx)
	_, ok = st.Load(ctx)
	assert.False(t, ok)
}

func TestLoad_EmptyStorage(t *testing.T) {
	got, ok := NewStore(kv.NewMemory(), nil).Load(context.Background())

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestLoad_CorruptProfileDegradesPerField(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	mem.Set(domain.KeyToken, "t1")
	mem.Set(domain.KeyRole, "DISTRICT")
	mem.Set(domain.KeyDistrictID, "d-4")
	mem.Set(domain.KeyUser, "{this is not json")

	got, ok := NewStore(mem, nil).Load(ctx)

	require.True(t, ok)
	assert.Nil(t, got.Profile)
	assert.Equal(t, "DISTRICT", got.Role)
	assert.Equal(t, "d-4", got.DistrictID)
}

func TestLoad_ReadErrorOnOneKeyKeepsTheRest(t *testing.T) {
	ms := &mockStorage{}
	ms.On("Get", mock.Anything, domain.KeyToken).Return("t1", true, nil)
	ms.On("Get", mock.Anything, domain.KeyRole).Return("SUPPLIER", true, nil)
	ms.On("Get", mock.Anything, domain.KeyUserID).Return("", false, errors.New("io error"))
	ms.On("Get", mock.Anything, mock.Anything).Return("", false, nil)

	got, ok := NewStore(ms, nil).Load(context.Background())

	require.True(t, ok)
	assert.Equal(t, "SUPPLIER", got.Role)
	assert.Equal(t, "", got.UserID)
}

func TestSharedStorage_LogoutInOneStoreIsSeenByAnother(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	tabA, tabB := NewStore(mem, nil), NewStore(mem, nil)
	require.NoError(t, tabA.Save(ctx, schoolSession()))

	_, ok := tabB.Load(ctx)
	require.True(t, ok)

	tabA.Clear(ctx)

	_, ok = tabB.Load(ctx)
	assert.False(t, ok)
}
