package importer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
)

func newTestResolver(t *testing.T, store *fakeStorage) *Resolver {
	t.Helper()
	r, err := NewResolver(context.Background(), store, NewCodeSequencer(0))
	require.NoError(t, err)
	return r
}

func seedProject(store *fakeStorage, code, name string) uuid.UUID {
	id := uuid.New()
	store.projects = append(store.projects, domain.Project{
		BaseModel: domain.BaseModel{ID: id},
		Code:      code,
		Name:      name,
	})
	return id
}

func TestLookupProject_ExactName(t *testing.T) {
	store := newFakeStorage()
	id := seedProject(store, "ACM001", "Acme Platform Rebuild")
	r := newTestResolver(t, store)

	ref, ok := r.LookupProject("acme platform rebuild")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchExact, ref.Via)
}

func TestLookupProject_ExactCode(t *testing.T) {
	store := newFakeStorage()
	id := seedProject(store, "ACM001", "Acme Platform Rebuild")
	r := newTestResolver(t, store)

	ref, ok := r.LookupProject("acm001")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchExact, ref.Via)
}

func TestLookupProject_CodePrefixToken(t *testing.T) {
	store := newFakeStorage()
	id := seedProject(store, "NBF2103", "Northbank Fit-out")
	r := newTestResolver(t, store)

	ref, ok := r.LookupProject("NBF2103 - extra works variation")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchCodePrefix, ref.Via)
}

func TestLookupProject_Substring(t *testing.T) {
	store := newFakeStorage()
	id := seedProject(store, "ACM001", "Acme Platform Rebuild")
	r := newTestResolver(t, store)

	ref, ok := r.LookupProject("Platform Rebuild")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchSubstring, ref.Via)
}

func TestLookupProject_NoMatch(t *testing.T) {
	r := newTestResolver(t, newFakeStorage())
	_, ok := r.LookupProject("completely unknown")
	assert.False(t, ok)
	_, ok = r.LookupProject("")
	assert.False(t, ok)
}

func TestResolveProject_CreatesWithInternalCode(t *testing.T) {
	store := newFakeStorage()
	r := newTestResolver(t, store)

	ref, err := r.ResolveProject(context.Background(), "Brand New Engagement")
	require.NoError(t, err)
	assert.Equal(t, MatchCreated, ref.Via)

	require.Len(t, store.projects, 1)
	created := store.projects[0]
	assert.Equal(t, "INT1", created.Code)
	assert.Equal(t, domain.WorkTypeClient, created.WorkType)

	// Later rows in the same run resolve against the new record.
	again, err := r.ResolveProject(context.Background(), "Brand New Engagement")
	require.NoError(t, err)
	assert.Equal(t, ref.ID, again.ID)
	assert.Equal(t, MatchExact, again.Via)
	assert.Len(t, store.projects, 1)
}

func TestResolveProject_InternalMarkers(t *testing.T) {
	store := newFakeStorage()
	r := newTestResolver(t, store)

	for _, label := range []string{"12345", "Reason annual leave"} {
		_, err := r.ResolveProject(context.Background(), label)
		require.NoError(t, err)
	}
	require.Len(t, store.projects, 2)
	for _, p := range store.projects {
		assert.Equal(t, domain.WorkTypeInternal, p.WorkType, p.Name)
	}
}

func TestResolveProject_StorageError(t *testing.T) {
	store := newFakeStorage()
	store.failCreateProject = errStorageDown
	r := newTestResolver(t, store)

	_, err := r.ResolveProject(context.Background(), "New Project")
	assert.ErrorIs(t, err, errStorageDown)
}

func TestLookupEmployee(t *testing.T) {
	store := newFakeStorage()
	id := uuid.New()
	store.employees = append(store.employees, domain.Employee{
		BaseModel: domain.BaseModel{ID: id},
		Code:      "E100",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	r := newTestResolver(t, store)

	ref, ok := r.LookupEmployee("dana reyes")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchExact, ref.Via)

	// Last-name-only fallback.
	ref, ok = r.LookupEmployee("D Reyes")
	require.True(t, ok)
	assert.Equal(t, id, ref.ID)
	assert.Equal(t, MatchSubstring, ref.Via)

	_, ok = r.LookupEmployee("Sam Okafor")
	assert.False(t, ok)
}

func TestResolveEmployee_Creates(t *testing.T) {
	store := newFakeStorage()
	r := newTestResolver(t, store)

	ref, err := r.ResolveEmployee(context.Background(), "Sam Okafor")
	require.NoError(t, err)
	assert.Equal(t, MatchCreated, ref.Via)

	require.Len(t, store.employees, 1)
	created := store.employees[0]
	assert.Equal(t, "Sam", created.FirstName)
	assert.Equal(t, "Okafor", created.LastName)
	assert.Equal(t, "E1", created.Code)
	assert.Equal(t, domain.StaffTypePermanent, created.StaffType)
}

func TestInferClient(t *testing.T) {
	assert.Equal(t, "NBF", inferClient("NBF2103 extra works"))
	assert.Equal(t, "ACME", inferClient("Acme rebuild"))
	assert.Equal(t, "", inferClient(""))
}
