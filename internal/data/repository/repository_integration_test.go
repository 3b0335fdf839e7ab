//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/schema"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:17",
		postgres.WithDatabase("backoffice"),
		postgres.WithUsername("backoffice"),
		postgres.WithPassword("backoffice"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.FromPool(pool)
	require.NoError(t, schema.Apply(ctx, db))

	return NewRepository(db, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestUserRepository_SearchScopesRoleAndOrdersStably(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	for _, u := range []*entity.User{
		{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient},
		{Name: "Bob", Email: "bob@x.io", PasswordHash: "h", Role: entity.RoleClient},
		{Name: "Cid", Email: "cid@x.io", PasswordHash: "h", Role: entity.RoleStaff},
		{Name: "Dee 100%", Email: "dee@x.io", PasswordHash: "h", Role: entity.RoleClient},
	} {
		require.NoError(t, repo.User.Create(ctx, u))
	}

	filter := UserFilter{Role: entity.RoleClient}
	total, err := repo.User.Count(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	first, err := repo.User.Search(ctx, filter, 2, 0)
	require.NoError(t, err)
	second, err := repo.User.Search(ctx, filter, 2, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, second, 1)

	seen := map[int64]bool{}
	for _, u := range append(first, second...) {
		assert.Equal(t, entity.RoleClient, u.Role)
		assert.False(t, seen[u.ID], "user %d appeared twice", u.ID)
		seen[u.ID] = true
	}

	// % must match literally
	found, err := repo.User.Search(ctx, UserFilter{Role: entity.RoleClient, Search: "100%"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "dee@x.io", found[0].Email)
}

func TestUserRepository_SearchIgnoresCompanyName(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	u := &entity.User{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient}
	require.NoError(t, repo.User.Create(ctx, u))
	require.NoError(t, repo.Profile.Upsert(ctx, &entity.Profile{UserID: u.ID, CompanyName: strPtr("Acme Ltd")}))

	filter := UserFilter{Role: entity.RoleClient, Search: "acme", WithProfile: true}
	found, err := repo.User.Search(ctx, filter, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, found)
	total, err := repo.User.Count(ctx, filter)
	require.NoError(t, err)
	assert.Zero(t, total)

	found, err = repo.User.Search(ctx, UserFilter{Role: entity.RoleClient, Search: "ana", WithProfile: true}, 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Profile)
	assert.Equal(t, "Acme Ltd", *found[0].Profile.CompanyName)
	assert.Nil(t, found[0].Profile.TaxID)
}

func TestProfileRepository_UpsertReplacesAttributes(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	u := &entity.User{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient}
	require.NoError(t, repo.User.Create(ctx, u))

	require.NoError(t, repo.Profile.Upsert(ctx, &entity.Profile{UserID: u.ID, City: strPtr("Lisbon"), TaxID: strPtr("PT1")}))
	require.NoError(t, repo.Profile.Upsert(ctx, &entity.Profile{UserID: u.ID, City: strPtr("Porto")}))

	p, err := repo.Profile.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Porto", *p.City)
	assert.Nil(t, p.TaxID)
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx *Repository) error {
		u := &entity.User{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient}
		if err := tx.User.Create(ctx, u); err != nil {
			return err
		}
		// unknown country violates the foreign key
		return tx.Profile.Upsert(ctx, &entity.Profile{UserID: u.ID, CountryID: new(int64)})
	})
	require.Error(t, err)
	_, isFK := database.ForeignKeyViolation(err)
	assert.True(t, isFK)

	u, err := repo.User.FindByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_DeleteByIDsAndRole(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	client := &entity.User{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient}
	staff := &entity.User{Name: "Bob", Email: "bob@x.io", PasswordHash: "h", Role: entity.RoleStaff, AvatarPath: strPtr("team/a.png")}
	require.NoError(t, repo.User.Create(ctx, client))
	require.NoError(t, repo.User.Create(ctx, staff))

	deleted, err := repo.User.DeleteByIDsAndRole(ctx, []int64{client.ID, staff.ID, 9999}, entity.RoleStaff)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, staff.ID, deleted[0].ID)
	assert.Equal(t, "team/a.png", *deleted[0].AvatarPath)

	still, err := repo.User.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.User.Create(ctx, &entity.User{Name: "Ana", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleClient}))
	err := repo.User.Create(ctx, &entity.User{Name: "Ana 2", Email: "ana@x.io", PasswordHash: "h", Role: entity.RoleStaff})

	constraint, ok := database.UniqueViolation(err)
	require.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)
}

func TestTagAndCountryRepositories(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	c := &entity.Country{Name: "Portugal", ISO2: "pt", ISO3: "prt"}
	require.NoError(t, repo.Country.UpsertByISO2(ctx, c))
	assert.Equal(t, "PT", c.ISO2)
	require.NoError(t, repo.Country.UpsertByISO2(ctx, &entity.Country{Name: "Portugal (PT)", ISO2: "PT", ISO3: "PRT"}))

	all, err := repo.Country.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Portugal (PT)", all[0].Name)

	for _, name := range []string{"vip", "late", "vip_gold"} {
		require.NoError(t, repo.Tag.Create(ctx, &entity.Tag{Name: name}))
	}
	tags, err := repo.Tag.Search(ctx, TagFilter{Search: "_"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "vip_gold", tags[0].Name)

	n, err := repo.Tag.DeleteByIDs(ctx, []int64{tags[0].ID, 424242})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestActivityRepository_RecordAndFind(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	subject := int64(7)
	require.NoError(t, repo.Activity.Record(ctx, &entity.Activity{
		LogName:     "default",
		Event:       "client.created",
		SubjectType: "client",
		SubjectID:   &subject,
		Properties:  map[string]any{"email": "ana@x.io"},
	}))

	history, err := repo.Activity.FindBySubject(ctx, "client", subject)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "client.created", history[0].Event)
	assert.Nil(t, history[0].CauserID)
	assert.Equal(t, "ana@x.io", history[0].Properties["email"])
}
