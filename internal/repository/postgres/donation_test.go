//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewDonationRepository(testDB, logger)
	ctx := context.Background()

	donor := insertUser(t, testDB, domain.RoleDonor, true, true)
	d := newTestDonation(donor.ID)

	tx, err := testDB.Beginx()
	require.NoError(t, err)

	err = repo.CreateDonation(ctx, tx, d)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Regexp(t, `^DN-\d{8}-\d{4}$`, d.DonationRef)

	got, err := repo.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.DonationRef, got.DonationRef)
	assert.Equal(t, domain.DonationPending, got.Status)
	assert.Equal(t, domain.StringList{"vegetarian"}, got.DietaryInfo)
	require.Len(t, got.Timeline, 1)
	assert.Equal(t, "Donation created", got.Timeline[0].Note)

	_, err = repo.GetDonationByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDonationRepository_ApplyUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewDonationRepository(testDB, logger)
	ctx := context.Background()

	donor := insertUser(t, testDB, domain.RoleDonor, true, true)
	ngo := insertUser(t, testDB, domain.RoleNGO, true, true)
	d := newTestDonation(donor.ID)

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.CreateDonation(ctx, tx, d))
	require.NoError(t, tx.Commit())

	tx, err = testDB.Beginx()
	require.NoError(t, err)

	locked, err := repo.GetDonationByIDWithLock(ctx, tx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationPending, locked.Status)

	err = repo.ApplyUpdate(ctx, tx, d.ID, domain.DonationUpdate{
		Status:               domain.DonationMatched,
		CompletionPercentage: 50,
		MatchedNGOID:         &ngo.ID,
		TimelineNote:         "Accepted by Test ngo",
	}, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	got, err := repo.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.DonationMatched, got.Status)
	assert.Equal(t, 50, got.CompletionPercentage)
	require.NotNil(t, got.MatchedNGOID)
	assert.Equal(t, ngo.ID, *got.MatchedNGOID)
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, string(domain.DonationMatched), got.Timeline[1].Status)
}

func TestDonationRepository_UpdateWithoutNoteKeepsTimeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewDonationRepository(testDB, logger)
	ctx := context.Background()

	donor := insertUser(t, testDB, domain.RoleDonor, true, true)
	volunteer := insertUser(t, testDB, domain.RoleVolunteer, true, true)
	d := newTestDonation(donor.ID)
	d.Status = domain.DonationMatched
	d.CompletionPercentage = 50

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.CreateDonation(ctx, tx, d))

	err = repo.ApplyUpdate(ctx, tx, d.ID, domain.DonationUpdate{
		Status:               domain.DonationMatched,
		CompletionPercentage: 50,
		AssignedVolunteerID:  &volunteer.ID,
	}, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	got, err := repo.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)

	require.NotNil(t, got.AssignedVolunteerID)
	assert.Equal(t, volunteer.ID, *got.AssignedVolunteerID)
	assert.Len(t, got.Timeline, 1, "volunteer reassignment must not append a timeline entry")
}

func TestDonationRepository_Lists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewDonationRepository(testDB, logger)
	ctx := context.Background()

	donor := insertUser(t, testDB, domain.RoleDonor, true, true)
	other := insertUser(t, testDB, domain.RoleDonor, true, true)

	for i := 0; i < 3; i++ {
		d := newTestDonation(donor.ID)

		tx, err := testDB.Beginx()
		require.NoError(t, err)
		require.NoError(t, repo.CreateDonation(ctx, tx, d))
		require.NoError(t, tx.Commit())
	}

	donations, err := repo.ListByDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Len(t, donations, 3)

	donations, err = repo.ListByDonor(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, donations)

	available, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 3)
}
