//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_CreateRating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	donationRepo := NewDonationRepository(testDB, logger)
	repo := NewRatingRepository(testDB, logger)
	ctx := context.Background()

	donor := insertUser(t, testDB, domain.RoleDonor, true, true)
	ngo := insertUser(t, testDB, domain.RoleNGO, true, true)

	d := newTestDonation(donor.ID)

	tx, err := testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, donationRepo.CreateDonation(ctx, tx, d))
	require.NoError(t, tx.Commit())

	rating := &domain.Rating{
		ID:         uuid.NewString(),
		DonationID: d.ID,
		RatedBy:    ngo.ID,
		RatedTo:    donor.ID,
		RatedType:  domain.RatedTypeNGO,
		Rating:     4,
		Comment:    "fresh and well packed",
		CreatedAt:  time.Now().UTC(),
	}

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.CreateRating(ctx, tx, rating))
	require.NoError(t, tx.Commit())

	ratings, err := repo.ListByDonation(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 4, ratings[0].Rating)

	duplicate := *rating
	duplicate.ID = uuid.NewString()

	tx, err = testDB.Beginx()
	require.NoError(t, err)
	err = repo.CreateRating(ctx, tx, &duplicate)

	var alreadyRated *apperrors.AlreadyRatedError
	assert.ErrorAs(t, err, &alreadyRated)
	_ = tx.Rollback()
}
