package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	authHelper "yogacenter_backend/internals/features/users/auth/helper"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, RunAllSeeds(db))
	require.NoError(t, RunAllSeeds(db))

	var centers []centerModel.CenterModel
	require.NoError(t, db.Find(&centers).Error)
	require.Len(t, centers, 1)
	assert.Equal(t, DefaultCenterName, centers[0].CenterName)

	var admins []userModel.UserModel
	require.NoError(t, db.Where("role = ?", constants.RoleAdministrator).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, DefaultAdminEmail, admins[0].Email)
	assert.NoError(t, authHelper.CheckPasswordHash(admins[0].Password, DefaultAdminPassword))

	var links int64
	require.NoError(t, db.Model(&centerModel.UserCenterModel{}).
		Where("user_center_user_id = ? AND user_center_center_id = ?", admins[0].ID, centers[0].CenterID).
		Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestSeedDefaultAdminSkipsWhenAdminExists(t *testing.T) {
	db := dbtest.Open(t)
	existing := dbtest.SeedUser(t, db, constants.RoleAdministrator)

	require.NoError(t, SeedDefaultAdmin(context.Background(), db, nil))

	var n int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("role = ?", constants.RoleAdministrator).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	var u userModel.UserModel
	require.NoError(t, db.First(&u, "role = ?", constants.RoleAdministrator).Error)
	assert.Equal(t, existing.ID, u.ID)
}

func TestSeedDefaultCenterKeepsExisting(t *testing.T) {
	db := dbtest.Open(t)
	c := dbtest.SeedCenter(t, db)

	got, err := SeedDefaultCenter(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, c.CenterID, got.CenterID)
}
