package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	"yogacenter_backend/internals/helpers/apperr"
)

func TestCenterCRUD(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	c, err := CreateCenter(ctx, db, CenterInput{Name: "  Centro Norte ", Address: "Av. 1", Phone: "555-1"})
	require.NoError(t, err)
	assert.Equal(t, "Centro Norte", c.CenterName)

	name := "Centro Sur"
	updated, err := UpdateCenter(ctx, db, c.CenterID, UpdateCenterInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Centro Sur", updated.CenterName)
	assert.Equal(t, "Av. 1", updated.CenterAddress)

	rows, total, err := ListCenters(ctx, db, "sur", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)

	require.NoError(t, DeleteCenter(ctx, db, c.CenterID))
	_, err = GetCenter(ctx, db, c.CenterID)
	assert.ErrorIs(t, err, apperr.ErrCenterNotFound)
}

func TestCreateCenterRequiresName(t *testing.T) {
	db := dbtest.Open(t)
	_, err := CreateCenter(context.Background(), db, CenterInput{Name: "   "})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "center_name"})
}

func TestDeleteCenterWithClasses(t *testing.T) {
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)
	dbtest.SeedClass(t, db, dbtest.ClassOpts{CenterID: center.CenterID})

	err := DeleteCenter(context.Background(), db, center.CenterID)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "center_id"})
}

func TestAssignUserIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	center := dbtest.SeedCenter(t, db)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)
	student := dbtest.SeedUser(t, db, constants.RoleStudent)

	require.NoError(t, AssignUser(ctx, db, center.CenterID, teacher.ID))
	require.NoError(t, AssignUser(ctx, db, center.CenterID, teacher.ID))
	require.NoError(t, AssignUser(ctx, db, center.CenterID, student.ID))

	all, err := CenterUsers(ctx, db, center.CenterID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	role := constants.RoleTeacher
	teachers, err := CenterUsers(ctx, db, center.CenterID, &role)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, teacher.ID, teachers[0].ID)

	centers, err := UserCenters(ctx, db, teacher.ID)
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, center.CenterID, centers[0].CenterID)

	require.NoError(t, UnassignUser(ctx, db, center.CenterID, teacher.ID))
	err = UnassignUser(ctx, db, center.CenterID, teacher.ID)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "user_id"})
}

func TestAssignUnknownReferences(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	center := dbtest.SeedCenter(t, db)
	user := dbtest.SeedUser(t, db, constants.RoleStudent)

	assert.ErrorIs(t, AssignUser(ctx, db, uuid.New(), user.ID), apperr.ErrCenterNotFound)
	assert.ErrorIs(t, AssignUser(ctx, db, center.CenterID, uuid.New()), apperr.ErrUserNotFound)
}

func TestFirstCenter(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	c, err := FirstCenter(ctx, db)
	require.NoError(t, err)
	assert.Nil(t, c)

	seeded := dbtest.SeedCenter(t, db)
	c, err = FirstCenter(ctx, db)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, seeded.CenterID, c.CenterID)
}
