package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	reservationService "yogacenter_backend/internals/features/classes/reservations/service"
	"yogacenter_backend/internals/helpers/apperr"
)

func ptr[T any](v T) *T { return &v }

func validInput(t *testing.T, centerID, teacherID uuid.UUID) CreateClassInput {
	t.Helper()
	return CreateClassInput{
		CenterID:    centerID,
		TeacherID:   teacherID,
		ScheduledAt: dbtest.BaseTime.Add(48 * time.Hour),
		MaxCapacity: 12,
		Price:       ptr(150.0),
	}
}

func TestCreateClassDefaults(t *testing.T) {
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)

	c, err := CreateClass(context.Background(), db, validInput(t, center.CenterID, teacher.ID))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, c.ClassID)
	assert.Equal(t, 0, c.ClassCurrentCapacity)
	assert.Equal(t, 70.0, c.ClassTeacherSharePercentage)
	assert.Equal(t, 150.0, c.ClassPrice)
}

func TestCreateClassValidation(t *testing.T) {
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)
	student := dbtest.SeedUser(t, db, constants.RoleStudent)

	tests := []struct {
		name  string
		edit  func(in *CreateClassInput)
		field string
	}{
		{"zero capacity", func(in *CreateClassInput) { in.MaxCapacity = 0 }, "max_capacity"},
		{"negative price", func(in *CreateClassInput) { in.Price = ptr(-1.0) }, "price"},
		{"share over 100", func(in *CreateClassInput) { in.TeacherSharePercentage = ptr(100.5) }, "teacher_share_percentage"},
		{"share below 0", func(in *CreateClassInput) { in.TeacherSharePercentage = ptr(-3.0) }, "teacher_share_percentage"},
		{"missing schedule", func(in *CreateClassInput) { in.ScheduledAt = time.Time{} }, "scheduled_at"},
		{"student as teacher", func(in *CreateClassInput) { in.TeacherID = student.ID }, "teacher_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(t, center.CenterID, teacher.ID)
			tt.edit(&in)
			_, err := CreateClass(context.Background(), db, in)
			assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: tt.field})
		})
	}
}

func TestCreateClassUnknownReferences(t *testing.T) {
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)

	_, err := CreateClass(context.Background(), db, validInput(t, uuid.New(), teacher.ID))
	assert.ErrorIs(t, err, apperr.ErrCenterNotFound)

	_, err = CreateClass(context.Background(), db, validInput(t, center.CenterID, uuid.New()))
	assert.ErrorIs(t, err, apperr.NotFound("teacher"))
}

func TestCreateClassBoundaryShare(t *testing.T) {
	db := dbtest.Open(t)
	center := dbtest.SeedCenter(t, db)
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)

	for _, pct := range []float64{0, 100} {
		in := validInput(t, center.CenterID, teacher.ID)
		in.TeacherSharePercentage = ptr(pct)
		c, err := CreateClass(context.Background(), db, in)
		require.NoError(t, err)
		assert.Equal(t, pct, c.ClassTeacherSharePercentage)
	}
}

func TestUpdateClassCannotShrinkBelowBookings(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{MaxCapacity: 3})
	for i := 0; i < 2; i++ {
		s := dbtest.SeedUser(t, db, constants.RoleStudent)
		_, err := reservationService.Reserve(ctx, db, s.ID, class.ClassID, dbtest.BaseTime)
		require.NoError(t, err)
	}

	_, err := UpdateClass(ctx, db, class.ClassID, UpdateClassInput{MaxCapacity: ptr(1)})
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "max_capacity"})

	updated, err := UpdateClass(ctx, db, class.ClassID, UpdateClassInput{MaxCapacity: ptr(2), Price: ptr(80.0)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ClassMaxCapacity)
	assert.Equal(t, 80.0, updated.ClassPrice)
	assert.Equal(t, 2, updated.ClassCurrentCapacity)
}

func TestUpdateClassUnknown(t *testing.T) {
	db := dbtest.Open(t)
	_, err := UpdateClass(context.Background(), db, uuid.New(), UpdateClassInput{Price: ptr(1.0)})
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)
}

func TestDeleteClass(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	empty := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	booked := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	s := dbtest.SeedUser(t, db, constants.RoleStudent)
	_, err := reservationService.Reserve(ctx, db, s.ID, booked.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	require.NoError(t, DeleteClass(ctx, db, empty.ClassID))
	_, err = GetClass(ctx, db, empty.ClassID)
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)

	err = DeleteClass(ctx, db, booked.ClassID)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "class_id"})

	assert.ErrorIs(t, DeleteClass(ctx, db, uuid.New()), apperr.ErrClassNotFound)
}

func TestAvailableClassesExcludesFullAndHeld(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	center := dbtest.SeedCenter(t, db)
	day := dbtest.BaseTime

	open := dbtest.SeedClass(t, db, dbtest.ClassOpts{CenterID: center.CenterID, ScheduledAt: day})
	full := dbtest.SeedClass(t, db, dbtest.ClassOpts{CenterID: center.CenterID, ScheduledAt: day.Add(time.Hour), MaxCapacity: 1})
	held := dbtest.SeedClass(t, db, dbtest.ClassOpts{CenterID: center.CenterID, ScheduledAt: day.Add(2 * time.Hour)})
	dbtest.SeedClass(t, db, dbtest.ClassOpts{CenterID: center.CenterID, ScheduledAt: day.AddDate(0, 0, 1)})

	me := dbtest.SeedUser(t, db, constants.RoleStudent)
	other := dbtest.SeedUser(t, db, constants.RoleStudent)
	_, err := reservationService.Reserve(ctx, db, other.ID, full.ClassID, day)
	require.NoError(t, err)
	_, err = reservationService.Reserve(ctx, db, me.ID, held.ClassID, day)
	require.NoError(t, err)

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows, err := AvailableClasses(ctx, db, from, to, &me.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open.ClassID, rows[0].ClassID)

	// tanpa student: kelas yang di-hold tetap muncul
	rows, err = AvailableClasses(ctx, db, from, to, nil, &center.CenterID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListAndUpcomingByTeacher(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	teacher := dbtest.SeedUser(t, db, constants.RoleTeacher)
	now := dbtest.BaseTime

	past := dbtest.SeedClass(t, db, dbtest.ClassOpts{TeacherID: teacher.ID, ScheduledAt: now.Add(-24 * time.Hour)})
	soon := dbtest.SeedClass(t, db, dbtest.ClassOpts{TeacherID: teacher.ID, ScheduledAt: now.Add(24 * time.Hour)})
	dbtest.SeedClass(t, db, dbtest.ClassOpts{TeacherID: teacher.ID, ScheduledAt: now.AddDate(0, 0, 30)})
	dbtest.SeedClass(t, db, dbtest.ClassOpts{ScheduledAt: now.Add(24 * time.Hour)})

	rows, total, err := ListClasses(ctx, db, ListFilter{TeacherID: &teacher.ID, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, past.ClassID, rows[0].ClassID)

	upcoming, err := UpcomingClasses(ctx, db, now, 7, &teacher.ID, nil)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ClassID, upcoming[0].ClassID)
}
