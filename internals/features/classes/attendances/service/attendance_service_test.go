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
	"yogacenter_backend/internals/features/classes/attendances/model"
	reservationService "yogacenter_backend/internals/features/classes/reservations/service"
	"yogacenter_backend/internals/helpers/apperr"
)

func TestMarkAttendanceUpsert(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	student := dbtest.SeedUser(t, db, constants.RoleStudent)
	_, err := reservationService.Reserve(ctx, db, student.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)

	checkIn := dbtest.BaseTime.Add(5 * time.Minute)
	a, err := MarkAttendance(ctx, db, class.ClassID, MarkInput{
		StudentID:   student.ID,
		Status:      model.AttendanceStatusLate,
		CheckInTime: &checkIn,
	}, dbtest.BaseTime.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceStatusLate, a.AttendanceStatus)
	require.NotNil(t, a.AttendanceAttendedAt)
	require.NotNil(t, a.AttendanceCheckInTime)
	assert.True(t, checkIn.Equal(*a.AttendanceCheckInTime))

	// tandai ulang sebagai absent: row yang sama, waktu dikosongkan
	notes := "  sick  "
	b, err := MarkAttendance(ctx, db, class.ClassID, MarkInput{
		StudentID: student.ID,
		Status:    model.AttendanceStatusAbsent,
		Notes:     &notes,
	}, dbtest.BaseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a.AttendanceID, b.AttendanceID)
	assert.Equal(t, model.AttendanceStatusAbsent, b.AttendanceStatus)
	assert.Nil(t, b.AttendanceAttendedAt)
	assert.Nil(t, b.AttendanceCheckInTime)
	require.NotNil(t, b.AttendanceNotes)
	assert.Equal(t, "sick", *b.AttendanceNotes)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkAttendanceRequiresReservation(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	student := dbtest.SeedUser(t, db, constants.RoleStudent)

	_, err := MarkAttendance(ctx, db, class.ClassID, MarkInput{StudentID: student.ID, Status: model.AttendanceStatusPresent}, dbtest.BaseTime)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "student_id"})

	// reservasi yang dibatalkan juga tidak dihitung
	r, err := reservationService.Reserve(ctx, db, student.ID, class.ClassID, dbtest.BaseTime)
	require.NoError(t, err)
	_, err = reservationService.Cancel(ctx, db, r.ReservationID, dbtest.BaseTime)
	require.NoError(t, err)

	_, err = MarkAttendance(ctx, db, class.ClassID, MarkInput{StudentID: student.ID, Status: model.AttendanceStatusPresent}, dbtest.BaseTime)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "student_id"})
}

func TestMarkAttendanceInvalidInput(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	_, err := MarkAttendance(ctx, db, uuid.New(), MarkInput{StudentID: uuid.New(), Status: model.AttendanceStatusPresent}, dbtest.BaseTime)
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)

	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	_, err = MarkAttendance(ctx, db, class.ClassID, MarkInput{StudentID: uuid.New(), Status: "sleeping"}, dbtest.BaseTime)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "attendance_status"})
}

func TestBulkMarkIsAtomic(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	a := dbtest.SeedUser(t, db, constants.RoleStudent)
	b := dbtest.SeedUser(t, db, constants.RoleStudent)
	stranger := dbtest.SeedUser(t, db, constants.RoleStudent)
	for _, s := range []uuid.UUID{a.ID, b.ID} {
		_, err := reservationService.Reserve(ctx, db, s, class.ClassID, dbtest.BaseTime)
		require.NoError(t, err)
	}

	_, err := BulkMark(ctx, db, class.ClassID, []MarkInput{
		{StudentID: a.ID, Status: model.AttendanceStatusPresent},
		{StudentID: stranger.ID, Status: model.AttendanceStatusPresent},
	}, dbtest.BaseTime)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceModel{}).Count(&count).Error)
	assert.Zero(t, count)

	rows, err := BulkMark(ctx, db, class.ClassID, []MarkInput{
		{StudentID: a.ID, Status: model.AttendanceStatusPresent},
		{StudentID: b.ID, Status: model.AttendanceStatusAbsent},
	}, dbtest.BaseTime)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = BulkMark(ctx, db, class.ClassID, []MarkInput{
		{StudentID: a.ID, Status: model.AttendanceStatusPresent},
		{StudentID: a.ID, Status: model.AttendanceStatusLate},
	}, dbtest.BaseTime)
	assert.ErrorIs(t, err, &apperr.Error{Kind: apperr.KindValidation, Field: "entries"})
}

func TestClassRosterAndList(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	class := dbtest.SeedClass(t, db, dbtest.ClassOpts{})
	a := dbtest.SeedUser(t, db, constants.RoleStudent)
	b := dbtest.SeedUser(t, db, constants.RoleStudent)
	for _, s := range []uuid.UUID{a.ID, b.ID} {
		_, err := reservationService.Reserve(ctx, db, s, class.ClassID, dbtest.BaseTime)
		require.NoError(t, err)
	}
	_, err := MarkAttendance(ctx, db, class.ClassID, MarkInput{StudentID: a.ID, Status: model.AttendanceStatusPresent}, dbtest.BaseTime)
	require.NoError(t, err)

	roster, err := ClassRoster(ctx, db, class.ClassID)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	marked := 0
	for _, e := range roster {
		if e.StudentID == a.ID {
			require.NotNil(t, e.AttendanceStatus)
			assert.Equal(t, model.AttendanceStatusPresent, *e.AttendanceStatus)
			marked++
		} else {
			assert.Nil(t, e.AttendanceStatus)
		}
	}
	assert.Equal(t, 1, marked)

	rows, total, err := ListAttendances(ctx, db, ListFilter{ClassID: &class.ClassID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].AttendanceStudentID)

	_, err = ClassRoster(ctx, db, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrClassNotFound)
}
