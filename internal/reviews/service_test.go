package reviews

import (
	"context"
	"strings"
	"testing"

	"github.com/petpal-app/petpal-backend/internal/hospitals"
	"github.com/petpal-app/petpal-backend/pkg/db/models"
	pkgerrors "github.com/petpal-app/petpal-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS hospitals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  email TEXT,
  image TEXT,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS reviews (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  hospital_id INTEGER NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"reviews", "hospitals", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newReviewService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), hospitals.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedReviewer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Username: "reviewer", Email: "reviewer@example.com", PasswordHash: "x", FullName: "Rae Viewer"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedHospital(t *testing.T, db *gorm.DB, name string) *models.Hospital {
	t.Helper()
	hospital := &models.Hospital{Name: name}
	require.NoError(t, db.Create(hospital).Error)
	return hospital
}

func TestSubmitAndList(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)
	user := seedReviewer(t, db)
	hospital := seedHospital(t, db, "Happy Paws Clinic")

	review, err := svc.Submit(context.Background(), user.ID, SubmitInput{
		HospitalID: hospital.ID,
		Rating:     5,
		Comment:    "Wonderful staff, my dog was at ease the whole time.",
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Happy Paws Clinic", rows[0].HospitalName)
	assert.Equal(t, "reviewer", rows[0].Username)
	assert.Equal(t, 5, rows[0].Rating)
}

func TestSubmitAllowsRepeatReviews(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)
	user := seedReviewer(t, db)
	hospital := seedHospital(t, db, "Second Opinion Vet")

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), user.ID, SubmitInput{
			HospitalID: hospital.ID,
			Rating:     4,
			Comment:    "Still a good clinic on the repeat visit.",
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("user_id = ? AND hospital_id = ?", user.ID, hospital.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSubmitValidation(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)
	hospital := seedHospital(t, db, "Validation Vet")

	_, err := svc.Submit(context.Background(), 1, SubmitInput{HospitalID: 0, Rating: 0, Comment: "short"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().([]string)
	require.True(t, ok)
	assert.Contains(t, details, "Please select a hospital.")
	assert.Contains(t, details, "Please provide a rating between 1 and 5.")
	assert.Contains(t, details, "Review must be at least 10 characters long.")

	_, err = svc.Submit(context.Background(), 1, SubmitInput{HospitalID: hospital.ID + 999, Rating: 3, Comment: "long enough but wrong hospital"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "Invalid hospital selected.", typed.Message())

	_, err = svc.Submit(context.Background(), 1, SubmitInput{
		HospitalID: hospital.ID,
		Rating:     6,
		Comment:    strings.Repeat("x", 1001),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok = typed.Details().([]string)
	require.True(t, ok)
	assert.Contains(t, details, "Please provide a rating between 1 and 5.")
	assert.Contains(t, details, "Review cannot exceed 1000 characters.")
}
