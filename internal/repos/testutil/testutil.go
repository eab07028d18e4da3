package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Set{},
		&types.AnnotationType{},
		&types.AnnotationOption{},
		&types.Text{},
		&types.TextAnnotationStatus{},
		&types.Annotation{},
	)
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:         uuid.New(),
		Username:   username,
		ConsumerID: fmt.Sprintf("consumer-%s", uuid.New()),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedSet creates a set with one question ("sentiment") that has the given
// option names, in order.
func SeedSet(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, optionNames ...string) *types.Set {
	tb.Helper()

	options := make([]types.AnnotationOption, len(optionNames))
	for i, name := range optionNames {
		options[i] = types.AnnotationOption{ID: uuid.New(), Name: name, Position: i}
	}
	s := &types.Set{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    fmt.Sprintf("set-%s", uuid.New()),
	}
	if len(options) > 0 {
		s.AnnotationTypes = []types.AnnotationType{{
			ID:       uuid.New(),
			Name:     "sentiment",
			Position: 0,
			Options:  options,
		}}
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed set: %v", err)
	}
	return s
}

func SeedText(tb testing.TB, ctx context.Context, tx *gorm.DB, setID uuid.UUID, text string) *types.Text {
	tb.Helper()
	tr := &types.Text{
		ID:    uuid.New(),
		SetID: setID,
		Text:  text,
	}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed text: %v", err)
	}
	return tr
}

func SeedAnnotation(tb testing.TB, ctx context.Context, tx *gorm.DB, textID, typeID, optionID, userID uuid.UUID) *types.Annotation {
	tb.Helper()
	a := &types.Annotation{
		ID:                 uuid.New(),
		TextID:             textID,
		AnnotationTypeID:   typeID,
		AnnotationOptionID: optionID,
		UserID:             userID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed annotation: %v", err)
	}
	return a
}
