package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/types"
	"github.com/annomania/annomania-api/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "annomania", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Set{},
		&types.AnnotationType{},
		&types.AnnotationOption{},
		&types.Text{},
		&types.TextAnnotationStatus{},
		&types.Annotation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct {
		name string
		sql  string
	}{
		{"fk_set_owner_id", `ALTER TABLE "set" ADD CONSTRAINT "fk_set_owner_id" FOREIGN KEY ("owner_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"fk_annotation_type_set_id", `ALTER TABLE "annotation_type" ADD CONSTRAINT "fk_annotation_type_set_id" FOREIGN KEY ("set_id") REFERENCES "set"("id") ON DELETE CASCADE`},
		{"fk_annotation_option_type_id", `ALTER TABLE "annotation_option" ADD CONSTRAINT "fk_annotation_option_type_id" FOREIGN KEY ("annotation_type_id") REFERENCES "annotation_type"("id") ON DELETE CASCADE`},
		{"fk_text_set_id", `ALTER TABLE "text" ADD CONSTRAINT "fk_text_set_id" FOREIGN KEY ("set_id") REFERENCES "set"("id") ON DELETE CASCADE`},
		{"fk_text_annotation_status_text_id", `ALTER TABLE "text_annotation_status" ADD CONSTRAINT "fk_text_annotation_status_text_id" FOREIGN KEY ("text_id") REFERENCES "text"("id") ON DELETE CASCADE`},
		{"fk_annotation_text_id", `ALTER TABLE "annotation" ADD CONSTRAINT "fk_annotation_text_id" FOREIGN KEY ("text_id") REFERENCES "text"("id") ON DELETE CASCADE`},
	}
	for _, fk := range fks {
		if err := s.db.Exec(fmt.Sprintf(`
			DO $$ BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					%s;
				END IF;
			END $$;
		`, fk.name, fk.sql)).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}

	// Full-text index backing the topic fetch strategy.
	if err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_text_fulltext
		ON "text" USING GIN (to_tsvector('simple', "text"))
	`).Error; err != nil {
		return fmt.Errorf("failed to create full-text index: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
