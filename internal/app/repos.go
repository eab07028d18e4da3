package app

import (
	"gorm.io/gorm"

	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	Set        repos.SetRepo
	Text       repos.TextRepo
	Annotation repos.AnnotationRepo
	Status     repos.StatusRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Set:        repos.NewSetRepo(db, log),
		Text:       repos.NewTextRepo(db, log),
		Annotation: repos.NewAnnotationRepo(db, log),
		Status:     repos.NewStatusRepo(db, log),
	}
}
