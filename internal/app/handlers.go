package app

import (
	"github.com/annomania/annomania-api/internal/handlers"
	"github.com/annomania/annomania-api/internal/logger"
)

type Handlers struct {
	Set         *handlers.SetHandler
	Text        *handlers.TextHandler
	Annotation  *handlers.AnnotationHandler
	TrainingSet *handlers.TrainingSetHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Set:         handlers.NewSetHandler(log, serviceset.Set),
		Text:        handlers.NewTextHandler(log, serviceset.Text),
		Annotation:  handlers.NewAnnotationHandler(log, serviceset.Annotation),
		TrainingSet: handlers.NewTrainingSetHandler(log, serviceset.TrainingSet),
	}
}
