package app

import (
	"gorm.io/gorm"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/annomania/annomania-api/internal/jobqueue"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/services"
	"github.com/annomania/annomania-api/internal/temporalx"
	"github.com/annomania/annomania-api/internal/temporalx/statusjob"
)

type Services struct {
	User        services.UserService
	Set         services.SetService
	Text        services.TextService
	Annotation  services.AnnotationService
	Consensus   services.ConsensusService
	TrainingSet services.TrainingSetService

	Dispatcher jobqueue.Dispatcher
}

// wireServices builds the service graph. With a Temporal client the status
// jobs go through the cluster; without one they run inline in this process.
func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, tc temporalsdkclient.Client) (Services, error) {
	log.Info("Wiring services...")

	consensusService := services.NewConsensusService(db, log, reposet.Text, reposet.Annotation, reposet.Status)

	var dispatcher jobqueue.Dispatcher
	if tc != nil {
		var err error
		dispatcher, err = statusjob.NewDispatcher(log, tc, temporalx.LoadConfig().TaskQueue)
		if err != nil {
			return Services{}, err
		}
	} else {
		dispatcher = jobqueue.NewInlineDispatcher(log, consensusService.Rebuild)
	}

	return Services{
		User:        services.NewUserService(db, log, reposet.User),
		Set:         services.NewSetService(db, log, reposet.Set),
		Text:        services.NewTextService(db, log, reposet.Text),
		Annotation:  services.NewAnnotationService(db, log, reposet.Text, reposet.Annotation, dispatcher),
		Consensus:   consensusService,
		TrainingSet: services.NewTrainingSetService(db, log, reposet.Text),
		Dispatcher:  dispatcher,
	}, nil
}
