package bootstrap

import (
	"time"

	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/controller"
	"media-retrieval-be/internal/handler"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/internal/service"
	"media-retrieval-be/internal/storage"
	"media-retrieval-be/pkg/process"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	DatasetController controller.IDatasetController
	MapperController  controller.IMapperController
	QueryController   controller.IQueryController
	StatusController  controller.IStatusController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Push channel
	UploadNotifyHandler *handler.UploadNotifyHandler

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	layout := storage.NewLayout(cfg.Storage.Root)
	runner := process.NewRunner()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	publisherService := service.NewPublisherService(pubSub)
	mapperService := service.NewMapperService(layout, sysLogger)
	datasetService := service.NewDatasetService(layout, mapperService, publisherService, sysLogger)
	queryService := service.NewQueryService(layout, mapperService, runner, cfg.Retrieval, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Retrieval.IngestTopic, cfg.Retrieval, runner, sysLogger)

	// 4. Controllers & Handlers
	notifyInterval := time.Duration(cfg.Notify.IntervalSeconds) * time.Second

	return &Container{
		SessionController: controller.NewSessionController(cfg.Session),
		DatasetController: controller.NewDatasetController(datasetService),
		MapperController:  controller.NewMapperController(mapperService),
		QueryController:   controller.NewQueryController(queryService),
		StatusController:  controller.NewStatusController(layout),

		ConsumerService: consumerService,

		UploadNotifyHandler: handler.NewUploadNotifyHandler(layout, notifyInterval, sysLogger),

		Logger: sysLogger,
	}
}
