package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/api/controller"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
	"github.com/tgaplan/estimator/internal/service/bki"
	"github.com/tgaplan/estimator/internal/service/classifier"
	"github.com/tgaplan/estimator/internal/service/cost"
	"github.com/tgaplan/estimator/internal/service/pipeline"
	"github.com/tgaplan/estimator/internal/service/power"
	"github.com/tgaplan/estimator/internal/service/report"
)

type APIService struct {
	router *echo.Echo
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(st store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	var ranker classifier.Ranker
	if baseURL := viper.GetString(constants.ViperKeyRankerBaseURL); baseURL != "" {
		ranker = classifier.NewRemoteRanker(baseURL)
	}

	orchestrator := pipeline.NewOrchestrator(
		classifier.New(classifier.ConfigFromViper(), ranker),
		power.NewEstimator(power.ConfigFromViper()),
		cost.NewEstimator(cost.FactorsFromViper()),
		st,
	)
	reportService := report.NewService(report.NoopRenderer{Dir: "outputs"}, st)
	importer := bki.NewService(st)

	cntrl := controller.NewController(orchestrator, reportService, importer, st)

	svc.router.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := svc.router.Group("/api/v1")

	roomtypes := api.Group("/roomtypes")
	roomtypes.POST("/classify", cntrl.ClassifyRoomTypes)

	powerGroup := api.Group("/power")
	powerGroup.POST("/requirements", cntrl.GeneratePowerRequirements)

	costGroup := api.Group("/cost")
	costGroup.POST("/estimate", cntrl.EstimateCost)

	reports := api.Group("/reports")
	reports.POST("/generate", cntrl.GenerateReport)

	admin := api.Group("/admin", svc.AdminMiddleware)
	admin.POST("/catalog/import", cntrl.ImportCatalog)
	admin.POST("/costfactors/import", cntrl.ImportCostFactors)

	return svc, nil
}
