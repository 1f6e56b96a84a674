package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/metals-platform/production-service/pkg/cloudevents"
	"github.com/metals-platform/production-service/pkg/kafka"
	"github.com/metals-platform/production-service/pkg/logging"
	"github.com/metals-platform/production-service/pkg/metrics"
	"github.com/metals-platform/production-service/pkg/middleware"
	"github.com/metals-platform/production-service/pkg/mongodb"

	"github.com/metals-platform/production-service/internal/application"
	kafkaAdapter "github.com/metals-platform/production-service/internal/infrastructure/kafka"
	mongoRepo "github.com/metals-platform/production-service/internal/infrastructure/mongodb"
)

const serviceName = "production-service"

func main() {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting production-service API")

	// Load configuration
	config := loadConfig()
	ctx := context.Background()

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer with instrumentation
	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	defer instrumentedProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize CloudEvents factory
	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceProduction)

	// Initialize repositories
	db := mongoClient.Database()
	workOrderRepo := mongoRepo.NewWorkOrderRepository(mongoClient)
	pickingRepo := mongoRepo.NewPickingListItemRepository(db)
	inventoryRepo := mongoRepo.NewInventoryRepository(db)
	relationshipRepo := mongoRepo.NewItemRelationshipRepository(db)
	machineRepo := mongoRepo.NewMachineRepository(db)

	// Initialize Event Publisher (implements domain.EventPublisher)
	eventPublisher := kafkaAdapter.NewEventPublisher(instrumentedProducer, eventFactory)
	logger.Info("Event publisher initialized")

	clock := application.SystemClock{}

	// Initialize application services
	planner := application.NewWorkOrderPlanner(
		workOrderRepo,
		pickingRepo,
		inventoryRepo,
		relationshipRepo,
		machineRepo,
		eventPublisher,
		clock,
	)
	planningService := application.NewPlanningApplicationService(planner, m, logger)
	workOrderService := application.NewWorkOrderApplicationService(
		workOrderRepo,
		pickingRepo,
		inventoryRepo,
		eventPublisher,
		clock,
		m,
		logger,
	)

	// Initialize automatic planning (scheduler)
	var autoPlanning *application.AutoPlanningService
	if config.AutoPlanning.Enabled {
		apConfig := application.AutoPlanningConfig{
			Interval: config.AutoPlanning.Interval,
			Branches: config.AutoPlanning.Branches,
		}
		autoPlanning = application.NewAutoPlanningService(planningService, apConfig, logger)
		if err := autoPlanning.Start(ctx); err != nil {
			logger.WithError(err).Error("Failed to start auto planning service")
		} else {
			logger.Info("Auto planning service started",
				"interval", apConfig.Interval,
				"branches", len(apConfig.Branches),
			)
		}
	} else {
		logger.Info("Auto planning service disabled")
	}

	// Setup Gin router with middleware
	router := gin.New()

	// Add CORS middleware for frontend access
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Correlation-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Correlation-ID"},
		AllowCredentials: true,
	}))

	// Apply standard middleware (recovery, request ID, correlation, logging, error handling)
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))

	// Add metrics middleware
	router.Use(middleware.MetricsMiddleware(m))

	// Handle 404 and 405 errors
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API routes
	api := router.Group("/api/v1")
	{
		planning := api.Group("/planning")
		{
			planning.POST("/runs", runPlanningHandler(planningService, logger))
		}

		workOrders := api.Group("/work-orders")
		{
			workOrders.GET("", listWorkOrdersHandler(workOrderService, logger))
			workOrders.GET("/:workOrderId", getWorkOrderHandler(workOrderService, logger))
			workOrders.GET("/number/:number", getWorkOrderByNumberHandler(workOrderService, logger))

			// Lifecycle operations
			workOrders.POST("/:workOrderId/start", startWorkOrderHandler(workOrderService, logger))
			workOrders.POST("/:workOrderId/pause", pauseWorkOrderHandler(workOrderService, logger))
			workOrders.POST("/:workOrderId/resume", resumeWorkOrderHandler(workOrderService, logger))
			workOrders.POST("/:workOrderId/complete", completeWorkOrderHandler(workOrderService, logger))
			workOrders.POST("/:workOrderId/cancel", cancelWorkOrderHandler(workOrderService, logger))
			workOrders.POST("/:workOrderId/coil-swaps", swapCoilHandler(workOrderService, logger))
		}

		// Scheduler endpoints
		scheduler := api.Group("/scheduler")
		{
			scheduler.GET("/status", schedulerStatusHandler(autoPlanning))
			scheduler.POST("/start", schedulerStartHandler(autoPlanning, logger))
			scheduler.POST("/stop", schedulerStopHandler(autoPlanning, logger))
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Stop auto planning if running
	if autoPlanning != nil && autoPlanning.IsRunning() {
		autoPlanning.Stop()
		logger.Info("Auto planning service stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Scheduler handlers
func schedulerStatusHandler(service *application.AutoPlanningService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if service == nil {
			c.JSON(http.StatusOK, gin.H{
				"enabled": false,
				"running": false,
				"message": "Auto planning service not configured",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"enabled": true,
			"running": service.IsRunning(),
		})
	}
}

func schedulerStartHandler(service *application.AutoPlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if service == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Auto planning service not configured"})
			return
		}
		if service.IsRunning() {
			c.JSON(http.StatusOK, gin.H{"message": "Scheduler already running"})
			return
		}
		if err := service.Start(c.Request.Context()); err != nil {
			logger.WithError(err).Error("Failed to start scheduler")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		logger.Info("Scheduler started via API")
		c.JSON(http.StatusOK, gin.H{"message": "Scheduler started"})
	}
}

func schedulerStopHandler(service *application.AutoPlanningService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if service == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Auto planning service not configured"})
			return
		}
		if !service.IsRunning() {
			c.JSON(http.StatusOK, gin.H{"message": "Scheduler already stopped"})
			return
		}
		service.Stop()
		logger.Info("Scheduler stopped via API")
		c.JSON(http.StatusOK, gin.H{"message": "Scheduler stopped"})
	}
}

// Config holds application configuration
type Config struct {
	ServerAddr   string
	CORSOrigins  []string
	MongoDB      *mongodb.Config
	Kafka        *kafka.Config
	AutoPlanning *AutoPlanningConfig
}

// AutoPlanningConfig holds configuration for the automatic planning scheduler
type AutoPlanningConfig struct {
	Enabled  bool
	Interval time.Duration
	Branches []application.PlannedBranch
}

func loadConfig() *Config {
	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8003"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "metals"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ConsumerGroup: serviceName,
			ClientID:      serviceName,
			BatchSize:     100,
			BatchTimeout:  10 * time.Millisecond,
			RequiredAcks:  -1,
		},
		AutoPlanning: &AutoPlanningConfig{
			Enabled:  getEnv("AUTO_PLANNING_ENABLED", "false") == "true",
			Interval: parseDuration(getEnv("AUTO_PLANNING_INTERVAL", "5m")),
			Branches: parseBranches(getEnv("AUTO_PLANNING_BRANCHES", "")),
		},
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// parseBranches reads "branchId:branchCode" pairs separated by commas
func parseBranches(s string) []application.PlannedBranch {
	if s == "" {
		return nil
	}

	var branches []application.PlannedBranch
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		branches = append(branches, application.PlannedBranch{
			BranchID:   parts[0],
			BranchCode: parts[1],
		})
	}
	return branches
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// userID pulls the acting user from the request headers
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return "unknown"
}

// HTTP Handlers
func runPlanningHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req application.RunPlanningRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cmd := application.RunPlanningCommand{
			BranchID:   req.BranchID,
			BranchCode: req.BranchCode,
			UserID:     userID(c),
		}

		result, err := service.RunPlanning(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func listWorkOrdersHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.ListWorkOrdersQuery{
			BranchID:  c.Query("branchId"),
			MachineID: c.Query("machineId"),
			Status:    c.Query("status"),
		}
		if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
			query.Limit = limit
		}
		if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
			query.Offset = offset
		}

		workOrders, err := service.ListWorkOrders(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrders)
	}
}

func getWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetWorkOrderQuery{WorkOrderID: c.Param("workOrderId")}

		workOrder, err := service.GetWorkOrder(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func getWorkOrderByNumberHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetWorkOrderByNumberQuery{Number: c.Param("number")}

		workOrder, err := service.GetWorkOrderByNumber(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func startWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.StartWorkOrderCommand{
			WorkOrderID: c.Param("workOrderId"),
			UserID:      userID(c),
		}

		workOrder, err := service.StartWorkOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func pauseWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.PauseWorkOrderCommand{
			WorkOrderID: c.Param("workOrderId"),
			UserID:      userID(c),
		}

		workOrder, err := service.PauseWorkOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func resumeWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.ResumeWorkOrderCommand{
			WorkOrderID: c.Param("workOrderId"),
			UserID:      userID(c),
		}

		workOrder, err := service.ResumeWorkOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func completeWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.CompleteWorkOrderCommand{
			WorkOrderID: c.Param("workOrderId"),
			UserID:      userID(c),
		}

		workOrder, err := service.CompleteWorkOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func cancelWorkOrderHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		// The reason body is optional
		var req application.CancelWorkOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		cmd := application.CancelWorkOrderCommand{
			WorkOrderID: c.Param("workOrderId"),
			UserID:      userID(c),
			Reason:      req.Reason,
		}

		workOrder, err := service.CancelWorkOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}

func swapCoilHandler(service *application.WorkOrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req application.SwapCoilRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cmd := application.SwapCoilCommand{
			WorkOrderID:     c.Param("workOrderId"),
			UserID:          userID(c),
			CoilInventoryID: req.CoilInventoryID,
			Reason:          req.Reason,
			Notes:           req.Notes,
		}

		workOrder, err := service.SwapCoil(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, workOrder)
	}
}
