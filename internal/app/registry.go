package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/middleware"
	"go-hrms/internal/payroll"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/storage"
)

// Registry holds every wired component of the API process.
type Registry struct {
	Router *gin.Engine

	EmployeeService   employee.Service
	DepartmentService department.Service
	LeaveService      leave.Service
	PayrollService    payroll.Service
	OutboxRepo        kafka.OutboxRepository
}

// BuildRegistry wires repositories, services, handlers and routes.
func BuildRegistry(cfg Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*Registry, error) {
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return nil, err
	}

	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	employeeRepo := employee.NewRepository(db)
	payrollRepo := payroll.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	departmentRepo := department.NewRepository(db)

	fsStore := storage.NewFSStorage(cfg.StorageDir, cfg.StorageBaseURL, []byte(cfg.StorageSecret))
	renderer := payroll.NewPDFRenderer(cfg.CompanyName)

	employeeService := employee.NewService(
		db, employeeRepo, counterRepo, outboxRepo, payrollRepo, redisClient, logger)
	departmentService := department.NewService(db, departmentRepo, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, fsStore, logger)
	payrollService := payroll.NewService(
		db, payrollRepo, counterRepo, outboxRepo, fsStore, renderer, logger)

	employeeHandler := employee.NewHandler(employeeService, employee.NewCSVRowParser())
	departmentHandler := department.NewHandler(departmentService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))

	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	storage.RegisterRoutes(router, fsStore)

	idempotency := middleware.Idempotency(redisClient, logger)
	api := router.Group("/api/v1", middleware.Auth(cfg.JWTSecret))

	employee.RegisterRoutes(api, employeeHandler,
		middleware.Authorize(enforcer, "employees", "write"), idempotency)
	department.RegisterRoutes(api, departmentHandler,
		middleware.Authorize(enforcer, "departments", "write"))
	leave.RegisterRoutes(api, leaveHandler,
		middleware.Authorize(enforcer, "leaves", "decide"))
	payroll.RegisterRoutes(api, payrollHandler,
		middleware.Authorize(enforcer, "salaries", "write"), idempotency)

	return &Registry{
		Router:            router,
		EmployeeService:   employeeService,
		DepartmentService: departmentService,
		LeaveService:      leaveService,
		PayrollService:    payrollService,
		OutboxRepo:        outboxRepo,
	}, nil
}
