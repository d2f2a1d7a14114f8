package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/levanhoang792/manage-building-sub000/docs"
	"github.com/levanhoang792/manage-building-sub000/internal/app/controllers"
	"github.com/levanhoang792/manage-building-sub000/internal/app/middleware"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(container *container.ServiceContainer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.L()))
	r.Use(middleware.CORS(container.Config().ClientOrigin))

	m, _ := container.GetService("metrics").(*metrics.Metrics)
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.GinHandler())
	}

	// 初始化认证中间件
	middleware.InitAuthMiddleware(container.GetService("jwt").(services.InterfaceJWTService))

	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket 事件流
	if hub, ok := container.GetService("hub").(*realtime.Hub); ok && hub != nil {
		r.GET("/ws", hub.ServeWS)
	}

	registerRoutes(r, container)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	// 每个IP每秒30个请求，最多突发60个
	api.Use(middleware.IPRateLimiter(30, 60))

	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	healthGroup := api.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, "cacheStats"))

	// 登录按 IP+路由 单独限流
	api.POST("/auth/login", middleware.CombinedRateLimiter(5, 10), controllers.HandleJWTFunc(container, "login"))

	// 访客提交开门申请，登录用户会被记录为操作人
	api.POST("/door-requests",
		middleware.CombinedRateLimiter(5, 10),
		middleware.OptionalAuthentication(),
		controllers.HandleDoorRequestFunc(container, "createRequest"),
	)
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	auth := api.Group("")
	auth.Use(middleware.Authenticate())

	viewer := middleware.RequireRole(models.RoleViewer)
	operator := middleware.RequireRole(models.RoleOperator)
	admin := middleware.RequireRole(models.RoleAdmin)
	listCache := middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second})

	auth.GET("/auth/me", controllers.HandleJWTFunc(container, "me"))

	// 用户管理
	userGroup := auth.Group("/users", admin)
	userGroup.GET("", controllers.HandleUserFunc(container, "getUsers"))
	userGroup.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
	userGroup.POST("", controllers.HandleUserFunc(container, "createUser"))
	userGroup.PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
	userGroup.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// 楼栋路由；任何写操作都会清掉 /api/buildings 下的缓存
	buildingGroup := auth.Group("/buildings", middleware.InvalidateOnWrite("/api/buildings"))
	buildingGroup.GET("", viewer, listCache, controllers.HandleBuildingFunc(container, "getBuildings"))
	buildingGroup.GET("/:building_id", viewer, controllers.HandleBuildingFunc(container, "getBuilding"))
	buildingGroup.POST("", admin, controllers.HandleBuildingFunc(container, "createBuilding"))
	buildingGroup.PUT("/:building_id", admin, controllers.HandleBuildingFunc(container, "updateBuilding"))
	buildingGroup.DELETE("/:building_id", admin, controllers.HandleBuildingFunc(container, "deleteBuilding"))

	// 楼层路由
	floorGroup := buildingGroup.Group("/:building_id/floors")
	floorGroup.GET("", viewer, listCache, controllers.HandleFloorFunc(container, "getFloors"))
	floorGroup.GET("/:floor_id", viewer, controllers.HandleFloorFunc(container, "getFloor"))
	floorGroup.GET("/:floor_id/layout", viewer, controllers.HandleFloorFunc(container, "getLayout"))
	floorGroup.POST("", admin, controllers.HandleFloorFunc(container, "createFloor"))
	floorGroup.PUT("/:floor_id", admin, controllers.HandleFloorFunc(container, "updateFloor"))
	floorGroup.DELETE("/:floor_id", admin, controllers.HandleFloorFunc(container, "deleteFloor"))

	// 门路由
	doorGroup := floorGroup.Group("/:floor_id/doors")
	doorGroup.GET("", viewer, controllers.HandleDoorFunc(container, "getDoors"))
	doorGroup.GET("/:door_id", viewer, controllers.HandleDoorFunc(container, "getDoor"))
	doorGroup.POST("", admin, controllers.HandleDoorFunc(container, "createDoor"))
	doorGroup.PUT("/:door_id", admin, controllers.HandleDoorFunc(container, "updateDoor"))
	doorGroup.DELETE("/:door_id", admin, controllers.HandleDoorFunc(container, "deleteDoor"))
	doorGroup.PUT("/:door_id/status", operator, controllers.HandleDoorFunc(container, "updateDoorStatus"))

	// 门锁路由
	doorGroup.GET("/:door_id/lock", viewer, controllers.HandleLockFunc(container, "getLockStatus"))
	doorGroup.PUT("/:door_id/lock", operator, controllers.HandleLockFunc(container, "updateLockStatus"))
	doorGroup.GET("/:door_id/lock-history", viewer, controllers.HandleLockFunc(container, "getLockHistory"))

	// 门坐标路由
	coordinateGroup := doorGroup.Group("/:door_id/coordinates")
	coordinateGroup.GET("", viewer, controllers.HandleCoordinateFunc(container, "getCoordinates"))
	coordinateGroup.GET("/:coordinate_id", viewer, controllers.HandleCoordinateFunc(container, "getCoordinate"))
	coordinateGroup.POST("", admin, controllers.HandleCoordinateFunc(container, "createCoordinate"))
	coordinateGroup.PUT("/:coordinate_id", admin, controllers.HandleCoordinateFunc(container, "updateCoordinate"))
	coordinateGroup.DELETE("/:coordinate_id", admin, controllers.HandleCoordinateFunc(container, "deleteCoordinate"))

	// 门类型路由；门列表里带有门类型，写操作同时清掉楼栋缓存
	doorTypeGroup := auth.Group("/door-types", middleware.InvalidateOnWrite("/api/door-types", "/api/buildings"))
	doorTypeGroup.GET("", viewer, listCache, controllers.HandleDoorTypeFunc(container, "getDoorTypes"))
	doorTypeGroup.GET("/:id", viewer, controllers.HandleDoorTypeFunc(container, "getDoorType"))
	doorTypeGroup.POST("", admin, controllers.HandleDoorTypeFunc(container, "createDoorType"))
	doorTypeGroup.PUT("/:id", admin, controllers.HandleDoorTypeFunc(container, "updateDoorType"))
	doorTypeGroup.DELETE("/:id", admin, controllers.HandleDoorTypeFunc(container, "deleteDoorType"))

	// 开门申请路由；审批会切换门锁
	requestGroup := auth.Group("/door-requests", middleware.InvalidateOnWrite("/api/buildings"))
	requestGroup.GET("", viewer, controllers.HandleDoorRequestFunc(container, "getRequests"))
	requestGroup.GET("/:id", viewer, controllers.HandleDoorRequestFunc(container, "getRequest"))
	requestGroup.PUT("/:id/status", operator, controllers.HandleDoorRequestFunc(container, "resolveRequest"))

	// 审计与报表
	auth.GET("/activity-logs", admin, controllers.HandleActivityLogFunc(container, "getActivityLogs"))
	auth.GET("/reports/doors", viewer, controllers.HandleReportFunc(container, "getDoorReport"))
}
