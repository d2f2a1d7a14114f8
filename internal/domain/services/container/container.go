package container

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/thingsboard"
	"github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

// Infrastructure 服务依赖的外部组件；除 DB 与 Config 外都可以为空
type Infrastructure struct {
	DB          *gorm.DB
	Config      *config.Config
	Redis       *redis.Client
	Thingsboard *thingsboard.Client
	Broadcaster realtime.Broadcaster
	Hub         *realtime.Hub
	Metrics     *metrics.Metrics
}

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db          *gorm.DB
	config      *config.Config
	redis       *redis.Client
	hub         *realtime.Hub
	metrics     *metrics.Metrics
	broadcaster realtime.Broadcaster

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService
	userService  services.InterfaceUserService

	// 楼栋/楼层/门
	buildingService   services.InterfaceBuildingService
	floorService      services.InterfaceFloorService
	doorTypeService   services.InterfaceDoorTypeService
	doorService       services.InterfaceDoorService
	coordinateService services.InterfaceCoordinateService

	// 门锁与开门申请
	deviceSyncService  services.InterfaceDeviceSyncService
	lockService        services.InterfaceLockService
	doorRequestService services.InterfaceDoorRequestService

	// 审计与报表
	activityLogService services.InterfaceActivityLogService
	reportService      services.InterfaceReportService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(infra Infrastructure) *ServiceContainer {
	if infra.DB == nil {
		panic("数据库连接为空")
	}
	if infra.Config == nil {
		panic("配置为空")
	}

	// 测试Redis连接，失败时不使用Redis缓存
	if infra.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := infra.Redis.Ping(ctx).Err(); err != nil {
			logger.Warning("Redis连接测试失败: %v，将不使用Redis缓存", err)
			infra.Redis = nil
		}
	}

	broadcaster := infra.Broadcaster
	if broadcaster == nil {
		broadcaster = realtime.Nop{}
	}

	container := &ServiceContainer{
		db:          infra.DB,
		config:      infra.Config,
		redis:       infra.Redis,
		hub:         infra.Hub,
		metrics:     infra.Metrics,
		broadcaster: broadcaster,
	}
	container.initializeServices(infra.Thingsboard)
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices(tb *thingsboard.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)
	c.userService = services.NewUserService(c.db, c.config)
	if c.redis != nil {
		c.redisService = services.NewRedisServiceWithClient(c.redis)
	}

	c.buildingService = services.NewBuildingService(c.db, c.config)
	c.floorService = services.NewFloorService(c.db, c.config)
	c.doorTypeService = services.NewDoorTypeService(c.db, c.config)
	c.coordinateService = services.NewCoordinateService(c.db, c.config)

	// 设备同步先于门锁服务创建，门锁与开门申请共用同一个实例
	c.deviceSyncService = services.NewDeviceSyncService(c.db, c.config, tb, c.broadcaster, c.metrics)
	c.doorService = services.NewDoorService(c.db, c.config, c.redisService, c.deviceSyncService, c.broadcaster, c.metrics)
	c.lockService = services.NewLockService(c.db, c.config, c.redisService, c.deviceSyncService, c.broadcaster, c.metrics)
	c.doorRequestService = services.NewDoorRequestService(c.db, c.config, c.lockService, c.broadcaster, c.metrics)

	c.activityLogService = services.NewActivityLogService(c.db, c.config)
	c.reportService = services.NewReportService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "user":
		return c.userService
	case "building":
		return c.buildingService
	case "floor":
		return c.floorService
	case "door_type":
		return c.doorTypeService
	case "door":
		return c.doorService
	case "coordinate":
		return c.coordinateService
	case "device_sync":
		return c.deviceSyncService
	case "lock":
		return c.lockService
	case "door_request":
		return c.doorRequestService
	case "activity_log":
		return c.activityLogService
	case "report":
		return c.reportService
	case "hub":
		return c.hub
	case "metrics":
		return c.metrics
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Config 当前配置
func (c *ServiceContainer) Config() *config.Config {
	return c.config
}

// Redis 原始 Redis 客户端，未启用时为 nil
func (c *ServiceContainer) Redis() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis
}
