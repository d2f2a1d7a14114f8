// @title           Building Access Management API
// @version         1.0
// @description     Buildings, floors and doors with remote lock control, visitor door requests and ThingsBoard device sync

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` prefix
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/levanhoang792/manage-building-sub000/internal/app/middleware"
	"github.com/levanhoang792/manage-building-sub000/internal/app/routes"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/database"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/thingsboard"
	Logger "github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		Logger.Error("服务退出: %v", err)
		Logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	// 加载.env文件，失败时使用已有环境变量
	envErr := godotenv.Load()

	cfg := config.GetConfig()

	// 初始化日志配置
	if err := Logger.SetupLogger(Logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: true}); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		return err
	}
	defer Logger.Sync()
	if envErr != nil {
		Logger.Warning("无法加载.env文件: %v", envErr)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.EnvType == "SERVER" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 数据库
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return fmt.Errorf("无法创建数据库连接池: %w", err)
	}
	defer pool.Close()
	db := pool.GetDB()

	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		return err
	}
	if err := database.EnsureAdminExists(db, cfg.DefaultAdminPassword); err != nil {
		return err
	}

	// 事件分发：本地 Hub，可选 Redis 跨实例转发与 MQTT 镜像
	zl := Logger.L()
	hub := realtime.NewHub(zl.Named("ws"))
	go hub.Run(ctx)

	var redisClient *redis.Client
	var local realtime.Broadcaster = hub
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		pingErr := redisClient.Ping(pingCtx).Err()
		cancel()
		if pingErr != nil {
			Logger.Warning("Redis不可用，锁状态缓存与跨实例事件转发已关闭: %v", pingErr)
			redisClient = nil
		} else {
			relay := realtime.NewRedisRelay(redisClient, cfg.EventChannel, hub, zl.Named("relay"))
			go func() {
				if err := relay.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
					Logger.Error("Redis事件转发退出: %v", err)
				}
			}()
			local = relay
		}
	}

	broadcaster := realtime.NewFanout(local)
	if cfg.MQTTBrokerURL != "" {
		mqttCfg := realtime.MQTTConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			QoS:         byte(cfg.MQTTQoS),
			Retained:    cfg.MQTTRetained,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}
		mqttClient := realtime.NewPahoClient(mqttCfg, zl.Named("mqtt"))
		if err := realtime.ConnectMQTT(mqttClient, 3, zl.Named("mqtt")); err != nil {
			Logger.Warning("MQTT事件镜像已关闭: %v", err)
		} else {
			publisher := realtime.NewMQTTPublisher(mqttClient, mqttCfg, zl.Named("mqtt"))
			broadcaster = realtime.NewFanout(local, publisher)
			defer func() {
				publisher.Flush()
				mqttClient.Disconnect(250)
			}()
		}
	}

	tbClient := thingsboard.NewClient(thingsboard.Config{
		BaseURL:  cfg.ThingsboardURL,
		Username: cfg.ThingsboardUsername,
		Password: cfg.ThingsboardPassword,
		Timeout:  cfg.ThingsboardTimeout,
	}, zl.Named("thingsboard"))

	serviceContainer := container.NewServiceContainer(container.Infrastructure{
		DB:          db,
		Config:      cfg,
		Redis:       redisClient,
		Thingsboard: tbClient,
		Broadcaster: broadcaster,
		Hub:         hub,
		Metrics:     metrics.New(),
	})

	deviceSync := serviceContainer.GetService("device_sync").(services.InterfaceDeviceSyncService)
	if err := deviceSync.Start(ctx); err != nil {
		Logger.Warning("设备遥测订阅启动失败: %v", err)
	}
	defer deviceSync.Stop()

	go middleware.StartCacheJanitor(ctx.Done(), time.Minute)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           routes.SetupRouter(serviceContainer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSystemInfo(pool)

	errCh := make(chan error, 1)
	go func() {
		Logger.Info("服务器启动在: http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务器失败: %w", err)
	case <-ctx.Done():
	}

	Logger.Info("收到退出信号，正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	return nil
}

// printSystemInfo 打印运行环境信息
func printSystemInfo(pool *database.ConnectionPool) {
	fields := []zap.Field{
		zap.String("go_version", runtime.Version()),
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("goroutines", runtime.NumGoroutine()),
	}
	if stats, err := pool.Stats(); err == nil {
		fields = append(fields, zap.Any("db_pool", stats))
	}
	Logger.L().Info("系统信息", fields...)
}
