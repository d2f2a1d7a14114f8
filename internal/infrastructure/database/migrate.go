package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	Logger "github.com/levanhoang792/manage-building-sub000/pkg/logger"
	"github.com/levanhoang792/manage-building-sub000/pkg/utils"
)

// AllModels 需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Building{},
		&models.Floor{},
		&models.DoorType{},
		&models.Door{},
		&models.DoorCoordinate{},
		&models.DoorRequest{},
		&models.DoorLockHistory{},
		&models.ActivityLog{},
	}
}

// Migrate 根据迁移模式执行数据库迁移
// auto: 只添加新列和新表; drop: 删除并重建所有表
func Migrate(db *gorm.DB, mode string) error {
	if mode == "drop" {
		Logger.Warning("在drop模式下运行，将删除并重建所有表，所有数据将丢失")
		if err := db.Migrator().DropTable(AllModels()...); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	Logger.Info("数据库迁移完成 (mode=%s)", mode)
	return nil
}

// EnsureAdminExists 确保系统中至少有一个管理员账户
func EnsureAdminExists(db *gorm.DB, defaultPassword string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := utils.HashPassword(defaultPassword)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}

	admin := models.User{
		Username: "admin",
		Password: hashedPassword,
		FullName: "System Administrator",
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建默认管理员失败: %w", err)
	}

	Logger.Info("已创建默认管理员账户 (用户名: admin)")
	return nil
}
