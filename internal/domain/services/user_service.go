package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/pkg/utils"
)

// InterfaceUserService 用户服务接口
type InterfaceUserService interface {
	CheckPassword(password, hash string) bool
	GetUsers(filter UserFilter) (*models.PaginatedResult, error)
	GetUserByID(id uint) (*models.User, error)
	CreateUser(input CreateUserInput, actor Actor) (*models.User, error)
	UpdateUser(id uint, input UpdateUserInput, actor Actor) (*models.User, error)
	DeleteUser(id uint, actor Actor) error
}

// UserFilter 用户查询条件
type UserFilter struct {
	models.PaginationQuery
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"search"`
}

// CreateUserInput 创建用户请求
type CreateUserInput struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Password string      `json:"password" binding:"required,min=6"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Role     models.Role `json:"role"`
}

// UpdateUserInput 更新用户请求，未提供的字段保持不变
type UpdateUserInput struct {
	Password *string      `json:"password" binding:"omitempty,min=6"`
	FullName *string      `json:"full_name"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Role     *models.Role `json:"role"`
	Status   *string      `json:"status"`
}

var userSortColumns = map[string]string{
	"id":         "id",
	"username":   "username",
	"role":       "role",
	"created_at": "created_at",
}

// UserService 提供用户相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{DB: db, Config: cfg}
}

// 1 CheckPassword 验证密码是否匹配
func (s *UserService) CheckPassword(password, hash string) bool {
	return utils.CheckPasswordHash(password, hash)
}

// 2 GetUsers 获取用户列表，支持分页
func (s *UserService) GetUsers(filter UserFilter) (*models.PaginatedResult, error) {
	filter.Normalize(userSortColumns, "id")

	query := s.DB.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("username LIKE ? OR full_name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count users")
	}

	var users []models.User
	if err := query.Order(filter.OrderClause()).Offset(filter.Offset()).Limit(filter.PageSize).Find(&users).Error; err != nil {
		return nil, code.Wrap(err, "list users")
	}

	result := models.NewPaginatedResult(users, total, filter.PaginationQuery)
	return &result, nil
}

// 3 GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return &user, nil
}

// 4 CreateUser 创建用户，用户名唯一
func (s *UserService) CreateUser(input CreateUserInput, actor Actor) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, code.NewValidation("Username is required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !role.IsValid() {
		return nil, code.NewInvalidStatus("Invalid role. Must be one of: admin, operator, viewer")
	}

	if input.Password == "" {
		return nil, code.NewValidation("Password is required")
	}
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, code.Wrap(err, "hash password")
	}

	user := models.User{
		Username: username,
		Password: hashed,
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.TrimSpace(input.Email),
		Role:     role,
		Status:   models.UserStatusActive,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.NewDuplicate("Username %s already exists", username)
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_user",
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			Details:    map[string]interface{}{"username": user.Username, "role": user.Role},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create user")
	}
	return &user, nil
}

// 5 UpdateUser 更新用户信息
func (s *UserService) UpdateUser(id uint, input UpdateUserInput, actor Actor) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, code.NewInvalidStatus("Invalid role. Must be one of: admin, operator, viewer")
		}
		updates["role"] = *input.Role
	}
	if input.Status != nil {
		if *input.Status != models.UserStatusActive && *input.Status != models.UserStatusInactive {
			return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive")
		}
		updates["status"] = *input.Status
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, code.NewValidation("Password must not be empty")
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, code.Wrap(err, "hash password")
		}
		updates["password"] = hashed
	}

	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "User not found")
		}
		// 不允许降级或停用最后一个管理员
		demoting := (input.Role != nil && *input.Role != models.RoleAdmin) ||
			(input.Status != nil && *input.Status != models.UserStatusActive)
		if user.Role == models.RoleAdmin && demoting {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		delete(updates, "password")
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_user",
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			Details:    updates,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update user")
	}
	return s.GetUserByID(id)
}

// 6 DeleteUser 删除用户
func (s *UserService) DeleteUser(id uint, actor Actor) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "User not found")
		}
		if user.Role == models.RoleAdmin {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_user",
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			Details:    map[string]interface{}{"username": user.Username},
		})
	})
	return code.Wrap(err, "delete user")
}

func ensureAnotherAdmin(tx *gorm.DB, excludeID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("role = ? AND status = ? AND id <> ?", models.RoleAdmin, models.UserStatusActive, excludeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return code.NewConflict("Cannot remove the last active admin")
	}
	return nil
}
