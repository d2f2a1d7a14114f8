package models

import (
	"strings"
	"time"
)

// BaseModel 所有实体共用的主键与时间戳
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationQuery 列表查询的分页与排序参数
type PaginationQuery struct {
	Page      int    `form:"page" json:"page"`
	PageSize  int    `form:"page_size" json:"page_size"`
	SortBy    string `form:"sort_by" json:"sort_by"`
	SortOrder string `form:"sort_order" json:"sort_order"`
}

// Normalize 修正越界的分页参数，并将排序字段限制在白名单内
func (q *PaginationQuery) Normalize(allowedSort map[string]string, defaultSort string) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}
	if column, ok := allowedSort[q.SortBy]; ok {
		q.SortBy = column
	} else {
		q.SortBy = defaultSort
	}
	if strings.ToLower(q.SortOrder) == "asc" {
		q.SortOrder = "asc"
	} else {
		q.SortOrder = "desc"
	}
}

// Offset 返回分页偏移量
func (q PaginationQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// OrderClause 返回 ORDER BY 子句
func (q PaginationQuery) OrderClause() string {
	return q.SortBy + " " + q.SortOrder
}

// PaginatedResult 分页结果
type PaginatedResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// NewPaginatedResult 创建一个新的分页结果对象
func NewPaginatedResult(data interface{}, total int64, q PaginationQuery) PaginatedResult {
	return PaginatedResult{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + int64(q.PageSize) - 1) / int64(q.PageSize),
	}
}
