package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController 门锁报表
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController 创建报表控制器
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{Ctx: ctx, Container: container}
}

// HandleReportFunc 返回一个处理报表请求的Gin处理函数
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "getDoorReport":
			controller.GetDoorReport()
		default:
			invalidMethod(ctx)
		}
	}
}

// GetDoorReport 生成门锁报表；format=csv|xlsx 时以附件下载
// @Summary 门锁报表
// @Tags Report
// @Produce json
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type query string false "summary|frequency|user-activity|time-analysis|door-comparison"
// @Param group_by query string false "hour|day|week|month|year"
// @Param format query string false "json|csv|xlsx"
// @Param building_id query int false "楼栋ID"
// @Param floor_id query int false "楼层ID"
// @Param door_id query int false "门ID"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} services.Report
// @Failure 400 {object} ErrorResponse
// @Router /reports/doors [get]
func (c *ReportController) GetDoorReport() {
	var query services.ReportQuery
	if !bindQuery(c.Ctx, &query) {
		return
	}
	if err := query.Normalize(); err != nil {
		response.Error(c.Ctx, err)
		return
	}

	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	report, err := reportService.GenerateReport(query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch query.Format {
	case services.ReportFormatCSV:
		body, err = services.RenderCSV(report)
		contentType = "text/csv; charset=utf-8"
	case services.ReportFormatXLSX:
		body, err = services.RenderXLSX(report)
		contentType = xlsxContentType
	default:
		response.Success(c.Ctx, report)
		return
	}
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	c.Ctx.Header("Content-Disposition", `attachment; filename="`+services.ReportFileName(report, query.Format)+`"`)
	c.Ctx.Data(http.StatusOK, contentType, body)
}
