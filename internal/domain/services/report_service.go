package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// 报表类型
const (
	ReportSummary        = "summary"
	ReportFrequency      = "frequency"
	ReportUserActivity   = "user-activity"
	ReportTimeAnalysis   = "time-analysis"
	ReportDoorComparison = "door-comparison"
)

// 报表格式
const (
	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"
)

var reportTypes = []string{ReportSummary, ReportFrequency, ReportUserActivity, ReportTimeAnalysis, ReportDoorComparison}

var groupByLayouts = map[string]string{
	"hour":  "2006-01-02 15:00",
	"day":   "2006-01-02",
	"month": "2006-01",
	"year":  "2006",
}

// InterfaceReportService 门锁历史报表
type InterfaceReportService interface {
	GenerateReport(query ReportQuery) (*Report, error)
}

// ReportQuery 报表参数
type ReportQuery struct {
	Type       string `form:"type"`
	GroupBy    string `form:"group_by"`
	Format     string `form:"format"`
	BuildingID *uint  `form:"building_id"`
	FloorID    *uint  `form:"floor_id"`
	DoorID     *uint  `form:"door_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

// ReportRow 一行报表数据，键为列名
type ReportRow map[string]interface{}

// Report 报表结果。Columns 决定 CSV/XLSX 的列顺序
type Report struct {
	Type        string      `json:"type"`
	GroupBy     string      `json:"group_by,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Columns     []string    `json:"columns"`
	Rows        []ReportRow `json:"rows"`
}

// lockEvent 报表使用的锁变更记录
type lockEvent struct {
	ID             uint
	DoorID         uint
	PreviousStatus string
	NewStatus      string
	ChangedBy      *uint
	RequestID      *uint
	CreatedAt      time.Time
	DoorName       string
	FloorID        uint
	FloorName      string
	BuildingID     uint
	BuildingName   string
	Username       string
}

// ReportService 报表服务
type ReportService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewReportService 创建报表服务
func NewReportService(db *gorm.DB, cfg *config.Config) InterfaceReportService {
	return &ReportService{
		DB:     db,
		Config: cfg,
	}
}

// Normalize 补全默认值并校验参数
func (q *ReportQuery) Normalize() error {
	q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	if q.Type == "" {
		q.Type = ReportSummary
	}
	valid := false
	for _, t := range reportTypes {
		if t == q.Type {
			valid = true
			break
		}
	}
	if !valid {
		return code.NewValidation("Invalid report type. Must be one of: %s", strings.Join(reportTypes, ", "))
	}

	q.GroupBy = strings.ToLower(strings.TrimSpace(q.GroupBy))
	if q.GroupBy == "" {
		q.GroupBy = "day"
	}
	if _, ok := groupByLayouts[q.GroupBy]; !ok && q.GroupBy != "week" {
		return code.NewValidation("Invalid group_by. Must be one of: hour, day, week, month, year")
	}

	q.Format = strings.ToLower(strings.TrimSpace(q.Format))
	switch q.Format {
	case "":
		q.Format = ReportFormatJSON
	case ReportFormatJSON, ReportFormatCSV, ReportFormatXLSX:
	default:
		return code.NewValidation("Invalid format. Must be one of: json, csv, xlsx")
	}
	return nil
}

// GenerateReport 按类型聚合锁历史
func (s *ReportService) GenerateReport(query ReportQuery) (*Report, error) {
	if err := query.Normalize(); err != nil {
		return nil, err
	}
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	events, err := s.loadEvents(query, from, to)
	if err != nil {
		return nil, code.Wrap(err, "load lock history")
	}

	report := &Report{
		Type:        query.Type,
		StartDate:   from,
		EndDate:     to,
		GeneratedAt: time.Now(),
	}
	switch query.Type {
	case ReportSummary:
		report.Columns, report.Rows = summaryReport(events)
	case ReportFrequency:
		report.GroupBy = query.GroupBy
		report.Columns, report.Rows = frequencyReport(events, query.GroupBy)
	case ReportUserActivity:
		report.Columns, report.Rows = userActivityReport(events)
	case ReportTimeAnalysis:
		report.GroupBy = query.GroupBy
		report.Columns, report.Rows = timeAnalysisReport(events, query.GroupBy, to)
	case ReportDoorComparison:
		report.Columns, report.Rows = doorComparisonReport(events)
	}
	return report, nil
}

func (s *ReportService) loadEvents(query ReportQuery, from, to *time.Time) ([]lockEvent, error) {
	db := s.DB.Table("door_lock_history AS h").
		Select("h.id, h.door_id, h.previous_status, h.new_status, h.changed_by, h.request_id, h.created_at, " +
			"COALESCE(d.name, '') AS door_name, COALESCE(d.floor_id, 0) AS floor_id, " +
			"COALESCE(f.name, '') AS floor_name, COALESCE(f.building_id, 0) AS building_id, " +
			"COALESCE(b.name, '') AS building_name, COALESCE(u.username, '') AS username").
		Joins("LEFT JOIN doors d ON d.id = h.door_id").
		Joins("LEFT JOIN floors f ON f.id = d.floor_id").
		Joins("LEFT JOIN buildings b ON b.id = f.building_id").
		Joins("LEFT JOIN users u ON u.id = h.changed_by")

	if query.DoorID != nil {
		db = db.Where("h.door_id = ?", *query.DoorID)
	}
	if query.FloorID != nil {
		db = db.Where("d.floor_id = ?", *query.FloorID)
	}
	if query.BuildingID != nil {
		db = db.Where("f.building_id = ?", *query.BuildingID)
	}
	if from != nil {
		db = db.Where("h.created_at >= ?", *from)
	}
	if to != nil {
		db = db.Where("h.created_at <= ?", *to)
	}

	var events []lockEvent
	if err := db.Order("h.created_at asc").Order("h.id asc").Scan(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// periodKey 按 group_by 生成时间分组键
func periodKey(t time.Time, groupBy string) string {
	if groupBy == "week" {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	layout, ok := groupByLayouts[groupBy]
	if !ok {
		layout = groupByLayouts["day"]
	}
	return t.Format(layout)
}

type counter struct {
	total, opened, closed, viaRequest int
	last                              time.Time
}

func (c *counter) add(e lockEvent) {
	c.total++
	if e.NewStatus == string(models.LockStatusOpen) {
		c.opened++
	} else {
		c.closed++
	}
	if e.RequestID != nil {
		c.viaRequest++
	}
	if e.CreatedAt.After(c.last) {
		c.last = e.CreatedAt
	}
}

func summaryReport(events []lockEvent) ([]string, []ReportRow) {
	columns := []string{"total_changes", "opened", "closed", "via_request", "manual", "doors", "users"}
	var c counter
	doors := make(map[uint]struct{})
	users := make(map[uint]struct{})
	for _, e := range events {
		c.add(e)
		doors[e.DoorID] = struct{}{}
		if e.ChangedBy != nil {
			users[*e.ChangedBy] = struct{}{}
		}
	}
	row := ReportRow{
		"total_changes": c.total,
		"opened":        c.opened,
		"closed":        c.closed,
		"via_request":   c.viaRequest,
		"manual":        c.total - c.viaRequest,
		"doors":         len(doors),
		"users":         len(users),
	}
	return columns, []ReportRow{row}
}

func frequencyReport(events []lockEvent, groupBy string) ([]string, []ReportRow) {
	columns := []string{"period", "total_changes", "opened", "closed"}
	buckets := make(map[string]*counter)
	var keys []string
	for _, e := range events {
		key := periodKey(e.CreatedAt, groupBy)
		c, ok := buckets[key]
		if !ok {
			c = &counter{}
			buckets[key] = c
			keys = append(keys, key)
		}
		c.add(e)
	}
	sort.Strings(keys)

	rows := make([]ReportRow, 0, len(keys))
	for _, key := range keys {
		c := buckets[key]
		rows = append(rows, ReportRow{
			"period":        key,
			"total_changes": c.total,
			"opened":        c.opened,
			"closed":        c.closed,
		})
	}
	return columns, rows
}

func userActivityReport(events []lockEvent) ([]string, []ReportRow) {
	columns := []string{"user_id", "username", "total_changes", "opened", "closed", "via_request", "last_change"}
	type userKey struct {
		id   uint
		name string
	}
	buckets := make(map[userKey]*counter)
	for _, e := range events {
		key := userKey{name: e.Username}
		if e.ChangedBy != nil {
			key.id = *e.ChangedBy
		}
		if key.id == 0 {
			key.name = "anonymous"
		}
		c, ok := buckets[key]
		if !ok {
			c = &counter{}
			buckets[key] = c
		}
		c.add(e)
	}

	keys := make([]userKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// 变更次数多的在前
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := buckets[keys[i]], buckets[keys[j]]
		if ci.total != cj.total {
			return ci.total > cj.total
		}
		return keys[i].id < keys[j].id
	})

	rows := make([]ReportRow, 0, len(keys))
	for _, k := range keys {
		c := buckets[k]
		rows = append(rows, ReportRow{
			"user_id":       k.id,
			"username":      k.name,
			"total_changes": c.total,
			"opened":        c.opened,
			"closed":        c.closed,
			"via_request":   c.viaRequest,
			"last_change":   c.last,
		})
	}
	return columns, rows
}

// timeAnalysisReport 统计开门时长：open 到下一次 closed 为一次开门，时长计入 open 所在的时间段。
// 截止时仍未关闭的门按 until（无则当前时间）结算
func timeAnalysisReport(events []lockEvent, groupBy string, until *time.Time) ([]string, []ReportRow) {
	columns := []string{"period", "open_sessions", "total_open_seconds", "avg_open_seconds", "max_open_seconds"}
	end := time.Now()
	if until != nil && until.Before(end) {
		end = *until
	}

	type bucket struct {
		sessions int
		total    float64
		max      float64
	}
	buckets := make(map[string]*bucket)
	openedAt := make(map[uint]time.Time)

	closeSession := func(start, stop time.Time) {
		key := periodKey(start, groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		seconds := stop.Sub(start).Seconds()
		if seconds < 0 {
			seconds = 0
		}
		b.sessions++
		b.total += seconds
		if seconds > b.max {
			b.max = seconds
		}
	}

	for _, e := range events {
		switch e.NewStatus {
		case string(models.LockStatusOpen):
			if _, open := openedAt[e.DoorID]; !open {
				openedAt[e.DoorID] = e.CreatedAt
			}
		default:
			if start, open := openedAt[e.DoorID]; open {
				closeSession(start, e.CreatedAt)
				delete(openedAt, e.DoorID)
			}
		}
	}
	for _, start := range openedAt {
		closeSession(start, end)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]ReportRow, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		rows = append(rows, ReportRow{
			"period":             k,
			"open_sessions":      b.sessions,
			"total_open_seconds": round2(b.total),
			"avg_open_seconds":   round2(b.total / float64(b.sessions)),
			"max_open_seconds":   round2(b.max),
		})
	}
	return columns, rows
}

func doorComparisonReport(events []lockEvent) ([]string, []ReportRow) {
	columns := []string{"door_id", "door_name", "floor_name", "building_name", "total_changes", "opened", "closed", "via_request", "last_change"}
	buckets := make(map[uint]*counter)
	names := make(map[uint]lockEvent)
	for _, e := range events {
		c, ok := buckets[e.DoorID]
		if !ok {
			c = &counter{}
			buckets[e.DoorID] = c
			names[e.DoorID] = e
		}
		c.add(e)
	}

	ids := make([]uint, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := buckets[ids[i]], buckets[ids[j]]
		if ci.total != cj.total {
			return ci.total > cj.total
		}
		return ids[i] < ids[j]
	})

	rows := make([]ReportRow, 0, len(ids))
	for _, id := range ids {
		c := buckets[id]
		e := names[id]
		rows = append(rows, ReportRow{
			"door_id":       id,
			"door_name":     e.DoorName,
			"floor_name":    e.FloorName,
			"building_name": e.BuildingName,
			"total_changes": c.total,
			"opened":        c.opened,
			"closed":        c.closed,
			"via_request":   c.viaRequest,
			"last_change":   c.last,
		})
	}
	return columns, rows
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
