package ledgerhttp

import (
	"net/http"
	"sort"
	"strings"

	"traq/internal/logger"
	"traq/internal/tracker"

	"github.com/gin-gonic/gin"
)

// Router 暴露账本的查询接口。
type Router struct {
	tracker *tracker.Tracker
}

// NewRouter 构造 ledger HTTP router。
func NewRouter(t *tracker.Tracker) *Router {
	return &Router{tracker: t}
}

// Register 将账本路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("", r.handleList)
	group.GET("/summary", r.handleSummary)
	group.GET("/chart", r.handleChart)
	group.POST("/clear", r.handleClear)
}

// handleList 返回账本记录，支持 symbol / status / outcome 过滤。
func (r *Router) handleList(c *gin.Context) {
	records := r.tracker.ReadAll(c.Request.Context())

	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	outcome := strings.ToUpper(strings.TrimSpace(c.Query("outcome")))

	filtered := make([]tracker.Record, 0, len(records))
	for _, rec := range records {
		if symbol != "" && strings.ToUpper(rec.Symbol) != symbol {
			continue
		}
		if status == "open" && !rec.IsOpen() {
			continue
		}
		if status == "closed" && rec.IsOpen() {
			continue
		}
		if outcome != "" && string(rec.Outcome) != outcome {
			continue
		}
		filtered = append(filtered, rec)
	}
	// 新近活跃的排在前面
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].LastSeenTS > filtered[j].LastSeenTS
	})

	c.JSON(http.StatusOK, gin.H{
		"total": len(filtered),
		"items": filtered,
	})
}

func (r *Router) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, r.tracker.Summary(c.Request.Context()))
}

func (r *Router) handleChart(c *gin.Context) {
	records := r.tracker.ReadAll(c.Request.Context())
	page := buildOutcomePage(records)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		logger.Errorf("ledger chart render failed: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (r *Router) handleClear(c *gin.Context) {
	r.tracker.Clear(c.Request.Context())
	logger.Infof("setup ledger cleared via HTTP from %s", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
