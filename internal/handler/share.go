package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shashuec/storecalendar-go/internal/calendar"
	"github.com/shashuec/storecalendar-go/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ShareHandler 는 공유 토큰 발급과 공개 캘린더 뷰를 담당한다.
type ShareHandler struct {
	repo     CalendarStore
	logger   *slog.Logger
	template *template.Template
}

// NewShareHandler 는 공유 핸들러를 생성한다.
func NewShareHandler(repo CalendarStore, logger *slog.Logger) (*ShareHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/share.html")
	if err != nil {
		return nil, err
	}
	return &ShareHandler{repo: repo, logger: logger, template: tmpl}, nil
}

// RegisterRoutes 는 공유 라우트를 등록한다. /s/ 는 인증 없이 공개된다.
func (h *ShareHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/calendar/:id/share", h.createShare)
	router.GET("/s/:token", h.renderShared)
}

type shareResponse struct {
	Token    string `json:"token"`
	ShareURL string `json:"share_url"`
}

func (h *ShareHandler) createShare(c *gin.Context) {
	id, ok := parseCalendarID(c)
	if !ok {
		return
	}

	token, err := h.repo.CreateShareToken(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	h.logger.Info("share_token_created",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.Int64("calendar_id", id))
	c.JSON(http.StatusOK, shareResponse{Token: token, ShareURL: "/s/" + token})
}

type shareView struct {
	Calendar calendar.WeeklyCalendar
	Optimal  func(calendar.PostType) string
}

func (h *ShareHandler) renderShared(c *gin.Context) {
	token := c.Param("token")
	cal, err := h.repo.GetCalendarByToken(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	view := shareView{Calendar: cal, Optimal: calendar.OptimalTime}
	if err := h.template.Execute(c.Writer, view); err != nil {
		h.logger.Warn("share_render_failed", slog.Any("error", err))
	}
}
