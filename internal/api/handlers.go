package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
	"github.com/Jared747/follower-fight-project/internal/constants"
	"github.com/Jared747/follower-fight-project/internal/service"
	"github.com/Jared747/follower-fight-project/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler groups the read-only presentation endpoints plus the
// customization store writes the dashboard makes.
type Handler struct {
	board   service.Scoreboard
	history service.RunHistory
	repo    storage.Repository
}

func NewHandler(board service.Scoreboard, history service.RunHistory, repo storage.Repository) *Handler {
	return &Handler{board: board, history: history, repo: repo}
}

// GetScoreboard returns the full standings keyed by handle.
func (h *Handler) GetScoreboard(c *gin.Context) {
	entries, err := h.board.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchScoreboard})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// leaderboardRow is one ranked row of the leaderboard response.
type leaderboardRow struct {
	Handle string `json:"handle"`
	arena.ScoreboardEntry
}

// GetLeaderboard returns the top entries by points (desc), limited to 10
// by default.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	entries, err := h.board.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	rows := make([]leaderboardRow, 0, len(entries))
	for handle, e := range entries {
		rows = append(rows, leaderboardRow{Handle: handle, ScoreboardEntry: e})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Handle < rows[j].Handle
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	c.JSON(http.StatusOK, rows)
}

// GetLastRun exposes the undo slot so the dashboard can show what a revert
// would undo. An empty slot is a normal condition, not an error.
func (h *Handler) GetLastRun(c *gin.Context) {
	rec, err := h.history.Peek()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLastRun})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "none"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetParticipants lists the cached roster.
func (h *Handler) GetParticipants(c *gin.Context) {
	rows, err := h.repo.GetRoster()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchParticipants})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type customizationRequest struct {
	Handle    string     `json:"handle" binding:"required"`
	Kind      string     `json:"kind" binding:"required"`
	Magnitude float64    `json:"magnitude"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AddCustomization stores a power-up/cosmetic row for a participant. The
// kind must belong to the closed modifier set the engine understands.
func (h *Handler) AddCustomization(c *gin.Context) {
	var req customizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCustomization})
		return
	}
	switch arena.ModifierKind(req.Kind) {
	case arena.ModifierStrengthAdd, arena.ModifierStrengthMult,
		arena.ModifierVarianceAdd, arena.ModifierVarianceMult:
	default:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCustomization})
		return
	}
	row := &storage.Customization{
		Handle:    req.Handle,
		Kind:      req.Kind,
		Magnitude: req.Magnitude,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.repo.AddCustomization(row); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidCustomization})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// Health reports liveness for the healthcheck binary.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// Register wires all routes onto the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET(constants.RouteHealth, h.Health)
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteScoreboard, h.GetScoreboard)
		apiRoutes.GET(constants.RouteLeaderboard, h.GetLeaderboard)
		apiRoutes.GET(constants.RouteLastRun, h.GetLastRun)
		apiRoutes.GET(constants.RouteParticipants, h.GetParticipants)
		apiRoutes.POST(constants.RouteCustomizations, h.AddCustomization)
	}
}
