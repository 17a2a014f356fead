package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/server/http/dto"
)

// IdempotencyKeyHeader carries the credit key when the body does not.
const IdempotencyKeyHeader = "Idempotency-Key"

// RewardHandler manages reward ledger endpoints.
type RewardHandler struct {
	facade RewardFacade
}

// NewRewardHandler constructs RewardHandler.
func NewRewardHandler(facade RewardFacade) *RewardHandler {
	return &RewardHandler{facade: facade}
}

// AddScore handles POST /rewards/add_score.
func (h *RewardHandler) AddScore(c *gin.Context) {
	var req dto.AddScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader(IdempotencyKeyHeader)
	}

	result, err := h.facade.AddScore(c.Request.Context(), model.CreditRequest{
		UserID:         req.User,
		Amount:         req.AddToScore,
		IdempotencyKey: key,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ScoreResponse{User: result.UserID, Score: result.Score, Replayed: result.Replayed})
}

// List handles GET /rewards.
func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.facade.Rewards(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(rewards, func(r model.Reward, _ int) dto.RewardResponse {
		return dto.RewardResponse{User: r.UserID, Score: r.Score}
	}))
}

// Get handles GET /rewards/:user.
func (h *RewardHandler) Get(c *gin.Context) {
	userID, ok := ParseID(c, "user")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	reward, err := h.facade.Reward(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RewardResponse{User: reward.UserID, Score: reward.Score})
}

// Create handles POST /rewards/new.
func (h *RewardHandler) Create(c *gin.Context) {
	var req dto.NewRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward, err := h.facade.OpenReward(c.Request.Context(), req.User)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RewardResponse{User: reward.UserID, Score: reward.Score})
}

// Prize handles GET /rewards/prizes/:user.
func (h *RewardHandler) Prize(c *gin.Context) {
	userID, ok := ParseID(c, "user")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	prize, err := h.facade.Prize(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PrizeResponse{
		User:             prize.UserID,
		PrizeAvailable:   prize.Available,
		PointsUntilPrize: prize.PointsUntilPrize,
	})
}
