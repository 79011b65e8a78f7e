package event

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler 处理活动报名与 Mutoto Bike Challenge 报名
type EventHandler struct {
	participationService *service.ParticipationService
	challengeService     *service.ChallengeService
}

func NewEventHandler(participationService *service.ParticipationService, challengeService *service.ChallengeService) *EventHandler {
	return &EventHandler{participationService, challengeService}
}

func (h *EventHandler) JoinEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid event id"))
		return
	}

	participation, created, err := h.participationService.JoinEvent(c.Request.Context(), c.GetInt("user_id"), eventID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if !created {
		errors.HandleSuccess(c, participation, "Déjà inscrit")
		return
	}
	errors.HandleCreated(c, participation, "Inscription confirmée")
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateParticipationStatus 员工更新活动报名状态
func (h *EventHandler) UpdateParticipationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid participation id"))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "status is required", err))
		return
	}

	participation, err := h.participationService.UpdateParticipationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, participation, "")
}

func (h *EventHandler) ListMyParticipations(c *gin.Context) {
	participations, err := h.participationService.ListUserParticipations(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"participations": participations}, "")
}

type joinChallengeRequest struct {
	Age int `json:"age" binding:"omitempty,min=5,max=100"`
}

func (h *EventHandler) JoinChallenge(c *gin.Context) {
	challengeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid challenge id"))
		return
	}

	var req joinChallengeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid age", err))
			return
		}
	}

	participant, created, err := h.challengeService.JoinChallenge(c.Request.Context(), c.GetInt("user_id"), challengeID, req.Age)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if !created {
		errors.HandleSuccess(c, participant, "Vous êtes déjà inscrit à ce challenge")
		return
	}
	util.Logger.Info("MBC 报名成功", zap.Int("participant_id", participant.ID), zap.Int("challenge_id", challengeID))
	errors.HandleCreated(c, participant, "Inscription au challenge confirmée")
}

// UpdateParticipantStatus 员工确认或取消 MBC 报名
func (h *EventHandler) UpdateParticipantStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid participant id"))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "status is required", err))
		return
	}

	participant, err := h.challengeService.UpdateParticipantStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, participant, "")
}
