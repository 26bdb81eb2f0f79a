package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/services"
	"github.com/aeroforge/aerobbs/utils"
)

// VoteController exposes the vote ledger over HTTP.
type VoteController struct {
	votes *services.VoteService
}

// NewVoteController creates a VoteController.
func NewVoteController(db *gorm.DB) *VoteController {
	return &VoteController{votes: services.NewVoteService(db)}
}

// Cast applies the upsert-toggle-overwrite vote semantics for the caller on
// exactly one target. Responses: the vote now on record, or a removal notice
// when an identical cast toggled the previous vote off.
func (v *VoteController) Cast(ctx *gin.Context) {
	var req struct {
		ThreadID  *uint  `json:"thread_id"`
		CommentID *uint  `json:"comment_id"`
		VoteType  string `json:"vote_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	res, err := v.votes.CastVote(userID, req.ThreadID, req.CommentID, req.VoteType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTarget):
			utils.Error(ctx, http.StatusBadRequest, 40041, "vote must reference exactly one of thread_id or comment_id")
		case errors.Is(err, services.ErrInvalidVoteType):
			utils.Error(ctx, http.StatusBadRequest, 40042, "vote_type must be upvote or downvote")
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusConflict, 40910, "concurrent vote detected, retry")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to cast vote")
		}
		return
	}

	// composed thread views embed vote lists
	utils.InvalidateByPrefix(threadListCachePrefix)
	utils.InvalidateByPrefix(threadDetailCachePrefix)

	if res.Removed {
		utils.Success(ctx, gin.H{"message": "vote removed"})
		return
	}
	utils.Success(ctx, gin.H{"vote": res.Vote})
}
