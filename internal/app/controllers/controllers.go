package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/middleware"
)

// requireActor returns the authenticated caller or writes a 401.
func requireActor(ctx *gin.Context) (appauth.Actor, bool) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "authentication required"))
	}
	return actor, ok
}
