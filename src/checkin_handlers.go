package main

import (
	"errors"
	"evtix/src/middlewares"
	"evtix/src/types"
	"evtix/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func checkinHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkin", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CheckinRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := utils.CheckInTicket(ctx, body.Code)
			if err != nil {
				log.Printf("Error on Ticket check-in: %s\n", err.Error())
				switch {
				case errors.Is(err, types.ErrMalformedPayload):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrTicketNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrAlreadyCheckedIn):
					// reported outcome, not a crash: include the prior record
					// so the station can show when it was redeemed
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "data": ticket})
				default:
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}
