package main

import (
	"errors"
	"evtix/src/middlewares"
	"evtix/src/models"
	"evtix/src/store"
	"evtix/src/types"
	"evtix/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			events, err := store.GetStore().ListEvents(ctx)
			if err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, err := store.GetStore().GetEvent(ctx, params.ID)
			if err != nil {
				log.Printf("Error retrieving Event [%s]: %s\n", params.ID, err.Error())
				if errors.Is(err, types.ErrEventNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event := &models.Event{
				Name:         body.Name,
				Location:     body.Location,
				StartDate:    body.StartDate,
				EndDate:      body.EndDate,
				TotalTickets: body.TotalTickets,
				Sold:         0,
				Price:        body.Price,
				ImageURL:     body.ImageURL,
				CreatedBy:    ctx.GetString("uid"),
				CreatedAt:    time.Now(),
			}
			id, err := store.GetStore().CreateEvent(ctx, event)
			if err != nil {
				log.Printf("Error creating Event: %s\n", err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		GET("/events/:id/attendees", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := store.GetStore().GetEvent(ctx, params.ID); err != nil {
				if errors.Is(err, types.ErrEventNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			tickets, err := store.GetStore().TicketsByEvent(ctx, params.ID)
			if err != nil {
				log.Printf("Error retrieving attendees for Event [%s]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		POST("/events/:id/book", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			ticket, err := utils.BookTicket(ctx, params.ID, email)
			if err != nil {
				log.Printf("Error booking ticket for Event [%s]: %s\n", params.ID, err.Error())
				switch {
				case errors.Is(err, types.ErrEventNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrSoldOut), errors.Is(err, types.ErrLimitExceeded):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				}
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": ticket})
		})
	return g
}
