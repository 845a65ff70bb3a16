package main

import (
	"context"
	"errors"
	"evtix/src/lib"
	"evtix/src/models"
	"evtix/src/store"
	"evtix/src/types"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeqown/go-qrcode"
)

// canViewTicket: the holder owns the ticket for viewing purposes; organizers
// can see any ticket (they validate them at the door).
func canViewTicket(ctx *gin.Context, ticket *models.Ticket) bool {
	if ctx.GetString("role") == string(types.ROLE_ORGANIZER) {
		return true
	}
	return ticket.Email == ctx.GetString("email")
}

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			email := ctx.GetString("email")
			tickets, err := store.GetStore().TicketsByEmail(ctx, email)
			if err != nil {
				log.Printf("Error retrieving Tickets for [%s]: %s\n", email, err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := store.GetStore().GetTicket(ctx, params.ID)
			if err != nil {
				log.Printf("Error retrieving Ticket [%s]: %s\n", params.ID, err.Error())
				if errors.Is(err, types.ErrTicketNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			if !canViewTicket(ctx, ticket) {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := store.GetStore().GetTicket(ctx, params.ID)
			if err != nil {
				if errors.Is(err, types.ErrTicketNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
				return
			}
			if !canViewTicket(ctx, ticket) {
				ctx.Status(http.StatusForbidden)
				return
			}

			filename := fmt.Sprintf("ticketcode_%s", ticket.ID)
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", filename))

			rd := lib.GetRedisClient()
			if rd != nil {
				cached, err := rd.Get(context.Background(), filename).Result()
				if err != nil && !errors.Is(err, redis.Nil) {
					log.Printf("Error reading from cache: %s\n", err.Error())
				}
				if cached != "" {
					ctx.FileAttachment(cached, "eticket.jpeg")
					return
				}
			}

			code := types.EncodePayload(ticket.Payload())
			qrc, err := qrcode.New(code)
			if err != nil {
				log.Printf("Error generating QR code for Ticket [%s]: %s\n", ticket.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if rd != nil {
				rd.SetEx(context.Background(), filename, filepath, 2*time.Hour)
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
