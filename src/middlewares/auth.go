package middlewares

import (
	"evtix/src/store"
	"evtix/src/types"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware loads the mirrored user record for the verified uid and
// plants the identity keys subsequent handlers read off the context.
func AuthMiddleware(ctx *gin.Context) {
	uid := ctx.GetString("uid")
	if uid == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	user, err := store.GetStore().GetUser(ctx, uid)
	if err != nil {
		log.Printf("Error retrieving user [%s]: %s\n", uid, err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	ctx.Set("email", strings.ToLower(user.Email))
	ctx.Set("name", user.Name)
	ctx.Set("role", string(user.Role))
}

// RequireOrganizer gates the organizer-only surface: event creation, attendee
// lists and ticket check-in.
func RequireOrganizer(ctx *gin.Context) {
	if ctx.GetString("role") != string(types.ROLE_ORGANIZER) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organizer role required"})
		return
	}
}
