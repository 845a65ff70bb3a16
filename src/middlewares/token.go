package middlewares

import (
	"context"
	"errors"
	"evtix/src/lib"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// VerifyIdToken authenticates the request against the identity provider. It
// only establishes WHO is calling; AuthMiddleware resolves the mirrored user
// record behind the uid.
func VerifyIdToken(ctx *gin.Context) {
	idToken := ctx.GetHeader("Authorization")
	if idToken == "" {
		err := errors.New("missing authorization header")
		log.Printf("Check failed: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	fauth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error retrieving Firebase Auth instance: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	token, err := fauth.VerifyIDToken(ctx, idToken)
	if err != nil {
		msg := "Failed to verify ID token"
		log.Printf("Failed to verify ID token: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	if rd := lib.GetRedisClient(); rd != nil {
		rd.Set(context.Background(), fmt.Sprintf("%s:token", token.UID), idToken, 24*time.Hour)
	}
	ctx.Set("uid", token.UID)
}
