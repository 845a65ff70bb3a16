package controllers

import (
	"context"
	"evtix/src/lib"
	"evtix/src/models"
	"evtix/src/store"
	"evtix/src/types"
	"log"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// AuthRegister creates the account with the identity provider and mirrors it
// into the users collection. Role comes from the sign-up form and defaults to
// attendee.
func AuthRegister(ctx *gin.Context) (uid *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_ATTENDEE
	}
	fauth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error initializing FirebaseAuth client: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(body.Password).
		DisplayName(body.Name)
	record, err := fauth.CreateUser(context.Background(), params)
	if err != nil {
		log.Printf("error from Firebase: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	user := &models.User{
		UID:       record.UID,
		Email:     email,
		Name:      body.Name,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := store.GetStore().CreateUser(ctx, user); err != nil {
		log.Printf("Error mirroring user [%s]: %s\n", record.UID, err.Error())
		return nil, http.StatusBadRequest, err
	}
	return &record.UID, http.StatusOK, nil
}

// AuthLogin resolves the verified identity to its mirrored profile. Sign-in
// itself happens against the identity provider on the client; by the time
// this runs the ID token has already been verified by middleware.
func AuthLogin(ctx *gin.Context) (*models.User, int, error) {
	uid := ctx.GetString("uid")
	user, err := store.GetStore().GetUser(ctx, uid)
	if err != nil {
		log.Printf("Error retrieving profile for [%s]: %s\n", uid, err.Error())
		return nil, http.StatusNotFound, err
	}
	return user, http.StatusOK, nil
}
