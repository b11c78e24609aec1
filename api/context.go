package api

import (
	"context"
	"errors"
)

type keyType string

const (
	userIDKey keyType = "userID"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user ID from the context
func ctxGetUserID(ctx context.Context) (string, error) {
	ctxValue := ctx.Value(userIDKey)
	if ctxValue == nil {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := ctxValue.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID in context is not a non-empty string")
	}
	return userID, nil
}
