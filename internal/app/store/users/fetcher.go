package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bughive/bughive/internal/app/system/auth"
)

// FetchSessionUser implements auth.UserFetcher. The session middleware
// calls this on every request so a deleted user is signed out on their
// next request rather than at cookie expiry.
func (s *Store) FetchSessionUser(ctx context.Context, userID primitive.ObjectID) (*auth.SessionUser, error) {
	u, err := s.GetByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}, nil
}
