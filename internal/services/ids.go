package services

import (
	"github.com/joshua-takyi/devevent/internal/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errs.Validation(field, "Invalid "+field)
	}
	return id, nil
}
