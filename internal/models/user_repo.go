package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	userExistsMsg   = "User with this email already exists"
	emailInUseMsg   = "Email is already in use"
	userNotFoundMsg = "User not found"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	// GetUserByEmail only loads the password hash when withPassword is set.
	GetUserByEmail(ctx context.Context, email string, withPassword bool) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) (*User, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*User, error)
}

var withoutPassword = bson.M{"password": 0}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, storeError(err, userExistsMsg, userNotFoundMsg)
	}
	user.Password = ""
	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, err
	}
	var user User
	opts := options.FindOne().SetProjection(withoutPassword)
	if err := col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		return nil, storeError(err, userExistsMsg, userNotFoundMsg)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string, withPassword bool) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(withoutPassword)
	}
	var user User
	if err := col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user); err != nil {
		return nil, storeError(err, userExistsMsg, userNotFoundMsg)
	}
	return &user, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	defer cursor.Close(ctx)

	users := make([]*User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, storeError(fmt.Errorf("error decoding users: %w", err), "", "")
	}
	return users, nil
}

func (mdb *MongodbRepo) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, storeError(err, "", "")
	}
	return n, nil
}

func (mdb *MongodbRepo) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) (*User, error) {
	return mdb.updateUser(ctx, id, bson.M{"role": role}, userExistsMsg)
}

func (mdb *MongodbRepo) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*User, error) {
	return mdb.updateUser(ctx, id, bson.M{"name": name, "email": email}, emailInUseMsg)
}

func (mdb *MongodbRepo) updateUser(ctx context.Context, id primitive.ObjectID, set bson.M, conflictMsg string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetProjection(withoutPassword).
		SetReturnDocument(options.After)

	var user User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, storeError(err, conflictMsg, userNotFoundMsg)
	}
	return &user, nil
}
