package store

import (
	"context"
	"errors"
	"time"

	"github.com/aruana-vision/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{col: database.Collection("users")}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (types.User, error) {
	return r.findOne(ctx, bson.M{"reset_token": token})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (types.User, error) {
	var user types.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the new state.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.BirthDate != nil {
		set["birth_date"] = *update.BirthDate
	}
	if update.ProfilePhoto != nil {
		set["profile_photo"] = *update.ProfilePhoto
	}
	if len(set) > 0 {
		if err := r.updateOne(ctx, id, bson.M{"$set": set}); err != nil {
			return types.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"last_login": at}})
}

// SetPassword stores a new password hash and invalidates any
// outstanding reset token in the same write.
func (r *UserRepository) SetPassword(ctx context.Context, id string, hash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": hash},
		"$unset": bson.M{"reset_token": "", "reset_token_expiry": ""},
	})
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{"reset_token": token, "reset_token_expiry": expiry},
	})
}

// SetRoleAndStatus applies the admin-editable account fields. Nil
// pointers leave the stored value untouched.
func (r *UserRepository) SetRoleAndStatus(ctx context.Context, id string, role *string, isActive *bool) (types.User, error) {
	set := bson.M{}
	if role != nil {
		set["role"] = *role
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}
	if len(set) > 0 {
		if err := r.updateOne(ctx, id, bson.M{"$set": set}); err != nil {
			return types.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []types.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
