package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketloop/accounts-api/internal/core/domain"
	"github.com/marketloop/accounts-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository persists user accounts in MongoDB. The unique index on
// email is the sole authoritative guard against duplicate accounts; every
// duplicate-key violation maps to domain.ErrEmailExists.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Firstname    string             `bson:"firstname"`
	Lastname     string             `bson:"lastname"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Avatar       string             `bson:"avatar,omitempty"`
	PasswordHash string             `bson:"password"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Firstname:    d.Firstname,
		Lastname:     d.Lastname,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      d.Address,
		Avatar:       d.Avatar,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Status:       domain.UserStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// objectID converts a hex id, failing with ErrInvalidUserID before any query
// is issued.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidUserID
	}
	return oid, nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Email:        user.Email,
		Phone:        user.Phone,
		Address:      user.Address,
		Avatar:       user.Avatar,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Status:       string(user.Status),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) UpdateByID(ctx context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Firstname != nil {
		set["firstname"] = *fields.Firstname
	}
	if fields.Lastname != nil {
		set["lastname"] = *fields.Lastname
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Address != nil {
		set["address"] = *fields.Address
	}
	if fields.Role != nil {
		set["role"] = *fields.Role
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) (*domain.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		"status":     string(domain.StatusDeleted),
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) SetAvatar(ctx context.Context, id, uri string) (*domain.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		"avatar":     uri,
		"updated_at": time.Now().UTC(),
	})
}

// findOneAndSet applies a $set to a single document and returns the updated
// record. The update is atomic; a duplicate email set through it maps to the
// same conflict error as a duplicate insert.
func (r *UserRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return d.toDomain(), nil
}

// EnsureIndexes creates the unique email index. Must run at startup: the
// index, not the advisory pre-check, is what makes concurrent creates with
// the same email resolve to exactly one winner.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
