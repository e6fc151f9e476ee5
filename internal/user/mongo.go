package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
)

const usersCollection = "users"

// userDoc is the persisted shape of an account.
type userDoc struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Username      string        `bson:"username"`
	Email         string        `bson:"email"`
	Provider      string        `bson:"provider"`
	PasswordHash  string        `bson:"password,omitempty"`
	Picture       string        `bson:"picture,omitempty"`
	FirstName     string        `bson:"firstName,omitempty"`
	LastName      string        `bson:"lastName,omitempty"`
	IsActive      bool          `bson:"isActive"`
	DeactivatedAt *time.Time    `bson:"deactivatedAt,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

func (d userDoc) toUser() User {
	return User{
		ID:            d.ID.Hex(),
		Username:      d.Username,
		Email:         d.Email,
		Provider:      d.Provider,
		PasswordHash:  d.PasswordHash,
		Picture:       d.Picture,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		IsActive:      d.IsActive,
		DeactivatedAt: d.DeactivatedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoRepository is the MongoDB-backed implementation of Repository.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository wires the repository to the users collection and creates
// the unique indexes that are the final authority on account uniqueness:
// concurrent creates that both pass the application-level check lose here
// with a duplicate-key error, surfaced as apperr.ErrConflict.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(usersCollection)

	active := bson.D{{Key: "isActive", Value: true}}
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(active),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "provider", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(active),
		},
		{
			Keys: bson.D{{Key: "deactivatedAt", Value: 1}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) Insert(ctx context.Context, u User) (User, error) {
	now := time.Now()
	doc := userDoc{
		ID:            bson.NewObjectID(),
		Username:      u.Username,
		Email:         u.Email,
		Provider:      u.Provider,
		PasswordHash:  u.PasswordHash,
		Picture:       u.Picture,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsActive:      u.IsActive,
		DeactivatedAt: u.DeactivatedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, fmt.Errorf("%w: account already exists", apperr.ErrConflict)
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return doc.toUser(), nil
}

func (r *MongoRepository) FindActiveByID(ctx context.Context, id string) (User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids are reported exactly like absent records.
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "isActive", Value: true}})
}

func (r *MongoRepository) FindActiveByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}, {Key: "isActive", Value: true}})
}

func (r *MongoRepository) FindActiveByEmailAndProvider(ctx context.Context, email, provider string) (User, error) {
	return r.findOne(ctx, bson.D{
		{Key: "email", Value: email},
		{Key: "provider", Value: provider},
		{Key: "isActive", Value: true},
	})
}

func (r *MongoRepository) FindActiveByUsername(ctx context.Context, username string) (User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}, {Key: "isActive", Value: true}})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

func (r *MongoRepository) FindAllActive(ctx context.Context) ([]User, error) {
	return r.findAll(ctx, bson.D{{Key: "isActive", Value: true}})
}

func (r *MongoRepository) FindAllInactive(ctx context.Context) ([]User, error) {
	return r.findAll(ctx, bson.D{{Key: "isActive", Value: false}})
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.D) ([]User, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toUser())
	}
	return users, nil
}

func (r *MongoRepository) Save(ctx context.Context, u User) (User, error) {
	oid, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	u.UpdatedAt = time.Now()
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "username", Value: u.Username},
		{Key: "email", Value: u.Email},
		{Key: "provider", Value: u.Provider},
		{Key: "password", Value: u.PasswordHash},
		{Key: "picture", Value: u.Picture},
		{Key: "firstName", Value: u.FirstName},
		{Key: "lastName", Value: u.LastName},
		{Key: "isActive", Value: u.IsActive},
		{Key: "deactivatedAt", Value: u.DeactivatedAt},
		{Key: "updatedAt", Value: u.UpdatedAt},
	}}}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, fmt.Errorf("%w: account already exists", apperr.ErrConflict)
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return u, nil
}

func (r *MongoRepository) Remove(ctx context.Context, ids []string) (int, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return int(res.DeletedCount), nil
}
