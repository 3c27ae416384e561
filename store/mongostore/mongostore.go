// Package mongostore implements the store contracts on MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

const (
	usersCollection      = "users"
	postsCollection      = "posts"
	commentsCollection   = "comments"
	categoriesCollection = "categories"
)

// New wraps a database handle and ensures the indexes the contracts rely on.
func New(ctx context.Context, db *mongo.Database) (*store.Store, error) {
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}
	closer := func(ctx context.Context) error { return db.Client().Disconnect(ctx) }
	return store.New(
		userStore{db.Collection(usersCollection)},
		postStore{db.Collection(postsCollection)},
		commentStore{db.Collection(commentsCollection)},
		categoryStore{db.Collection(categoriesCollection)},
		closer,
	), nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(commentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	return err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

func now() time.Time {
	// Mongo keeps millisecond precision; truncate so round trips compare equal.
	return time.Now().UTC().Truncate(time.Millisecond)
}

func prepare(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = models.NewID()
	}
	t := now()
	if created.IsZero() {
		*created = t
	}
	*updated = t
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

type userStore struct{ coll *mongo.Collection }

func (s userStore) Create(ctx context.Context, u *models.User) error {
	prepare(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, u)
	return translate(err)
}

func (s userStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s userStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s userStore) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return findAll[models.User](ctx, s.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (s userStore) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (s userStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	return n, translate(err)
}

func (s userStore) set(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	fields["updated_at"] = now()
	var u models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, returnAfter).Decode(&u)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s userStore) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	fields := bson.M{}
	if upd.Username != nil {
		fields["username"] = *upd.Username
	}
	if upd.PasswordHash != nil {
		fields["password"] = *upd.PasswordHash
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.IsAdmin != nil {
		fields["is_admin"] = *upd.IsAdmin
	}
	return s.set(ctx, id, fields)
}

func (s userStore) SetAvatar(ctx context.Context, id string, img models.Image) (*models.User, error) {
	return s.set(ctx, id, bson.M{"avatar": img})
}

func (s userStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}

type postStore struct{ coll *mongo.Collection }

func (s postStore) Create(ctx context.Context, p *models.Post) error {
	prepare(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if p.Likes == nil {
		p.Likes = []string{}
	}
	_, err := s.coll.InsertOne(ctx, p)
	return translate(err)
}

func (s postStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s postStore) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Page > 0 && f.PerPage > 0 {
		opts.SetSkip(int64((f.Page - 1) * f.PerPage)).SetLimit(int64(f.PerPage))
	}
	return findAll[models.Post](ctx, s.coll, filter, opts)
}

func (s postStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	return n, translate(err)
}

func (s postStore) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[models.Post](ctx, s.coll, bson.M{"author": authorID}, opts)
}

func (s postStore) update(ctx context.Context, id string, update bson.M) (*models.Post, error) {
	var p models.Post
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s postStore) Update(ctx context.Context, id string, upd models.PostUpdate) (*models.Post, error) {
	fields := bson.M{"updated_at": now()}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Body != nil {
		fields["body"] = *upd.Body
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	return s.update(ctx, id, bson.M{"$set": fields})
}

func (s postStore) SetImage(ctx context.Context, id string, img models.Image) (*models.Post, error) {
	return s.update(ctx, id, bson.M{"$set": bson.M{"image": img, "updated_at": now()}})
}

// ToggleLike first tries to pull the user from a post that contains it; when no
// such document matches the user is added with $addToSet. Each step is a
// single-document atomic update, and $addToSet never stores a duplicate.
func (s postStore) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	var p models.Post
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
		returnAfter,
	).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err)
	}
	return s.update(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (s postStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}

type commentStore struct{ coll *mongo.Collection }

func (s commentStore) Create(ctx context.Context, c *models.Comment) error {
	prepare(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, c)
	return translate(err)
}

func (s commentStore) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

var oldestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

func (s commentStore) List(ctx context.Context) ([]models.Comment, error) {
	return findAll[models.Comment](ctx, s.coll, bson.M{}, oldestFirst)
}

func (s commentStore) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return findAll[models.Comment](ctx, s.coll, bson.M{"post_id": postID}, oldestFirst)
}

func (s commentStore) Update(ctx context.Context, id, text string) (*models.Comment, error) {
	var c models.Comment
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "updated_at": now()}},
		returnAfter,
	).Decode(&c)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s commentStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}

func (s commentStore) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (s commentStore) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"author": authorID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

type categoryStore struct{ coll *mongo.Collection }

func (s categoryStore) Create(ctx context.Context, c *models.Category) error {
	prepare(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	_, err := s.coll.InsertOne(ctx, c)
	return translate(err)
}

func (s categoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s categoryStore) List(ctx context.Context) ([]models.Category, error) {
	return findAll[models.Category](ctx, s.coll, bson.M{}, oldestFirst)
}

func (s categoryStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.coll, id)
}
