package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/researchx-app/researchx-gobackend/internal/models"
)

// ProjectStore is the persistence surface the payment orchestration needs.
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
	Insert(ctx context.Context, project *models.Project) (string, error)
	Update(ctx context.Context, id string, fields bson.M) error
	// UpdatePaymentState sets fields only if the stored payment_status is
	// one of from. Returns ErrConflict when another request advanced the
	// state first.
	UpdatePaymentState(ctx context.Context, id string, from []models.PaymentState, fields bson.M) error
}

// MongoProjectStore backs ProjectStore with the projects collection.
type MongoProjectStore struct {
	collection *mongo.Collection
}

func NewMongoProjectStore(db *mongo.Database) *MongoProjectStore {
	return &MongoProjectStore{collection: db.Collection("projects")}
}

func (s *MongoProjectStore) FindByID(ctx context.Context, id string) (*models.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationErrorf("invalid project id format")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var project models.Project
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		log.Printf("Failed to fetch project %s: %v", id, err)
		return nil, err
	}
	return &project, nil
}

func (s *MongoProjectStore) Insert(ctx context.Context, project *models.Project) (string, error) {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	if project.PaymentStatus == "" {
		project.PaymentStatus = models.PaymentPending
	}

	result, err := s.collection.InsertOne(ctx, project)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *MongoProjectStore) Update(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return validationErrorf("invalid project id format")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updated_at"] = time.Now()
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		log.Printf("Failed to update project %s: %v", id, err)
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProjectStore) UpdatePaymentState(ctx context.Context, id string, from []models.PaymentState, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return validationErrorf("invalid project id format")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updated_at"] = time.Now()
	filter := bson.M{"_id": objID, "payment_status": bson.M{"$in": from}}
	result, err := s.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		log.Printf("Failed to advance payment state for project %s: %v", id, err)
		return err
	}
	if result.MatchedCount == 0 {
		// Either the project is gone or a concurrent request moved the
		// state already.
		return ErrConflict
	}
	return nil
}

var _ ProjectStore = (*MongoProjectStore)(nil)
