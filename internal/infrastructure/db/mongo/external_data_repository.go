package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

const externalDataCollection = "external_data"

// ExternalDataRepository persists downstream API payloads in MongoDB.
type ExternalDataRepository struct {
	coll *mongo.Collection
}

func NewExternalDataRepository(db *mongo.Database) *ExternalDataRepository {
	return &ExternalDataRepository{coll: db.Collection(externalDataCollection)}
}

type externalDataDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Source     string             `bson:"source"`
	Payload    string             `bson:"payload"`
	StatusCode int                `bson:"status_code"`
	FetchedAt  int64              `bson:"fetched_at"`
}

// Save stores the record and returns the generated object id as hex.
func (r *ExternalDataRepository) Save(ctx context.Context, data *domain.ExternalData) (string, error) {
	doc := externalDataDoc{
		Source:     data.Source,
		Payload:    string(data.Payload),
		StatusCode: data.StatusCode,
		FetchedAt:  data.FetchedAt.Unix(),
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert external data: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert external data: unexpected id type %T", result.InsertedID)
	}
	return id.Hex(), nil
}

// FindRecent returns up to limit records, newest first.
func (r *ExternalDataRepository) FindRecent(ctx context.Context, limit int) ([]domain.ExternalData, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find external data: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []externalDataDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode external data: %w", err)
	}

	records := make([]domain.ExternalData, 0, len(docs))
	for _, doc := range docs {
		records = append(records, domain.ExternalData{
			ID:         doc.ID.Hex(),
			Source:     doc.Source,
			Payload:    []byte(doc.Payload),
			StatusCode: doc.StatusCode,
			FetchedAt:  time.Unix(doc.FetchedAt, 0).UTC(),
		})
	}
	return records, nil
}
