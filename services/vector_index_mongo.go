package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"org-knowledge-platform/internal/logger"
	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// MongoVectorIndex stores chunk vectors in a MongoDB collection and scans
// filtered candidates for similarity. Metadata filters become Mongo query
// predicates so access control is enforced before candidates leave the
// database.
type MongoVectorIndex struct {
	collection *mongo.Collection
	dimension  int
}

func NewMongoVectorIndex(client *mongo.Client, dbName string, dimension int) *MongoVectorIndex {
	return &MongoVectorIndex{
		collection: client.Database(dbName).Collection("chunks"),
		dimension:  dimension,
	}
}

// Add inserts the batch. On a partial insert failure the already-written
// entries of this batch are removed so the batch never becomes searchable
// in part.
func (idx *MongoVectorIndex) Add(ctx context.Context, entries []models.IndexEntry) error {
	if err := validateEntries(entries, idx.dimension); err != nil {
		return err
	}

	docs := make([]interface{}, len(entries))
	ids := make([]string, len(entries))
	for i, e := range entries {
		vec, err := NormalizeVector(e.Vector)
		if err != nil {
			return err
		}
		e.Vector = vec
		docs[i] = e
		ids[i] = e.ID
	}

	_, err := idx.collection.InsertMany(ctx, docs)
	if err != nil {
		if inserted := insertedBeforeFailure(ids, err); len(inserted) > 0 {
			if _, cleanupErr := idx.collection.DeleteMany(ctx, bson.M{"chunk_id": bson.M{"$in": inserted}}); cleanupErr != nil {
				logger.Error("Failed to roll back partial batch insert", "error", cleanupErr)
			}
		}
		return &utils.IndexError{Op: "add", Err: err}
	}
	return nil
}

// insertedBeforeFailure narrows a failed ordered InsertMany to the ids it
// actually wrote. Ordered inserts stop at the first write error, so only
// ids before that index were committed by this call; in particular a
// duplicate-key collision never causes the pre-existing chunk to be
// removed by the rollback.
func insertedBeforeFailure(ids []string, err error) []string {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		return ids
	}
	first := len(ids)
	for _, we := range bwe.WriteErrors {
		if we.Index < first {
			first = we.Index
		}
	}
	return ids[:first]
}

func (idx *MongoVectorIndex) Search(ctx context.Context, vector []float32, topK int, threshold float64, filter models.Filter) ([]models.SearchResult, error) {
	if len(vector) != idx.dimension {
		return nil, &utils.ValidationError{Field: "vector", Reason: "query vector has wrong dimension"}
	}
	query, err := NormalizeVector(vector)
	if err != nil {
		return nil, err
	}

	mongoFilter, err := filterToBSON(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := idx.collection.Find(ctx, mongoFilter)
	if err != nil {
		return nil, &utils.IndexError{Op: "search", Err: err}
	}
	defer cursor.Close(ctx)

	var results []models.SearchResult
	for cursor.Next(ctx) {
		var entry models.IndexEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, &utils.IndexError{Op: "search", Err: err}
		}
		results = append(results, models.SearchResult{
			ID:         entry.ID,
			Content:    entry.Content,
			Metadata:   entry.Metadata,
			Similarity: Similarity(query, entry.Vector),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, &utils.IndexError{Op: "search", Err: err}
	}
	return rankResults(results, topK, threshold), nil
}

func (idx *MongoVectorIndex) GetByDocument(ctx context.Context, documentID string) ([]models.IndexEntry, error) {
	cursor, err := idx.collection.Find(ctx, bson.M{"metadata.document_id": documentID})
	if err != nil {
		return nil, &utils.IndexError{Op: "get_by_document", Err: err}
	}
	defer cursor.Close(ctx)

	var entries []models.IndexEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, &utils.IndexError{Op: "get_by_document", Err: err}
	}
	sortEntriesByChunkIndex(entries)
	return entries, nil
}

func (idx *MongoVectorIndex) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	res, err := idx.collection.DeleteMany(ctx, bson.M{"metadata.document_id": documentID})
	if err != nil {
		return 0, &utils.IndexError{Op: "delete_by_document", Err: err}
	}
	return int(res.DeletedCount), nil
}

func (idx *MongoVectorIndex) Stats(ctx context.Context) (models.IndexStats, error) {
	stats := models.IndexStats{
		Departments: make(map[string]int),
		Categories:  make(map[string]int),
		Languages:   make(map[string]int),
	}

	total, err := idx.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, &utils.IndexError{Op: "stats", Err: err}
	}
	stats.TotalChunks = int(total)

	for field, dest := range map[string]map[string]int{
		"metadata.department": stats.Departments,
		"metadata.category":   stats.Categories,
		"metadata.language":   stats.Languages,
	} {
		cursor, err := idx.collection.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		})
		if err != nil {
			return stats, &utils.IndexError{Op: "stats", Err: err}
		}
		var rows []struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return stats, &utils.IndexError{Op: "stats", Err: err}
		}
		for _, row := range rows {
			dest[row.ID] = row.Count
		}
	}
	return stats, nil
}

func (idx *MongoVectorIndex) All(ctx context.Context) ([]models.IndexEntry, error) {
	cursor, err := idx.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, &utils.IndexError{Op: "all", Err: err}
	}
	defer cursor.Close(ctx)

	var entries []models.IndexEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, &utils.IndexError{Op: "all", Err: err}
	}
	sortEntriesByChunkIndex(entries)
	return entries, nil
}

// filterToBSON lowers a metadata filter expression to a Mongo query
// against the flattened metadata subdocument.
func filterToBSON(f models.Filter) (bson.M, error) {
	if f == nil {
		return bson.M{}, nil
	}
	switch v := f.(type) {
	case models.Eq:
		return bson.M{"metadata." + v.Field: v.Value}, nil
	case models.In:
		return bson.M{"metadata." + v.Field: bson.M{"$in": v.Values}}, nil
	case models.And:
		if len(v) == 0 {
			return bson.M{}, nil
		}
		clauses := make([]bson.M, 0, len(v))
		for _, sub := range v {
			if sub == nil {
				continue
			}
			clause, err := filterToBSON(sub)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
		if len(clauses) == 0 {
			return bson.M{}, nil
		}
		return bson.M{"$and": clauses}, nil
	default:
		return nil, &utils.ValidationError{Field: "filter", Reason: "unsupported filter variant"}
	}
}
