package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

// MetadataStore persists per-document metadata records, keyed by document
// id, separately from the chunk vectors.
type MetadataStore interface {
	Put(ctx context.Context, meta models.DocumentMetadata) error
	Get(ctx context.Context, documentID string) (models.DocumentMetadata, error)
	Delete(ctx context.Context, documentID string) error
	List(ctx context.Context) ([]models.DocumentMetadata, error)
}

// MongoMetadataStore keeps document records in the "documents" collection.
type MongoMetadataStore struct {
	collection *mongo.Collection
}

func NewMongoMetadataStore(client *mongo.Client, dbName string) *MongoMetadataStore {
	return &MongoMetadataStore{
		collection: client.Database(dbName).Collection("documents"),
	}
}

func (s *MongoMetadataStore) Put(ctx context.Context, meta models.DocumentMetadata) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"document_id": meta.DocumentID}, meta, opts)
	if err != nil {
		return &utils.IndexError{Op: "metadata_put", Err: err}
	}
	return nil
}

func (s *MongoMetadataStore) Get(ctx context.Context, documentID string) (models.DocumentMetadata, error) {
	var meta models.DocumentMetadata
	err := s.collection.FindOne(ctx, bson.M{"document_id": documentID}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return meta, &utils.NotFoundError{Resource: "document", ID: documentID}
	}
	if err != nil {
		return meta, &utils.IndexError{Op: "metadata_get", Err: err}
	}
	return meta, nil
}

func (s *MongoMetadataStore) Delete(ctx context.Context, documentID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return &utils.IndexError{Op: "metadata_delete", Err: err}
	}
	return nil
}

func (s *MongoMetadataStore) List(ctx context.Context) ([]models.DocumentMetadata, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, &utils.IndexError{Op: "metadata_list", Err: err}
	}
	defer cursor.Close(ctx)

	var metas []models.DocumentMetadata
	if err := cursor.All(ctx, &metas); err != nil {
		return nil, &utils.IndexError{Op: "metadata_list", Err: err}
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].DocumentID < metas[j].DocumentID })
	return metas, nil
}

// FileMetadataStore keeps one JSON sidecar file per document under a
// directory. It backs local deployments and tests.
type FileMetadataStore struct {
	dir string
}

func NewFileMetadataStore(dir string) (*FileMetadataStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileMetadataStore{dir: dir}, nil
}

func (s *FileMetadataStore) path(documentID string) string {
	return filepath.Join(s.dir, documentID+".json")
}

func (s *FileMetadataStore) Put(ctx context.Context, meta models.DocumentMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(meta.DocumentID), data, 0o644)
}

func (s *FileMetadataStore) Get(ctx context.Context, documentID string) (models.DocumentMetadata, error) {
	var meta models.DocumentMetadata
	data, err := os.ReadFile(s.path(documentID))
	if os.IsNotExist(err) {
		return meta, &utils.NotFoundError{Resource: "document", ID: documentID}
	}
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func (s *FileMetadataStore) Delete(ctx context.Context, documentID string) error {
	err := os.Remove(s.path(documentID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileMetadataStore) List(ctx context.Context) ([]models.DocumentMetadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var metas []models.DocumentMetadata
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var meta models.DocumentMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].DocumentID < metas[j].DocumentID })
	return metas, nil
}
