package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"org-knowledge-platform/models"
	"org-knowledge-platform/utils"
)

var (
	e1 = []float32{1, 0, 0}
	e2 = []float32{0, 1, 0}
	e3 = []float32{0, 0, 1}
)

func TestMemoryIndexAddRejectsWrongDimension(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "public", "HR", "ok", e1),
		entry("a_1", "a", 1, "public", "HR", "bad", []float32{1, 0}),
	})
	if !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Nothing from the failed batch is searchable.
	stats, _ := idx.Stats(context.Background())
	if stats.TotalChunks != 0 {
		t.Fatalf("failed batch left %d chunks behind", stats.TotalChunks)
	}
}

func TestMemoryIndexAddRejectsDuplicateIDs(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "public", "HR", "one", e1),
	}); err != nil {
		t.Fatal(err)
	}

	err := idx.Add(context.Background(), []models.IndexEntry{
		entry("b_0", "b", 0, "public", "HR", "two", e2),
		entry("a_0", "a", 0, "public", "HR", "again", e3),
	})
	if !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stats, _ := idx.Stats(context.Background())
	if stats.TotalChunks != 1 {
		t.Fatalf("expected only the first batch indexed, got %d chunks", stats.TotalChunks)
	}
}

func TestMemoryIndexSearchRankingAndThreshold(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "public", "HR", "aligned", e1),
		entry("b_0", "b", 0, "public", "HR", "orthogonal", e2),
		entry("c_0", "c", 0, "public", "HR", "opposed", []float32{-1, 0, 0}),
	}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(context.Background(), e1, 5, 0.7, nil)
	if err != nil {
		t.Fatal(err)
	}
	// aligned: similarity 1.0, orthogonal: 0.5, opposed: 0.0.
	if len(results) != 1 {
		t.Fatalf("expected 1 result above threshold, got %d", len(results))
	}
	if results[0].ID != "a_0" || results[0].Similarity != 1.0 {
		t.Errorf("unexpected top result %q sim=%v", results[0].ID, results[0].Similarity)
	}
}

func TestMemoryIndexSearchDeterministicTieBreak(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("b_1", "b", 1, "public", "HR", "tie", e1),
		entry("b_0", "b", 0, "public", "HR", "tie", e1),
		entry("a_1", "a", 1, "public", "HR", "tie", e1),
	}); err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 5; run++ {
		results, err := idx.Search(context.Background(), e1, 5, 0.0, nil)
		if err != nil {
			t.Fatal(err)
		}
		got := []string{results[0].ID, results[1].ID, results[2].ID}
		want := []string{"b_0", "a_1", "b_1"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("run %d: order %v, want %v", run, got, want)
			}
		}
	}
}

func TestMemoryIndexSearchFilterPushedIntoScan(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "confidential", "HR", "secret", e1),
		entry("b_0", "b", 0, "public", "HR", "open", e2),
	}); err != nil {
		t.Fatal(err)
	}

	// The public-only filter must not be starved by a higher-similarity
	// confidential chunk: filtering happens before ranking.
	filter := models.In{Field: "classification", Values: []string{"public"}}
	results, err := idx.Search(context.Background(), e1, 1, 0.0, filter)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "b_0" {
		t.Fatalf("expected only the public chunk, got %+v", results)
	}
}

func TestMemoryIndexSearchWrongDimensionQuery(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if _, err := idx.Search(context.Background(), []float32{1, 0}, 5, 0.0, nil); !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMemoryIndexDeleteByDocument(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "public", "HR", "one", e1),
		entry("a_1", "a", 1, "public", "HR", "two", e2),
		entry("b_0", "b", 0, "public", "IT", "three", e3),
	}); err != nil {
		t.Fatal(err)
	}

	deleted, err := idx.DeleteByDocument(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := idx.GetByDocument(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no chunks for deleted document, got %d", len(remaining))
	}

	// Deleting an absent document removes nothing and does not fail.
	deleted, err = idx.DeleteByDocument(context.Background(), "a")
	if err != nil || deleted != 0 {
		t.Errorf("second delete: deleted=%d err=%v", deleted, err)
	}
}

func TestMemoryIndexStats(t *testing.T) {
	idx := NewMemoryVectorIndex(3)
	if err := idx.Add(context.Background(), []models.IndexEntry{
		entry("a_0", "a", 0, "public", "HR", "one", e1),
		entry("a_1", "a", 1, "public", "HR", "two", e2),
		entry("b_0", "b", 0, "internal", "IT", "three", e3),
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := idx.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalChunks != 3 {
		t.Errorf("total = %d, want 3", stats.TotalChunks)
	}
	if stats.Departments["HR"] != 2 || stats.Departments["IT"] != 1 {
		t.Errorf("departments = %v", stats.Departments)
	}
	if stats.Languages["ar"] != 3 {
		t.Errorf("languages = %v", stats.Languages)
	}
}

func TestNormalizeVectorRejectsZero(t *testing.T) {
	if _, err := NormalizeVector([]float32{0, 0, 0}); !utils.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInsertedBeforeFailureScopesRollback(t *testing.T) {
	ids := []string{"a_0", "a_1", "a_2"}

	// A duplicate-key collision mid-batch: only the ids written before it
	// are in scope for cleanup, so the pre-existing chunk survives.
	dup := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{
			{WriteError: mongo.WriteError{Index: 1, Code: 11000, Message: "duplicate key"}},
		},
	}
	got := insertedBeforeFailure(ids, dup)
	if len(got) != 1 || got[0] != "a_0" {
		t.Errorf("inserted = %v, want only ids before the failed write", got)
	}

	// A collision on the first document means nothing was written.
	first := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{
			{WriteError: mongo.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}},
		},
	}
	if got := insertedBeforeFailure(ids, first); len(got) != 0 {
		t.Errorf("inserted = %v, want none after a first-document collision", got)
	}

	// Failures without write-error detail keep the full batch in scope.
	if got := insertedBeforeFailure(ids, errors.New("connection reset")); len(got) != 3 {
		t.Errorf("inserted = %v, want the full batch", got)
	}
}

func TestFilterToBSONVariants(t *testing.T) {
	got, err := filterToBSON(models.And{
		models.Eq{Field: "department", Value: "HR"},
		models.In{Field: "classification", Values: []string{"public", "internal"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	clauses, ok := got["$and"].([]bson.M)
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected two $and clauses, got %v", got)
	}
	if clauses[0]["metadata.department"] != "HR" {
		t.Errorf("eq clause = %v", clauses[0])
	}
	if _, ok := clauses[1]["metadata.classification"]; !ok {
		t.Errorf("in clause = %v", clauses[1])
	}

	// nil and empty filters match everything.
	for _, f := range []models.Filter{nil, models.And{}} {
		m, err := filterToBSON(f)
		if err != nil || len(m) != 0 {
			t.Errorf("filter %v lowered to %v (err %v)", f, m, err)
		}
	}
}
