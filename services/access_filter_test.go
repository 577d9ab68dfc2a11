package services

import (
	"testing"

	"org-knowledge-platform/models"
)

func TestRoleClassifications(t *testing.T) {
	tests := []struct {
		role string
		want []string
	}{
		{"admin", []string{"public", "internal", "confidential"}},
		{"manager", []string{"public", "internal", "confidential"}},
		{"Manager", []string{"public", "internal", "confidential"}},
		{"employee", []string{"public", "internal"}},
		{"staff", []string{"public", "internal"}},
		{"contractor", []string{"public"}},
		{"", []string{"public"}},
	}

	for _, tt := range tests {
		got := RoleClassifications(tt.role)
		if len(got) != len(tt.want) {
			t.Errorf("RoleClassifications(%q) = %v, want %v", tt.role, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("RoleClassifications(%q) = %v, want %v", tt.role, got, tt.want)
				break
			}
		}
	}
}

func TestBuildAccessFilterFailsClosed(t *testing.T) {
	filter := BuildAccessFilter("unknown-role", "")

	confidential := models.ChunkMetadata{Classification: models.ClassificationConfidential}
	internal := models.ChunkMetadata{Classification: models.ClassificationInternal}
	public := models.ChunkMetadata{Classification: models.ClassificationPublic}

	if filter.Matches(confidential) || filter.Matches(internal) {
		t.Error("unknown role must only see public chunks")
	}
	if !filter.Matches(public) {
		t.Error("unknown role must still see public chunks")
	}
}

func TestBuildAccessFilterWithDepartment(t *testing.T) {
	filter := BuildAccessFilter("employee", "HR")

	hrInternal := models.ChunkMetadata{Classification: "internal", Department: "HR"}
	itInternal := models.ChunkMetadata{Classification: "internal", Department: "IT"}
	hrConfidential := models.ChunkMetadata{Classification: "confidential", Department: "HR"}

	if !filter.Matches(hrInternal) {
		t.Error("employee should see internal HR chunks")
	}
	if filter.Matches(itInternal) {
		t.Error("department scope must exclude other departments")
	}
	if filter.Matches(hrConfidential) {
		t.Error("employee must not see confidential chunks")
	}
}
