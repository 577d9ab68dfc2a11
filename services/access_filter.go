package services

import (
	"strings"

	"org-knowledge-platform/models"
)

// RoleClassifications maps a caller role to the classification tiers it may
// read. Unknown or empty roles fall back to public only.
func RoleClassifications(role string) []string {
	switch strings.ToLower(role) {
	case "admin", "manager":
		return []string{
			models.ClassificationPublic,
			models.ClassificationInternal,
			models.ClassificationConfidential,
		}
	case "employee", "staff":
		return []string{
			models.ClassificationPublic,
			models.ClassificationInternal,
		}
	default:
		return []string{models.ClassificationPublic}
	}
}

// BuildAccessFilter returns the classification filter for a role, optionally
// scoped to a department. The filter is combined with any caller-supplied
// filter by the orchestrator and pushed into the index scan, never applied
// afterwards.
func BuildAccessFilter(role, department string) models.Filter {
	classFilter := models.In{Field: "classification", Values: RoleClassifications(role)}
	if department == "" {
		return classFilter
	}
	return models.And{
		classFilter,
		models.Eq{Field: "department", Value: department},
	}
}
