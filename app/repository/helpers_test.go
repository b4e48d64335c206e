package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	whitelist := map[string]string{
		"createdAt":   "created_at",
		"submittedAt": "submitted_at",
	}

	clause := orderClause(whitelist, ListOptions{SortBy: "submittedAt", SortOrder: "asc"}, "created_at")
	assert.Equal(t, "submitted_at ASC", clause)

	clause = orderClause(whitelist, ListOptions{SortBy: "createdAt", SortOrder: "DESC"}, "created_at")
	assert.Equal(t, "created_at DESC", clause)
}

func TestOrderClause_RejectsUnknownInput(t *testing.T) {
	whitelist := map[string]string{"createdAt": "created_at"}

	// Injection attempts fall back to the default column and DESC.
	clause := orderClause(whitelist, ListOptions{SortBy: "created_at; DROP TABLE users", SortOrder: "asc; --"}, "created_at")
	assert.Equal(t, "created_at DESC", clause)
}
