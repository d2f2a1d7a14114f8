package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockStatusToggle(t *testing.T) {
	assert.Equal(t, LockStatusOpen, LockStatusClosed.Toggle())
	assert.Equal(t, LockStatusClosed, LockStatusOpen.Toggle())
	assert.Equal(t, LockStatusClosed, LockStatus("jammed").Toggle())
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, DoorStatusMaintenance.IsValid())
	assert.False(t, DoorStatus("broken").IsValid())
	assert.True(t, DoorRequestApproved.IsTerminal())
	assert.False(t, DoorRequestPending.IsTerminal())
	assert.False(t, BuildingStatus("").IsValid())
}

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleAdmin.Satisfies(RoleOperator))
	assert.True(t, RoleOperator.Satisfies(RoleOperator))
	assert.False(t, RoleViewer.Satisfies(RoleOperator))
	assert.False(t, Role("guest").Satisfies(Role("guest")))
}

func TestPaginationNormalize(t *testing.T) {
	q := PaginationQuery{Page: 0, PageSize: 500, SortBy: "name; DROP TABLE doors", SortOrder: "ASC"}
	q.Normalize(map[string]string{"name": "doors.name"}, "doors.created_at")

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "doors.created_at asc", q.OrderClause())

	q = PaginationQuery{Page: 3, PageSize: 20, SortBy: "name"}
	q.Normalize(map[string]string{"name": "doors.name"}, "doors.created_at")
	assert.Equal(t, 40, q.Offset())
	assert.Equal(t, "doors.name desc", q.OrderClause())

	result := NewPaginatedResult([]int{}, 41, q)
	assert.Equal(t, int64(3), result.TotalPages)
}
