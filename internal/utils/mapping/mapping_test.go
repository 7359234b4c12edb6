package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/models"
	"github.com/SscSPs/taskboard_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMapping_BudgetAndArchive(t *testing.T) {
	archived := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	m := models.Project{ProjectID: "p1", Name: "Site", Budget: decimal.NewNullDecimal(decimal.RequireFromString("1250.50")), ArchivedAt: &archived}
	d := mapping.ToDomainProject(m)
	require.NotNil(t, d.Budget)
	assert.True(t, d.Budget.Equal(decimal.RequireFromString("1250.5")))
	assert.True(t, d.State.IsArchived())

	back := mapping.ToModelProject(d)
	assert.True(t, back.Budget.Valid)
	assert.Equal(t, archived, *back.ArchivedAt)

	noBudget := mapping.ToDomainProject(models.Project{ProjectID: "p2"})
	assert.Nil(t, noBudget.Budget)
	assert.True(t, noBudget.State.IsActive())
	assert.False(t, mapping.ToModelProject(noBudget).Budget.Valid)
}

func TestTaskMapping_NullableColumns(t *testing.T) {
	group := "g1"
	m := models.Task{TaskID: "t1", ProjectID: "p1", GroupID: &group, Priority: "high", OrderColumn: 4}

	d := mapping.ToDomainTask(m)
	assert.Equal(t, domain.PriorityHigh, d.Priority)
	assert.Equal(t, &group, d.GroupID)
	assert.True(t, d.IsUnassigned())
	assert.True(t, d.State.IsActive())
	assert.Nil(t, mapping.ToModelTask(d).ArchivedAt)
}

func TestTaskGroupMapping_Type(t *testing.T) {
	d := mapping.ToDomainTaskGroup(models.TaskGroup{GroupID: "g1", Name: "Complete", GroupType: "system", Position: 3})
	assert.True(t, d.IsSystem())
	assert.True(t, d.IsCompletionGroup())
	assert.Equal(t, "system", mapping.ToModelTaskGroup(d).GroupType)
}
