package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendIndexAction_ValidDuplicateAlwaysWins(t *testing.T) {
	// A valid duplicate outranks everything, even a broken primary key.
	action := RecommendIndexAction(IndexFinding{
		HasValidDuplicate: true,
		IsPK:              true,
		TableRowEstimate:  100,
	})

	assert.Equal(t, ActionDrop, action)
}

func TestRecommendIndexAction_PrimaryKeyIsRecreated(t *testing.T) {
	action := RecommendIndexAction(IndexFinding{
		IsPK:             true,
		TableRowEstimate: 1_000_000,
	})

	assert.Equal(t, ActionRecreate, action)
}

func TestRecommendIndexAction_UniqueIsRecreated(t *testing.T) {
	action := RecommendIndexAction(IndexFinding{
		IsUnique:         true,
		TableRowEstimate: 1_000_000,
	})

	assert.Equal(t, ActionRecreate, action)
}

func TestRecommendIndexAction_SmallTableIsRecreated(t *testing.T) {
	action := RecommendIndexAction(IndexFinding{TableRowEstimate: 9999})

	assert.Equal(t, ActionRecreate, action)
}

func TestRecommendIndexAction_EmptyTableIsRecreated(t *testing.T) {
	action := RecommendIndexAction(IndexFinding{TableRowEstimate: 0})

	assert.Equal(t, ActionRecreate, action)
}

func TestRecommendIndexAction_LargeTableIsUncertain(t *testing.T) {
	// Exactly at the threshold the rebuild is no longer assumed cheap.
	action := RecommendIndexAction(IndexFinding{TableRowEstimate: 10000})

	assert.Equal(t, ActionUncertain, action)
}
