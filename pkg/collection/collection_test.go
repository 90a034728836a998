package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/sahyog/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6}, got)

	assert.NotNil(t, collection.Map(nil, func(n int) int { return n }))
}

func TestFilterAndFirst(t *testing.T) {
	evens := collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, evens)

	v, ok := collection.First([]int{1, 2, 3}, func(n int) bool { return n > 1 })
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = collection.First([]int{1}, func(n int) bool { return n > 5 })
	assert.False(t, ok)
}

func TestSum(t *testing.T) {
	type d struct{ amount float64 }
	total := collection.Sum([]d{{100}, {250.5}, {0}}, func(v d) float64 { return v.amount })
	assert.Equal(t, 350.5, total)

	assert.Zero(t, collection.Sum(nil, func(v d) float64 { return v.amount }))
}

func TestKeyBy(t *testing.T) {
	type u struct {
		id   string
		name string
	}
	m := collection.KeyBy([]u{{"a", "first"}, {"b", "second"}, {"a", "wins"}}, func(v u) string { return v.id })
	assert.Len(t, m, 2)
	assert.Equal(t, "wins", m["a"].name)
}
