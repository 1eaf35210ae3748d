package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ticket struct {
	UID   string
	Name  string
	Count int
}

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()
	sut, cleanup, err := NewInMemoryStore[ticket](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get non-existing", func(t *testing.T) {
		_, exists, err := sut.Get(c, "unknown")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Put and get", func(t *testing.T) {
		err := sut.Put(c, "1", ticket{UID: "1", Name: "floor", Count: 2})
		assert.NoError(t, err)

		got, exists, err := sut.Get(c, "1")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "floor", got.Name)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("Delete", func(t *testing.T) {
		err := sut.Put(c, "2", ticket{UID: "2", Name: "vip"})
		assert.NoError(t, err)

		err = sut.Delete(c, "2")
		assert.NoError(t, err)

		_, exists, err := sut.Get(c, "2")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Modify within transaction", func(t *testing.T) {
		err := sut.RunInTransaction(c, func(c context.Context) error {
			got, exists, err := sut.Get(c, "1")
			assert.NoError(t, err)
			assert.True(t, exists)

			got.Count++
			return sut.Put(c, "1", got)
		})
		assert.NoError(t, err)

		got, _, _ := sut.Get(c, "1")
		assert.Equal(t, 3, got.Count)
	})

	t.Run("Failing transaction rolls back nothing else", func(t *testing.T) {
		err := sut.RunInTransaction(c, func(c context.Context) error {
			return fmt.Errorf("boom")
		})
		assert.Error(t, err)
	})

	t.Run("List", func(t *testing.T) {
		all, err := sut.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
