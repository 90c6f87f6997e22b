package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRecentSearches(t *testing.T) {
	ctx := t.Context()

	t.Run("MostRecentFirstWithoutDuplicates", func(t *testing.T) {
		r := NewRecentSearches(ctx, nil, 3)
		for _, term := range []string{"a", "b", "a", " c ", "", "d"} {
			r.Record(ctx, term)
		}
		assert.Equal(t, []string{"d", "c", "a"}, r.List())
	})

	t.Run("LoadsAndSaves", func(t *testing.T) {
		storage := new(MockRecentStorage)
		storage.On("LoadRecent", mock.Anything).Return([]string{"x", "x", "y"}, nil).Once()
		storage.On("SaveRecent", mock.Anything, []string{"z", "x", "y"}).Return(nil).Once()

		r := NewRecentSearches(ctx, storage, 0)
		assert.Equal(t, []string{"x", "y"}, r.List())

		r.Record(ctx, "z")
		assert.Equal(t, []string{"z", "x", "y"}, r.List())
		storage.AssertExpectations(t)
	})

	t.Run("StorageErrorsAreNotFatal", func(t *testing.T) {
		storage := new(MockRecentStorage)
		storage.On("LoadRecent", mock.Anything).Return(nil, errors.New("corrupt")).Once()
		storage.On("SaveRecent", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		r := NewRecentSearches(ctx, storage, 2)
		assert.Empty(t, r.List())

		r.Record(ctx, "q")
		assert.Equal(t, []string{"q"}, r.List())
		storage.AssertExpectations(t)
	})

	t.Run("ListIsACopy", func(t *testing.T) {
		r := NewRecentSearches(ctx, nil, 0)
		r.Record(ctx, "a")
		l := r.List()
		l[0] = "b"
		assert.Equal(t, []string{"a"}, r.List())
	})
}
