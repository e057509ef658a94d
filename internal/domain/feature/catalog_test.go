package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Feature{
		{ID: "a", Name: "A", Category: CategorySocialMedia},
		{ID: "a", Name: "A again", Category: CategoryCRM},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate feature id")
}

func TestNewCatalogRejectsEmptyID(t *testing.T) {
	_, err := NewCatalog([]Feature{{Name: "nameless", Category: CategoryCRM}})
	require.Error(t, err)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	cat := MustNewCatalog([]Feature{
		{ID: "c", Name: "C", Category: CategoryCRM},
		{ID: "a", Name: "A", Category: CategorySocialMedia},
		{ID: "b", Name: "B", Category: CategoryCRM},
	})

	got := cat.List()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
}

func TestByCategoryGroupsWithoutDuplication(t *testing.T) {
	cat := MustNewCatalog([]Feature{
		{ID: "c", Name: "C", Category: CategoryCRM},
		{ID: "a", Name: "A", Category: CategorySocialMedia},
		{ID: "b", Name: "B", Category: CategoryCRM},
	})

	grouped := cat.ByCategory()
	require.Len(t, grouped, 2)
	assert.Equal(t, []string{"c", "b"}, ids(grouped[CategoryCRM]))
	assert.Equal(t, []string{"a"}, ids(grouped[CategorySocialMedia]))

	total := 0
	for _, fs := range grouped {
		total += len(fs)
	}
	assert.Equal(t, cat.Len(), total, "each feature appears in exactly one category")
}

func TestCategoriesFollowFirstAppearance(t *testing.T) {
	cat := MustNewCatalog([]Feature{
		{ID: "c", Category: CategoryCRM},
		{ID: "a", Category: CategorySocialMedia},
		{ID: "b", Category: CategoryCRM},
	})
	assert.Equal(t, []Category{CategoryCRM, CategorySocialMedia}, cat.Categories())
}

func TestContainsAndGet(t *testing.T) {
	cat := DefaultCatalog()

	assert.True(t, cat.Contains("post_scheduling"))
	assert.False(t, cat.Contains("no_such_feature"))

	f, ok := cat.Get("bio_page")
	require.True(t, ok)
	assert.Equal(t, CategoryLinkInBio, f.Category)
	assert.True(t, f.Essential)

	_, ok = cat.Get("no_such_feature")
	assert.False(t, ok)
}

func TestEssentialIDsAreAdvisoryDefaults(t *testing.T) {
	cat := DefaultCatalog()
	essentials := cat.EssentialIDs()
	require.NotEmpty(t, essentials)
	for _, id := range essentials {
		f, ok := cat.Get(id)
		require.True(t, ok)
		assert.True(t, f.Essential)
	}
}

func TestDefaultCatalogIsWellFormed(t *testing.T) {
	cat := DefaultCatalog()
	assert.Greater(t, cat.Len(), 20)
	// Every category in the enum shows up in the deployed table.
	assert.Len(t, cat.Categories(), 7)
}

func ids(fs []Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}
