package mdast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectFixture() *Node {
	return NewRoot(
		HeadingText(1, "Title"),
		Paragraph(Text("plain "), Emphasis(Text("soft")), Text(" words")),
		HeadingText(2, "Setup"),
		Code("yaml", "", "a: 1"),
		Code("bash", "install --dep fetch", "make install"),
		List(
			ListItem(Paragraph(Text("TODO write docs"))),
			ListItem(Paragraph(Text("done"))),
		),
	)
}

func TestSelect_ByType(t *testing.T) {
	t.Parallel()
	root := selectFixture()

	got, err := Select(root, "emphasis")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeEmphasis, got[0].Type)

	headings, err := Select(root, "heading")
	require.NoError(t, err)
	assert.Len(t, headings, 2)
}

func TestSelect_Attributes(t *testing.T) {
	t.Parallel()
	root := selectFixture()

	got, err := Select(root, `heading[depth="2"]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Setup", ToString(got[0]))

	yaml, err := Select(root, `code[lang="yaml"]`)
	require.NoError(t, err)
	require.Len(t, yaml, 1)
	assert.Equal(t, "a: 1", yaml[0].Value)

	byIdentity, err := Select(root, `code[identity="install"]`)
	require.NoError(t, err)
	require.Len(t, byIdentity, 1)
	assert.Equal(t, "bash", byIdentity[0].Lang)
}

func TestSelect_CamelCaseTypesAndContains(t *testing.T) {
	t.Parallel()
	root := selectFixture()

	items, err := Select(root, "listItem")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	todo, err := Select(root, `listItem:contains("TODO")`)
	require.NoError(t, err)
	require.Len(t, todo, 1)
	assert.Equal(t, "TODO write docs", ToString(todo[0]))
}

func TestSelect_DocumentOrderAndRootExcluded(t *testing.T) {
	t.Parallel()
	root := selectFixture()

	got, err := Select(root, "heading, code")
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}

	none, err := Select(root, "root")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSelect_NoMatches(t *testing.T) {
	t.Parallel()
	got, err := Select(selectFixture(), "table")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelect_InvalidSelector(t *testing.T) {
	t.Parallel()
	_, err := Select(selectFixture(), "heading[")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelector))
}

func TestSelect_IndexCachedOnRoot(t *testing.T) {
	t.Parallel()
	root := selectFixture()
	_, err := Select(root, "heading")
	require.NoError(t, err)

	first, ok := root.Data(selectIndexKey)
	require.True(t, ok)

	_, err = Select(root, "code")
	require.NoError(t, err)
	second, _ := root.Data(selectIndexKey)
	assert.Same(t, first.(*selectIndex), second.(*selectIndex))
}
