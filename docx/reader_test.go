package docx_test

import (
	"os"
	"path/filepath"
	"testing"

	godocx "github.com/fumiama/go-docx"
	"github.com/fwojciec/pagedrift"
	"github.com/fwojciec/pagedrift/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocx(t *testing.T, doc *godocx.Docx) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = doc.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func TestReader_ReadDocument(t *testing.T) {
	t.Parallel()

	t.Run("reads paragraph text and styles", func(t *testing.T) {
		t.Parallel()

		doc := godocx.New()
		doc.AddParagraph().Style("Heading1").AddText("Welcome")
		linked := doc.AddParagraph()
		linked.AddText("Visit ")
		linked.AddLink("our shop", "https://example.com/shop")
		linked.AddText(" today.")
		doc.AddParagraph().AddText("Name\tValue")
		doc.AddParagraph().AddText("Line one\nLine two")
		doc.AddParagraph()
		doc.AddTable(1, 1, 0, nil).TableRows[0].TableCells[0].AddParagraph().AddText("Cell text")
		doc.AddParagraph().Style("Heading2").AddText("Contact")

		got, err := docx.NewReader().ReadDocument(writeDocx(t, doc))

		require.NoError(t, err)
		assert.Equal(t, []pagedrift.Paragraph{
			{Text: "Welcome", Style: "Heading1"},
			{Text: "Visit our shop today."},
			{Text: "Name Value"},
			{Text: "Line one Line two"},
			{Text: ""},
			{Text: "Contact", Style: "Heading2"},
		}, got)
		assert.Equal(t,
			"<h1>Welcome</h1>\n\nVisit our shop today.\n\nName Value\n\nLine one Line two\n\n<h2>Contact</h2>",
			pagedrift.DocumentText(got))
	})

	t.Run("reads hyperlink text stored in runs", func(t *testing.T) {
		t.Parallel()

		doc := godocx.New()
		para := doc.AddParagraph()
		para.AddText("Read ")
		para.Children = append(para.Children, &godocx.Hyperlink{
			Run: godocx.Run{Children: []interface{}{&godocx.Text{Text: "our terms"}}},
		})
		para.AddText(" first.")

		got, err := docx.NewReader().ReadDocument(writeDocx(t, doc))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Read our terms first.", got[0].Text)
	})

	t.Run("returns EDOCREAD for missing files", func(t *testing.T) {
		t.Parallel()

		_, err := docx.NewReader().ReadDocument(filepath.Join(t.TempDir(), "missing.docx"))

		require.Error(t, err)
		assert.Equal(t, pagedrift.EDOCREAD, pagedrift.ErrorCode(err))
	})

	t.Run("returns EDOCREAD for corrupt files", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "corrupt.docx")
		require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o644))

		_, err := docx.NewReader().ReadDocument(path)

		require.Error(t, err)
		assert.Equal(t, pagedrift.EDOCREAD, pagedrift.ErrorCode(err))
		assert.Contains(t, pagedrift.ErrorMessage(err), "corrupt.docx")
	})
}
