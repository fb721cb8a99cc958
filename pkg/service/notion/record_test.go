package notion_test

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/service/notion"
)

func TestNew(t *testing.T) {
	_, err := notion.New("")
	gt.Value(t, err).NotNil()

	c, err := notion.New("secret_token")
	gt.NoError(t, err)
	gt.Value(t, c).NotNil()
}

func TestPageToRecord(t *testing.T) {
	start := notionapi.Date(time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC))

	t.Run("full row", func(t *testing.T) {
		page := &notionapi.Page{
			ID: notionapi.ObjectID("page-1"),
			Properties: notionapi.Properties{
				"Memory": &notionapi.TitleProperty{
					Title: []notionapi.RichText{{PlainText: "Our first "}, {PlainText: "picnic"}},
				},
				"Date":  &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}},
				"Image": &notionapi.URLProperty{URL: "https://imgur.com/abc123"},
				"Seen":  &notionapi.CheckboxProperty{Checkbox: true},
			},
		}

		rec := notion.PageToRecord(page)
		gt.Value(t, rec).NotNil().Required()
		gt.Value(t, rec.ID).Equal(model.MemoryID("notion-page-1"))
		gt.Value(t, rec.Text).Equal("Our first picnic")
		gt.Value(t, rec.Date).Equal("2024-05-25")
		gt.Value(t, rec.ImageURL).Equal("https://imgur.com/abc123")
		gt.Bool(t, rec.Seen).True()
		gt.Value(t, rec.DateAdded).Equal(int64(0))
	})

	t.Run("image from files", func(t *testing.T) {
		page := &notionapi.Page{
			ID: notionapi.ObjectID("page-2"),
			Properties: notionapi.Properties{
				"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Beach"}}},
				"image": &notionapi.FilesProperty{Files: []notionapi.File{
					{Name: "empty"},
					{Name: "photo", External: &notionapi.FileObject{URL: "https://example.com/beach.png"}},
				}},
			},
		}

		rec := notion.PageToRecord(page)
		gt.Value(t, rec).NotNil().Required()
		gt.Value(t, rec.ImageURL).Equal("https://example.com/beach.png")
		gt.Value(t, rec.Date).Equal("")
		gt.Bool(t, rec.Seen).False()
	})

	t.Run("row without text is skipped", func(t *testing.T) {
		page := &notionapi.Page{
			ID: notionapi.ObjectID("page-3"),
			Properties: notionapi.Properties{
				"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "   "}}},
			},
		}
		gt.Value(t, notion.PageToRecord(page)).Nil()
	})

	t.Run("nil page", func(t *testing.T) {
		gt.Value(t, notion.PageToRecord(nil)).Nil()
	})
}
