package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// Property names read from a row, compared case-insensitively. The text comes
// from the title column whatever its name.
const (
	PropDate  = "date"
	PropImage = "image"
	PropSeen  = "seen"
)

// PageToRecord converts a database row. Rows without text yield nil.
func PageToRecord(page *notionapi.Page) *model.SeedRecord {
	if page == nil {
		return nil
	}

	rec := &model.SeedRecord{
		ID: model.MemoryID("notion-" + page.ID.String()),
	}
	if created := time.Time(page.CreatedTime); !created.IsZero() {
		rec.DateAdded = created.UnixMilli()
	}

	for name, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			rec.Text = plainText(p.Title)
		case *notionapi.DateProperty:
			if strings.EqualFold(name, PropDate) && p.Date != nil && p.Date.Start != nil {
				rec.Date = time.Time(*p.Date.Start).Format(model.DateLayout)
			}
		case *notionapi.URLProperty:
			if strings.EqualFold(name, PropImage) {
				rec.ImageURL = p.URL
			}
		case *notionapi.FilesProperty:
			if strings.EqualFold(name, PropImage) {
				rec.ImageURL = firstFileURL(p.Files)
			}
		case *notionapi.CheckboxProperty:
			if strings.EqualFold(name, PropSeen) {
				rec.Seen = p.Checkbox
			}
		}
	}

	if strings.TrimSpace(rec.Text) == "" {
		return nil
	}
	return rec
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func firstFileURL(files []notionapi.File) string {
	for _, f := range files {
		if f.External != nil && f.External.URL != "" {
			return f.External.URL
		}
		if f.File != nil && f.File.URL != "" {
			return f.File.URL
		}
	}
	return ""
}
