package model

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	imgurDomain      = "imgur.com"
	imgurDirectHost  = "i.imgur.com"
	imgurDefaultExt  = ".jpg"
	imgurGalleryWord = "gallery"
	imgurAlbumWord   = "a"
)

var imageExtPattern = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png|webp)$`)

// NormalizeImageURL rewrites an imgur page link such as
// https://imgur.com/abC123 to its direct image form
// https://i.imgur.com/abC123.jpg. Links that already point at an image file,
// album or gallery links and links to other hosts are returned trimmed but
// otherwise unchanged.
func NormalizeImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	target := trimmed
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil || !strings.Contains(strings.ToLower(u.Host), imgurDomain) {
		return trimmed
	}

	path := strings.TrimSuffix(u.Path, "/")
	if imageExtPattern.MatchString(path) {
		return trimmed
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" || isImgurCollectionWord(id) || isImgurCollectionWord(segments[0]) {
		return trimmed
	}

	return "https://" + imgurDirectHost + "/" + id + imgurDefaultExt
}

func isImgurCollectionWord(s string) bool {
	return s == imgurGalleryWord || s == imgurAlbumWord
}
