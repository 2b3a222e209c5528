package dashboard

import (
	"errors"
	"html"
	"net/url"
	"strings"
)

const DefaultMaxInputLen = 1000

var ErrInvalidData = errors.New("invalid dashboard data format")

var stripper = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// SanitizeInput corta em max runas (padrão 1000) e remove < > " '.
func SanitizeInput(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxInputLen
	}
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return stripper.Replace(s)
}

func SanitizeHTML(s string) string {
	return html.EscapeString(s)
}

// ValidateURL aceita http, https e URLs relativas.
func ValidateURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "":
		return true
	default:
		return false
	}
}

// Validate sanitiza os campos de texto no lugar. Links com URL inválida
// passam a apontar para "#".
func Validate(d *Data, maxLen int) error {
	if d == nil || d.Dashboard == nil {
		return ErrInvalidData
	}
	db := d.Dashboard
	db.Title = SanitizeInput(db.Title, maxLen)
	db.Subtitle = SanitizeInput(db.Subtitle, maxLen)

	for i := range db.Cards {
		c := &db.Cards[i]
		c.Title = SanitizeInput(c.Title, maxLen)
		c.Description = SanitizeInput(c.Description, maxLen)
		if c.Links == nil {
			c.Links = []Link{}
		}
		for j := range c.Links {
			l := &c.Links[j]
			l.Text = SanitizeInput(l.Text, maxLen)
			if !ValidateURL(l.URL) {
				l.URL = "#"
			}
		}
	}
	return nil
}
