package concierge

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
)

const galleryHTML = `<div style="display: flex; flex-wrap: wrap; gap: 10px;">
{{- range .}}
  <div style="border: 1px solid #ddd; border-radius: 8px; padding: 10px; width: 180px; text-align: center;">
    <img src="{{.ImageURL}}" style="width: 100%; height: 120px; object-fit: cover; border-radius: 4px;">
    <h4 style="margin: 5px 0; font-size: 14px;">{{.Name}}</h4>
    <p style="margin: 5px 0; font-size: 12px; color: #555;">${{price .Price}} | {{.SKU}}</p>
  </div>
{{- end}}
</div>`

var galleryTemplate = template.Must(template.New("gallery").
	Funcs(template.FuncMap{"price": formatPrice}).
	Parse(galleryHTML))

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// RenderGallery renders products as a side-by-side tile gallery.
func RenderGallery(products []catalogclient.Product) (string, error) {
	var buf bytes.Buffer
	if err := galleryTemplate.Execute(&buf, products); err != nil {
		return "", fmt.Errorf("render gallery: %w", err)
	}
	return buf.String(), nil
}
