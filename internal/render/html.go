package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var mapPage = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/deck.gl@8.9.35/dist.min.js"></script>
<style>
  body { margin: 0; font-family: sans-serif; }
  #map { position: absolute; top: 0; bottom: 0; width: 100%; height: {{.Height}}px; }
</style>
</head>
<body>
<div id="map"></div>
<script>
  const layout = {{.Deck}};
  const converter = new deck.JSONConverter({configuration: {classes: deck}});
  const props = converter.convert(layout);
  new deck.DeckGL({
    container: "map",
    initialViewState: props.initialViewState,
    controller: true,
    layers: props.layers,
    getTooltip: ({object}) => object && layout.tooltip.text.replace(/\{([^}]+)\}/g, (_, k) => object[k] ?? ""),
  });
</script>
</body>
</html>
`))

// HTMLMap renders a standalone page that draws the deck with deck.gl.
func HTMLMap(title string, deckJSON []byte, height int) ([]byte, error) {
	if height <= 0 {
		height = 500
	}
	var buf bytes.Buffer
	err := mapPage.Execute(&buf, struct {
		Title  string
		Height int
		Deck   template.JS
	}{Title: title, Height: height, Deck: template.JS(deckJSON)})
	if err != nil {
		return nil, fmt.Errorf("render map page: %w", err)
	}
	return buf.Bytes(), nil
}
