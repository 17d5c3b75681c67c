// Package plugin describes the client-side half of the plot box: the render
// function the UI framework runs for boxes tagged with this plugin's mode.
package plugin

import "github.com/koios/plotbox/pkg/models"

const (
	// Name is the namespace clients resolve plot box modes against
	Name = "matplotlib"
	// RenderFunc is the exported client function that draws a plot box
	RenderFunc = "render"
	// DataURIPrefix is prepended to the base64 payload to build the image source
	DataURIPrefix = "data:image/png;base64,"
)

// renderJS exports render(), invoked by the client dispatcher with the box data.
const renderJS = `exports.render = (context, element, data) => {
    const img = document.createElement('img');
    img.src = '` + DataURIPrefix + `' + data.png;
    element.replaceChildren(img);
};
`

// Mode returns the box mode tag handled by the plugin's render function
func Mode() string {
	return models.FormatMode(Name, RenderFunc)
}

// Plugin returns the plugin descriptor to register with the UI framework
func Plugin() *models.Plugin {
	return &models.Plugin{
		Name: Name,
		Scripts: []models.Script{
			{Source: renderJS, Type: models.ScriptInline},
		},
	}
}
