package pages

import (
	"finitefield.org/inertia-web/internal/web/templates/layouts"
)

// Inertia component names.
const (
	ComponentHome     = "Home"
	ComponentAbout    = "About"
	ComponentNotFound = "NotFound"
)

const (
	// HomeTitle is the document title of the landing page.
	HomeTitle     = "Phoenix Inertia Template"
	notFoundTitle = "Page not found"
)

// Image is a static image referenced by path.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// HomeImages lists the logos shown on the landing page.
var HomeImages = []Image{
	{Src: "/static/images/phoenix.png", Alt: "phoenix logo"},
	{Src: "/static/images/inertia.png", Alt: "inertia.js logo"},
	{Src: "/static/images/react.png", Alt: "react logo"},
}

// HomeMetadata is the head metadata of the landing page.
func HomeMetadata() layouts.Metadata {
	return layouts.Metadata{Title: HomeTitle}
}

// ArticleMetadata is the head metadata of a markdown document.
func ArticleMetadata(doc Document) layouts.Metadata {
	return layouts.Metadata{Title: doc.Title, Description: doc.Description}
}

// NotFoundMetadata is the head metadata of the 404 page.
func NotFoundMetadata() layouts.Metadata {
	return layouts.Metadata{Title: notFoundTitle}
}
