package topics

// Renderer turns raw topic content into what is printed
type Renderer interface {
	// Render formats content; ext is the topic file extension, e.g. ".md"
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
