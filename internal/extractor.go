package internal

// Source reads one candidate value from a request. An empty string counts
// as absent.
type Source func(c Context) string

// Extractor returns the first non-empty value among its sources.
type Extractor []Source

// NewExtractor returns an Extractor over sources, tried in order.
func NewExtractor(sources ...Source) Extractor {
	return Extractor(sources)
}

// Extract reports the first non-empty value and whether one was found.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e {
		if v := src(c); v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads a request header.
func FromHeader(name string) Source {
	return func(c Context) string { return c.Header(name) }
}

// FromQuery reads a query string parameter.
func FromQuery(name string) Source {
	return func(c Context) string { return c.Query(name) }
}
