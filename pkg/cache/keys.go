package cache

// Keyer derives cache keys for loaded documents.
type Keyer interface {
	// PageKey is the key of the raw HTML fetched from url.
	PageKey(url string) string
	// DOMKey is the key of the DOM captured from url by a browser.
	DOMKey(url string) string
}

// DefaultKeyer hashes URLs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PageKey(url string) string { return hashKey("page", url) }
func (DefaultKeyer) DOMKey(url string) string  { return hashKey("dom", url) }

// KeyType returns the prefix of a key produced by DefaultKeyer, used to
// label cache hook events.
func KeyType(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return "unknown"
}
