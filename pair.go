package pagedrift

import "net/url"

// Pair is one draft document to compare with one live webpage.
type Pair struct {
	Draft string // path to the draft document
	URL   string
}

// Validate returns an error if the pair contains invalid fields.
func (p *Pair) Validate() error {
	if p.Draft == "" {
		return Errorf(EINVALID, "pair draft path required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "pair URL required")
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "pair URL must be an absolute http(s) URL: %q", p.URL)
	}
	return nil
}
