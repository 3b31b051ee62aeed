// Package yaml loads pair manifests with gopkg.in/yaml.v3.
//
// A manifest lists the drafts to compare and where they are published:
//
//	output: reports
//	pairs:
//	  - draft: drafts/home.docx
//	    url: https://example.com/
//	  - draft: drafts/about.md
//	    url: https://example.com/about
//
// Relative paths are resolved against the manifest's directory.
package yaml

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagedrift"
	yaml "gopkg.in/yaml.v3"
)

// Manifest is a batch of pairs with an optional output directory.
type Manifest struct {
	Output string
	Pairs  []pagedrift.Pair
}

type fileManifest struct {
	Output string `yaml:"output"`
	Pairs  []struct {
		Draft string `yaml:"draft"`
		URL   string `yaml:"url"`
	} `yaml:"pairs"`
}

// Load reads and validates the manifest at path.
// Unknown keys, empty pair lists and invalid pairs return EINVALID.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pagedrift.Errorf(pagedrift.ENOTFOUND, "manifest not found: %s", path)
		}
		return nil, pagedrift.Errorf(pagedrift.EIO, "reading manifest %s: %v", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes manifest data, resolving relative paths against baseDir.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fm fileManifest
	if err := dec.Decode(&fm); err != nil {
		return nil, pagedrift.Errorf(pagedrift.EINVALID, "parsing manifest: %v", err)
	}
	if len(fm.Pairs) == 0 {
		return nil, pagedrift.Errorf(pagedrift.EINVALID, "manifest has no pairs")
	}

	m := &Manifest{Output: resolve(baseDir, fm.Output)}
	for i, p := range fm.Pairs {
		pair := pagedrift.Pair{Draft: p.Draft, URL: p.URL}
		if err := pair.Validate(); err != nil {
			return nil, pagedrift.Errorf(pagedrift.EINVALID, "pair %d: %s", i+1, pagedrift.ErrorMessage(err))
		}
		pair.Draft = resolve(baseDir, pair.Draft)
		m.Pairs = append(m.Pairs, pair)
	}
	return m, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
