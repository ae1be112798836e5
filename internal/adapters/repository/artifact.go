package repository

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/okian/homespark/internal/domain/catalog"
)

// Artifact is the on-disk JSON shape of a catalog. Unknown fields, such as
// a serialized training model, are ignored on decode.
type Artifact struct {
	Metadata     catalog.Metadata    `json:"metadata"`
	Vocabularies map[string][]string `json:"vocabularies,omitempty"`
	Items        []catalog.RawItem   `json:"items"`
}

// Catalog validates the artifact and builds the catalog. Missing
// vocabularies are derived from the items.
func (a Artifact) Catalog() (*catalog.Catalog, error) {
	vocabs := make(map[catalog.Dimension]*catalog.Vocabulary, len(a.Vocabularies))
	for key, values := range a.Vocabularies {
		d, ok := catalog.ParseDimension(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown vocabulary %q", ErrMalformedArtifact, key)
		}
		vocabs[d] = catalog.NewVocabulary(values)
	}
	cat, err := catalog.New(a.Metadata, vocabs, a.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	return cat, nil
}

// ArtifactOf is the inverse of Artifact.Catalog.
func ArtifactOf(cat *catalog.Catalog) Artifact {
	a := Artifact{
		Metadata:     cat.Metadata(),
		Vocabularies: make(map[string][]string, len(catalog.Dimensions)),
		Items:        make([]catalog.RawItem, 0, cat.Len()),
	}
	for _, d := range catalog.Dimensions {
		a.Vocabularies[d.String()] = cat.Vocabulary(d).Values()
	}
	for _, it := range cat.Items() {
		a.Items = append(a.Items, it.Raw())
	}
	return a
}

// DecodeArtifact reads a JSON artifact and builds its catalog.
func DecodeArtifact(r io.Reader) (*catalog.Catalog, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	return a.Catalog()
}

// EncodeArtifact writes cat as indented JSON.
func EncodeArtifact(w io.Writer, cat *catalog.Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ArtifactOf(cat))
}

// WriteArtifact writes cat to path, creating parent directories.
func WriteArtifact(path string, cat *catalog.Catalog) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // operator-supplied output path
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := EncodeArtifact(w, cat); err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return w.Flush()
}

// FileSource loads a JSON artifact from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the artifact.
func (s *FileSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog artifact: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeArtifact(bufio.NewReader(f))
}

// Kind returns "json".
func (s *FileSource) Kind() string { return KindJSON }
