package gcode

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a custom genetic code.
//
//	id: 101
//	name: Reduced stops
//	base: 11
//	starts: [ATG]
//	alt_starts: [GTG, TTG]
//	stops: [TAA, TAG]
type tableFile struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	Base      int      `yaml:"base"`
	Starts    []string `yaml:"starts"`
	AltStarts []string `yaml:"alt_starts"`
	Stops     []string `yaml:"stops"`
}

// LoadYAML reads one custom table from r. Codon classes are taken from the
// file only; base (default 1) supplies the amino acid line.
func LoadYAML(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("genetic code yaml: %w", err)
	}
	if f.Base == 0 {
		f.Base = 1
	}
	base, err := Lookup(f.Base)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		f.Name = fmt.Sprintf("Custom (%d)", f.ID)
	}
	return FromCodons(f.ID, f.Name, base, f.Starts, f.AltStarts, f.Stops)
}

// LoadYAMLFile is LoadYAML over a path.
func LoadYAMLFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	t, err := LoadYAML(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
