package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/minhlq/curmap/pkg/dataset"
)

// Marshal converts a dataset to indented JSON bytes.
func Marshal(ds *dataset.Dataset) ([]byte, error) {
	return json.MarshalIndent(FromDataset(ds), "", "  ")
}

// Unmarshal deserializes JSON bytes to a Graph.
func Unmarshal(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Write writes a dataset as JSON to an io.Writer.
func Write(ds *dataset.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDataset(ds)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a dataset to a JSON file with 0644 permissions.
func WriteFile(ds *dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(ds, f)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func sortStrings(s []string) { sort.Strings(s) }

func sortedRelations(rels []dataset.Relation) []dataset.Relation {
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].Outcome != rels[j].Outcome {
			return rels[i].Outcome < rels[j].Outcome
		}
		return rels[i].CourseID < rels[j].CourseID
	})
	return rels
}

func formatCredit(c float64) string {
	if c == 0 {
		return ""
	}
	return strconv.FormatFloat(c, 'f', -1, 64)
}
