package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/spectro"
	"github.com/matzehuels/spectromap/pkg/store"
)

// stdin is read when a path argument is "-".
var stdin io.Reader = os.Stdin

// readInput reads a file, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

func readJSON(path string, v any) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return nil
}

func readLayout(path string) (spectro.Layout, error) {
	var l spectro.Layout
	err := readJSON(path, &l)
	return l, err
}

func readAnnotation(path, kind string) (spectro.Annotation, error) {
	k, err := spectro.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return spectro.DecodeAnnotation(k, data)
}

func readRing(path string) ([]spectro.Point, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return spectro.DecodeRing(data)
}

// readRecording reads a recording document, using the file name as the ID
// when the document has none.
func readRecording(path string) (store.Recording, error) {
	var r store.Recording
	if err := readJSON(path, &r); err != nil {
		return store.Recording{}, err
	}
	if r.ID == "" && path != "-" {
		r.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return r, nil
}

// writeJSON writes v indented to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
