package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Format is an input file format, taken from the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat infers the format of a path or object URI.
func DetectFormat(location string) (Format, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, location)
	}
}

// Open returns a reader for a local path or an s3:// URI. objects may be nil when
// only local paths are used.
func Open(ctx context.Context, location string, objects *ObjectFetcher) (io.ReadCloser, error) {
	if IsObjectURI(location) {
		if objects == nil {
			return nil, fmt.Errorf("ingest: %s needs an object store", location)
		}
		return objects.Open(ctx, location)
	}
	return os.Open(location)
}

// Load reads records from a local file or bucket object, choosing the loader by
// extension.
func Load(ctx context.Context, location string, opts Options, objects *ObjectFetcher) (Result, error) {
	format, err := DetectFormat(location)
	if err != nil {
		return Result{}, err
	}

	rc, err := Open(ctx, location, objects)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	var result Result
	switch format {
	case FormatXLSX:
		result, err = NewXLSXLoader(opts).Load(rc)
	default:
		result, err = NewCSVLoader(opts).Load(rc)
	}
	if err != nil {
		return result, fmt.Errorf("%s: %w", location, err)
	}
	return result, nil
}
