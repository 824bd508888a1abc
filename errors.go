package analyzer

import "github.com/pkg/errors"

func errNotTracked(uri string) error {
	return errors.Errorf("document %q is not tracked by this analyzer", uri)
}

func errBadEditRange(uri string, e Edit) error {
	return errors.Errorf("edit [%d,%d) out of range for document %q", e.Start, e.End, uri)
}
