package clipweave

import "github.com/pkg/errors"

// Errors here can legitimately surface to a caller: they all happen before
// or outside the total/no-throw render boundary described in §7 — loading a
// template source, parsing a CLI/server request, or validating Options.

func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
