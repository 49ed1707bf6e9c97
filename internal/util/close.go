package util

import (
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// CloseWithErr closes a resource and folds the close error into *errp when
// no earlier error is pending. Meant for defer in functions with a named
// error return.
func CloseWithErr(closer io.Closer, errp *error, name string) {
	if closer == nil {
		return
	}
	val := reflect.ValueOf(closer)
	if val.Kind() == reflect.Ptr && val.IsNil() {
		return
	}
	if err := closer.Close(); err != nil && *errp == nil {
		*errp = errors.Wrapf(err, "close %s", name)
	}
}
