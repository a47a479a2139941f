package sink

import (
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const lockSuffix = ".lock"

func acquireLock(path string) (*flock.Flock, error) {
	fl := flock.New(path + lockSuffix)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", fl.Path())
	}
	if !ok {
		return nil, errors.Wrap(ErrLocked, fl.Path())
	}
	return fl, nil
}

func releaseLock(fl *flock.Flock) error {
	if fl == nil {
		return nil
	}
	return errors.Wrapf(fl.Unlock(), "unlock %s", fl.Path())
}
