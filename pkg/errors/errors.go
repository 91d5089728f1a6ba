package errors

import "errors"

// ErrOptimisticLock the row was modified by another operation since it was read
var ErrOptimisticLock = errors.New("el registro fue modificado por otra operación, recargue e intente de nuevo")
