package advance

import "errors"

var ErrSalaryAdvanceNotFound = errors.New("salary advance request not found")
