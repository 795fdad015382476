package domain

import "errors"

// ErrConnection means the collection API itself is unreachable or speaks an
// incompatible protocol. It aborts the whole run; unlike dictionary lookup
// failures, nothing is recoverable without Anki.
var ErrConnection = errors.New("collection unreachable")
