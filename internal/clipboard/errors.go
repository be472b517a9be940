package clipboard

import "errors"

// ErrNoStructuredPayload is returned by DecodeHTML when src carries no
// data-quadratic attribute — plain HTML from outside Quadratic, which
// should be pasted via PastePlainTextOperations instead.
var ErrNoStructuredPayload = errors.New("clipboard: no data-quadratic payload")
