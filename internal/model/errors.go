package model

import "errors"

// ErrDataUnavailable means no usable market data could be fetched or no spot
// price could be derived from it. A run that hits it sends nothing.
var ErrDataUnavailable = errors.New("market data unavailable")
