// Package savedconfig manages named snapshots of a connector's pin overrides.
package savedconfig

import "errors"

var ErrNotFound = errors.New("saved configuration not found")
var ErrEmptyName = errors.New("saved configuration name is empty")
