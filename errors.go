// Copyright 2025 The Frozen Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frozen

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey indicates that two source entries carried an equal key
	// during Map construction.
	ErrDuplicateKey = errors.New("frozen: duplicate key")

	// ErrNotFound indicates that Get found no entry for the key.
	ErrNotFound = errors.New("frozen: key not found")

	// ErrInvalidArgument indicates a nil source association was passed to Map
	// construction.
	ErrInvalidArgument = errors.New("frozen: invalid argument")

	// ErrOverflow indicates that probing exhausted the table during
	// construction. The load-factor invariant makes this unreachable; seeing
	// it means a precondition was violated, it is never an expected runtime
	// outcome and is not retryable.
	ErrOverflow = errors.New("frozen: probe overflow")
)

// DuplicateKeyError reports the offending key of a failed construction. It
// unwraps to ErrDuplicateKey.
type DuplicateKeyError struct {
	Key any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("frozen: duplicate key %v", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// NotFoundError reports the key of a failed strict lookup. It unwraps to
// ErrNotFound.
type NotFoundError struct {
	Key any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("frozen: key %v not found", e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
