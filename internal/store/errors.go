package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
)

// Op names a store operation.
type Op string

// Operations.
const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var errUnexpectedStatus = errors.New("unexpected status")

// Error is a failed round trip. Status is zero for transport and encoding
// failures.
type Error struct {
	Op     Op
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: %d %s: %v", e.Op, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports whether the store answered 404.
func (e *Error) NotFound() bool { return e.Status == http.StatusNotFound }

// userMessages are the generic retry prompts shown for each operation.
var userMessages = map[Op]string{
	OpList:   "Failed to load todos. Please try again.",
	OpCreate: "Failed to create todo. Please try again.",
	OpUpdate: "Failed to update todo. Please try again.",
	OpDelete: "Failed to complete todo. Please try again.",
}

// UserMessage returns the retry prompt for op.
func UserMessage(op Op) string {
	if m, ok := userMessages[op]; ok {
		return m
	}
	return "Request failed. Please try again."
}

// AsCLI converts a store failure into a STORE_ERROR. Other errors pass
// through unchanged.
func AsCLI(err error) error {
	var se *Error
	if !errors.As(err, &se) {
		return err
	}
	details := map[string]any{"op": string(se.Op)}
	if se.Status != 0 {
		details["status"] = se.Status
	}
	return clierr.Wrap(clierr.StoreError, UserMessage(se.Op), err).WithDetails(details)
}
