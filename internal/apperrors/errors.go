package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation is not allowed in the resource's current status.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrInsufficientStock indicates that a stock decrement would drive a product's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")
