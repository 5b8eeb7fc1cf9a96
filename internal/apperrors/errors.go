package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStateConflict indicates an operation that is illegal in the resource's
// current lifecycle state (e.g. voiding an already-void transaction, paying an
// unapproved payroll entry, over-settling an advance).
var ErrStateConflict = errors.New("operation conflicts with resource state")

// ErrReferentialIntegrity indicates a delete/deactivate was refused because
// other records still reference the resource. Checks are restrict-on-delete,
// never cascading.
var ErrReferentialIntegrity = errors.New("resource is still referenced")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")
