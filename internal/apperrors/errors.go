package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflicting state")

// ErrCurrencyMismatch indicates arithmetic or a posting across incompatible currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrUnbalancedTransaction indicates that a transaction's booked debits and credits differ.
var ErrUnbalancedTransaction = errors.New("transaction debits and credits do not balance")

// ErrDuplicateCode indicates that an account code is already taken.
var ErrDuplicateCode = errors.New("account code already exists")

// ErrPeriodClosed indicates an attempt to post into a closed accounting period.
var ErrPeriodClosed = errors.New("accounting period is closed")

// ErrPeriodAlreadyClosed indicates an attempt to close a period twice.
var ErrPeriodAlreadyClosed = errors.New("accounting period is already closed")

// ErrRateNotFound indicates that no exchange rate exists for the requested pair, date and type.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrDivisionByZero indicates a monetary division by a zero scalar.
var ErrDivisionByZero = errors.New("division by zero")
