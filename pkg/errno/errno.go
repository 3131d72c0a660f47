package errno

import "errors"

// Errno defines the error code logic.
// A wrapped Errno keeps its code and exposes the cause through Unwrap,
// so errors.Is matches both the code and the underlying sentinel.
type Errno struct {
	Code    int
	Message string
	cause   error
}

func (e Errno) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e Errno) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same code
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return t.Code == e.Code
	case *Errno:
		return t != nil && t.Code == e.Code
	}
	return false
}

// Wrap attaches err as the cause. A nil err stays nil.
func (e Errno) Wrap(err error) error {
	if err == nil {
		return nil
	}
	e.cause = err
	return e
}

// WithMessage returns a copy with a different message
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
)

// Wallet Errors (20000+)
var (
	ErrValidation       = Errno{Code: 20001, Message: "Validation failed"}
	ErrWalletExists     = Errno{Code: 20002, Message: "Wallet already exists"}
	ErrWalletNotFound   = Errno{Code: 20003, Message: "Wallet not found"}
	ErrNoWalletLoaded   = Errno{Code: 20004, Message: "No wallet loaded"}
	ErrDuplicateAccount = Errno{Code: 20005, Message: "Account already exists"}
	ErrPasswordRequired = Errno{Code: 20006, Message: "Password required"}
)

// Storage Errors (30000+)
var (
	ErrIO = Errno{Code: 30001, Message: "Storage I/O error"}
)

// Crypto Errors (40000+)
var (
	ErrCrypto = Errno{Code: 40001, Message: "Cryptographic operation failed"}
)

// Invariant Errors (50000+)
var (
	ErrInvariant = Errno{Code: 50001, Message: "Wallet state invariant violated"}
)
