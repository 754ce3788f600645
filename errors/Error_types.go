package errors

// ERR is the numeric error code carried by every *Error. Codes are part of
// the wire contract with callers: Is() matches on code, not message.
type ERR int32

const (
	ERR_UNKNOWN               ERR = 0
	ERR_INVALID_ARGUMENT      ERR = 1
	ERR_INVALID_FILTER        ERR = 2
	ERR_LEDGER_UNAVAILABLE    ERR = 3
	ERR_INSUFFICIENT_CAPACITY ERR = 4
	ERR_UNKNOWN_ACCOUNT       ERR = 5
	ERR_INVALID_PASSPHRASE    ERR = 6
	ERR_ACCOUNT_NOT_FOUND     ERR = 7
	ERR_PARTIALLY_UNLOCKED    ERR = 8
	ERR_NOT_PREPARED          ERR = 9
	ERR_NOT_DEPOSITED         ERR = 10
	ERR_INVALID_ADDRESS       ERR = 11
	ERR_TX_ERROR              ERR = 12
	ERR_CONFIGURATION         ERR = 13
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "INVALID_FILTER",
	3:  "LEDGER_UNAVAILABLE",
	4:  "INSUFFICIENT_CAPACITY",
	5:  "UNKNOWN_ACCOUNT",
	6:  "INVALID_PASSPHRASE",
	7:  "ACCOUNT_NOT_FOUND",
	8:  "PARTIALLY_UNLOCKED",
	9:  "NOT_PREPARED",
	10: "NOT_DEPOSITED",
	11: "INVALID_ADDRESS",
	12: "TX_ERROR",
	13: "CONFIGURATION",
}

func (e ERR) String() string {
	if name, ok := ERR_name[int32(e)]; ok {
		return name
	}

	return "UNKNOWN"
}

var (
	ErrUnknown              = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument      = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrInvalidFilter        = New(ERR_INVALID_FILTER, "invalid filter")
	ErrLedgerUnavailable    = New(ERR_LEDGER_UNAVAILABLE, "ledger unavailable")
	ErrInsufficientCapacity = New(ERR_INSUFFICIENT_CAPACITY, "insufficient capacity")
	ErrUnknownAccount       = New(ERR_UNKNOWN_ACCOUNT, "unknown account")
	ErrInvalidPassphrase    = New(ERR_INVALID_PASSPHRASE, "invalid passphrase")
	ErrAccountNotFound      = New(ERR_ACCOUNT_NOT_FOUND, "account not found")
	ErrPartiallyUnlocked    = New(ERR_PARTIALLY_UNLOCKED, "partially unlocked")
	ErrNotPrepared          = New(ERR_NOT_PREPARED, "dao cell not prepared")
	ErrNotDeposited         = New(ERR_NOT_DEPOSITED, "dao cell not deposited")
	ErrInvalidAddress       = New(ERR_INVALID_ADDRESS, "invalid address")
	ErrTxError              = New(ERR_TX_ERROR, "tx error")
	ErrConfiguration        = New(ERR_CONFIGURATION, "configuration error")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewInvalidFilterError(message string, params ...interface{}) error {
	return New(ERR_INVALID_FILTER, message, params...)
}

func NewLedgerUnavailableError(message string, params ...interface{}) error {
	return New(ERR_LEDGER_UNAVAILABLE, message, params...)
}

func NewInsufficientCapacityError(message string, params ...interface{}) error {
	return New(ERR_INSUFFICIENT_CAPACITY, message, params...)
}

func NewUnknownAccountError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN_ACCOUNT, message, params...)
}

func NewInvalidPassphraseError(message string, params ...interface{}) error {
	return New(ERR_INVALID_PASSPHRASE, message, params...)
}

func NewAccountNotFoundError(message string, params ...interface{}) error {
	return New(ERR_ACCOUNT_NOT_FOUND, message, params...)
}

func NewPartiallyUnlockedError(message string, params ...interface{}) error {
	return New(ERR_PARTIALLY_UNLOCKED, message, params...)
}

func NewNotPreparedError(message string, params ...interface{}) error {
	return New(ERR_NOT_PREPARED, message, params...)
}

func NewNotDepositedError(message string, params ...interface{}) error {
	return New(ERR_NOT_DEPOSITED, message, params...)
}

func NewInvalidAddressError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ADDRESS, message, params...)
}

func NewTxError(message string, params ...interface{}) error {
	return New(ERR_TX_ERROR, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
