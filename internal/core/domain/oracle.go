package domain

import "errors"

// Address oracle failures. Oracle implementations wrap these so callers can
// map them without knowing the transport.
var (
	// ErrOracleUnreachable covers transport failures and non-2xx statuses.
	ErrOracleUnreachable = errors.New("zebra rpc unreachable")
	// ErrOracleRPC is returned when the node answers with an error member.
	ErrOracleRPC = errors.New("zebra rpc error")
	// ErrOracleMalformed is returned when the response carries no result.
	ErrOracleMalformed = errors.New("malformed zebra rpc response")
	// ErrAddressRejected is returned when the node reports isvalid=false.
	ErrAddressRejected = errors.New("address rejected by node")
	// ErrWrongNetwork is returned for valid addresses without a regtest prefix.
	ErrWrongNetwork = errors.New("address is not a regtest address")
)
