package tvm

import (
	"fmt"
)

// ExitCode is the status a TVM computation phase or get-method ends with.
// See https://docs.ton.org/v3/documentation/tvm/tvm-exit-codes
type ExitCode int32

const (
	ExitCodeSuccess                   ExitCode = 0
	ExitCodeSuccessVariant            ExitCode = 1
	ExitCodeStackUnderflow            ExitCode = 2
	ExitCodeStackOverflow             ExitCode = 3
	ExitCodeIntegerOverflow           ExitCode = 4
	ExitCodeIntegerOutOfExpectedRange ExitCode = 5
	ExitCodeInvalidOpcode             ExitCode = 6
	ExitCodeTypeCheckError            ExitCode = 7
	ExitCodeCellOverflow              ExitCode = 8
	ExitCodeCellUnderflow             ExitCode = 9
	ExitCodeDictionaryError           ExitCode = 10
	ExitCodeUnknownError              ExitCode = 11 // also thrown by the FunC dispatcher for unknown get-methods
	ExitCodeFatalError                ExitCode = 12
	ExitCodeOutOfGasError             ExitCode = 13
	ExitCodeOutOfGasErrorVariant      ExitCode = -14
	ExitCodeVirtualizationError       ExitCode = 14
	ExitCodeActionListIsInvalid       ExitCode = 32
	ExitCodeActionListIsTooLong       ExitCode = 33
	ExitCodeActionIsInvalid           ExitCode = 34
	ExitCodeInvalidSourceAddress      ExitCode = 35
	ExitCodeInvalidDestinationAddress ExitCode = 36
	ExitCodeNotEnoughToncoin          ExitCode = 37
	ExitCodeNotEnoughExtraCurrencies  ExitCode = 38
	ExitCodeOutboundMessageTooLarge   ExitCode = 39
	ExitCodeCannotProcessAMessage     ExitCode = 40
	ExitCodeLibraryReferenceIsNull    ExitCode = 41
	ExitCodeLibraryChangeActionError  ExitCode = 42
	ExitCodeLibraryLimitsExceeded     ExitCode = 43
	ExitCodeAccountStateSizeExceeded  ExitCode = 50
)

var descriptions = map[ExitCode]string{
	ExitCodeSuccess:                   "Success",
	ExitCodeSuccessVariant:            "Success (alternative)",
	ExitCodeStackUnderflow:            "Stack underflow",
	ExitCodeStackOverflow:             "Stack overflow",
	ExitCodeIntegerOverflow:           "Integer overflow",
	ExitCodeIntegerOutOfExpectedRange: "Integer out of expected range",
	ExitCodeInvalidOpcode:             "Invalid opcode",
	ExitCodeTypeCheckError:            "Type check error",
	ExitCodeCellOverflow:              "Cell overflow",
	ExitCodeCellUnderflow:             "Cell underflow",
	ExitCodeDictionaryError:           "Dictionary error",
	ExitCodeUnknownError:              "'Unknown' error",
	ExitCodeFatalError:                "Fatal error",
	ExitCodeOutOfGasError:             "Out of gas error",
	ExitCodeOutOfGasErrorVariant:      "Out of gas error",
	ExitCodeVirtualizationError:       "Virtualization error",
	ExitCodeActionListIsInvalid:       "Action list is invalid",
	ExitCodeActionListIsTooLong:       "Action list is too long",
	ExitCodeActionIsInvalid:           "Action is invalid or not supported",
	ExitCodeInvalidSourceAddress:      "Invalid source address in outbound message",
	ExitCodeInvalidDestinationAddress: "Invalid destination address in outbound message",
	ExitCodeNotEnoughToncoin:          "Not enough Toncoin",
	ExitCodeNotEnoughExtraCurrencies:  "Not enough extra currencies",
	ExitCodeOutboundMessageTooLarge:   "Outbound message does not fit into a cell after rewriting",
	ExitCodeCannotProcessAMessage:     "Cannot process a message",
	ExitCodeLibraryReferenceIsNull:    "Library reference is null",
	ExitCodeLibraryChangeActionError:  "Library change action error",
	ExitCodeLibraryLimitsExceeded:     "Exceeded maximum number of cells in the library or the maximum depth of the Merkle tree",
	ExitCodeAccountStateSizeExceeded:  "Account state size exceeded limits",
}

// IsSuccess reports whether the computation ended normally.
func (c ExitCode) IsSuccess() bool {
	return c == ExitCodeSuccess || c == ExitCodeSuccessVariant
}

// Describe returns a human-readable description of the exit code.
func (c ExitCode) Describe() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return fmt.Sprintf("Non-standard exit code: %d", c)
}

func (c ExitCode) String() string {
	return fmt.Sprintf("exit code %d: %s", int32(c), c.Describe())
}
