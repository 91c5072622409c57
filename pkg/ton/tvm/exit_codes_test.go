package tvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCode_Describe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		want string
	}{
		{ExitCodeSuccess, "Success"},
		{ExitCodeUnknownError, "'Unknown' error"},
		{ExitCodeNotEnoughToncoin, "Not enough Toncoin"},
		{ExitCodeOutOfGasErrorVariant, "Out of gas error"},
		{ExitCode(4242), "Non-standard exit code: 4242"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.code.Describe())
		})
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	t.Parallel()

	require.True(t, ExitCodeSuccess.IsSuccess())
	require.True(t, ExitCodeSuccessVariant.IsSuccess())
	require.False(t, ExitCodeStackUnderflow.IsSuccess())
	require.Equal(t, "exit code 9: Cell underflow", ExitCodeCellUnderflow.String())
}
