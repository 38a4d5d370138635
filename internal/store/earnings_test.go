package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBankDetailsUpdateHasAny(t *testing.T) {
	require.False(t, BankDetailsUpdate{}.HasAny())
	require.True(t, BankDetailsUpdate{BankAccountNumber: strPtr("1234567890")}.HasAny())
	require.True(t, BankDetailsUpdate{BankIFSCCode: strPtr("HDFC0001234")}.HasAny())
	require.True(t, BankDetailsUpdate{BankAccountHolderName: strPtr("Ravi Kumar")}.HasAny())
	require.True(t, BankDetailsUpdate{UPIID: strPtr("ravi@upi")}.HasAny())
}
