package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Required_Rejects_Blank_Values(t *testing.T) {
	v := Required()

	require.Error(t, v(""))
	require.Error(t, v("   "))
	require.NoError(t, v("value"))
}

func Test_Length_Bounds(t *testing.T) {
	require.Error(t, MinLength(3)("ab"))
	require.NoError(t, MinLength(3)("abc"))

	require.Error(t, MaxLength(3)("abcd"))
	require.NoError(t, MaxLength(3)("abc"))

	require.NoError(t, LengthBetween(2, 4)("abc"))
	require.Error(t, LengthBetween(2, 4)("a"))
	require.Error(t, LengthBetween(2, 4)("abcde"))
}

func Test_Compose_Stops_At_The_First_Failure(t *testing.T) {
	v := Compose(Required(), MinLength(5))

	err := v("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func Test_Field_Prefixes_The_Field_Name(t *testing.T) {
	v := Field("username", Required())

	err := v("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "username")
}

func Test_NoSpaces_And_Alphanumeric(t *testing.T) {
	require.Error(t, NoSpaces()("a b"))
	require.NoError(t, NoSpaces()("ab"))

	require.Error(t, Alphanumeric()("ab!"))
	require.NoError(t, Alphanumeric()("ab12"))
}
