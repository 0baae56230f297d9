package check

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type validatable struct {
	errs []error
}

func (v validatable) Validate() []error { return v.errs }

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validatable{errs: []error{nil, nil}}))

	err := Validate(validatable{errs: []error{
		nil,
		errors.New("first"),
		errors.New("second"),
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "first")
	require.Contains(t, err.Error(), "second")
}

func TestNotEmpty(t *testing.T) {
	require.NoError(t, NotEmpty("x"))
	require.Error(t, NotEmpty(""))
	require.Contains(t, NotEmpty("", "a group name must be provided").Error(),
		"a group name must be provided")
}

func TestIn(t *testing.T) {
	require.NoError(t, In("batch", []string{"batch", "gpu"}))
	require.Error(t, In("debug", []string{"batch", "gpu"}))
}

func TestGreaterThanOrEqualTo(t *testing.T) {
	require.NoError(t, GreaterThanOrEqualTo(5, 5))
	require.NoError(t, GreaterThanOrEqualTo(6, 5))
	require.Error(t, GreaterThanOrEqualTo(4, 5))
}
