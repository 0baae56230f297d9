// Package check contains validation helpers for configuration structs.
package check

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/constraints"
)

// Validatable is implemented by anything that has fields that should be validated.
type Validatable interface {
	Validate() []error
}

// Validate runs the Validatable's checks and combines any failures into a
// single returned error.
func Validate(v Validatable) error {
	var result *multierror.Error
	for _, err := range v.Validate() {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// NotEmpty checks whether the given string is non-empty. This method returns an
// error with the provided message if the check fails.
func NotEmpty(actual string, msgAndArgs ...interface{}) error {
	return check(len(actual) > 0, msgAndArgs, "%q must be non-empty", actual)
}

// In checks whether the actual value is contained in the expected list. This
// method returns an error with the provided message if the check fails.
func In(actual string, expected []string, msgAndArgs ...interface{}) error {
	for _, value := range expected {
		if value == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%s not in %v", actual, expected)
}

// GreaterThanOrEqualTo checks whether the first argument is greater than or
// equal to the second argument. This method returns an error with the provided
// message if the check fails.
func GreaterThanOrEqualTo[T constraints.Ordered](
	actual, expected T, msgAndArgs ...interface{},
) error {
	return check(actual >= expected, msgAndArgs, "%v is not greater than or equal to %v",
		actual, expected)
}

func check(ok bool, msgAndArgs []interface{}, internalMsg string, args ...interface{}) error {
	if ok {
		return nil
	}
	message := messageFromMsgAndArgs(msgAndArgs...)
	if message == "" {
		message = fmt.Sprintf(internalMsg, args...)
	}
	return fmt.Errorf("check failed: %s", message)
}

func messageFromMsgAndArgs(msgAndArgs ...interface{}) string {
	switch {
	case len(msgAndArgs) == 1:
		switch msg := msgAndArgs[0].(type) {
		case string:
			return msg
		default:
			return fmt.Sprintf("%+v", msg)
		}
	case len(msgAndArgs) > 1:
		return fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	default:
		return ""
	}
}
