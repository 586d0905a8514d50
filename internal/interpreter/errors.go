package interpreter

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrInvalidName       = errors.New("invalid variable name")
)

// UndefinedVariableError is returned when an expression names a variable
// that is not bound.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable: %s", e.Name)
}

func (e *UndefinedVariableError) Is(target error) bool {
	return target == ErrUndefinedVariable
}

// InvalidExpressionError is returned when an operand is neither an integer
// literal nor a usable variable name.
type InvalidExpressionError struct {
	Text   string
	Reason string
}

func (e *InvalidExpressionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Invalid expression: %s", e.Text)
	}
	return fmt.Sprintf("Invalid expression: %s (%s)", e.Text, e.Reason)
}

func (e *InvalidExpressionError) Is(target error) bool {
	return target == ErrInvalidExpression
}

type UnknownCommandError struct {
	Line string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s", e.Line)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

type CapacityExceededError struct {
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("Capacity exceeded: at most %d variables", e.Limit)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// InvalidNameError is returned when the target of a let is not a legal name.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("Invalid variable name: %s (%s)", e.Name, e.Reason)
}

func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// Fatal reports whether err used to abort the whole session: undefined
// variables and malformed expressions. Hosts running in strict mode stop on
// these; everything else is reported and the session goes on.
func Fatal(err error) bool {
	return errors.Is(err, ErrUndefinedVariable) || errors.Is(err, ErrInvalidExpression)
}
