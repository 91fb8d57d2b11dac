/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/
package db

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code classifies an Error. Values are stable and never renumbered.
type Code uint16

const (
	CodeSuccess Code = iota
	CodeUnknown
	CodeIO
	CodeSerialization
	CodeVerification
	CodeInvalidArgument
	CodeClosed
)

var codeNames = map[Code]string{
	CodeSuccess:         "success",
	CodeUnknown:         "unknown",
	CodeIO:              "io",
	CodeSerialization:   "serialization",
	CodeVerification:    "verification",
	CodeInvalidArgument: "invalid_argument",
	CodeClosed:          "closed",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// Error is the error every TreeDB implementation returns. Cause may be any
// error, including another *Error.
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func NewError(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap builds an Error of the given code caused by err. It returns nil
// when err is nil.
func Wrap(code Code, err error, msg string) error {
	if err == nil {
		return nil
	}
	return NewError(code, msg).WithCause(err)
}

// WithCause sets the cause of e and returns e.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("code=%d,msg=%s", e.Code, e.Msg)
	}
	return fmt.Sprintf("code=%d,msg=%s,err=%v", e.Code, e.Msg, e.Cause)
}

// Unwrap lets errors.Is and errors.As walk the cause chain. There is no
// Cause method: github.com/pkg/errors.Cause stops at the coded error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the outermost *Error in err, looking through
// github.com/pkg/errors annotations and wrapped errors. It returns
// CodeSuccess for a nil error and CodeUnknown when no *Error is found.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	if e, ok := pkgerrors.Cause(err).(*Error); ok {
		return e.Code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
