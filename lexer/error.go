// Copyright 2020 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexer

import "fmt"

// ParseError is the one place this module departs from spec.md's flat-string
// error contract (§7): the core ast builders and CheckAST return bare errors
// whose literal text is part of the public contract, but the lexer/parser
// glue that drives them needs a source position for diagnostics. ParseError
// wraps the underlying error without altering its text, so callers that need
// the exact flat string can still get it via errors.Unwrap/errors.As
// (SPEC_FULL.md §1.1).
type ParseError struct {
	Pos int
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Err.Error())
	}
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
