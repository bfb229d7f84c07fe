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

import (
	"testing"
)

func kinds(toks []tok) []kind {
	out := make([]kind, len(toks))
	for i, t := range toks {
		out[i] = t.kind
	}
	return out
}

func TestScanNumberAndDuration(t *testing.T) {
	toks, err := newScanner("5m 1h30m 3.5 .5 10").tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	got := kinds(toks)
	want := []kind{tokDuration, tokDuration, tokNumber, tokNumber, tokNumber, tokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got kind %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].text != "1h30m" {
		t.Errorf("composite duration text = %q, want %q", toks[1].text, "1h30m")
	}
}

func TestScanStringEscapesAndQuoteStyles(t *testing.T) {
	toks, err := newScanner(`"a\nb" 'c' ` + "`d`").tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if toks[0].text != "a\nb" {
		t.Errorf("escaped string = %q, want %q", toks[0].text, "a\nb")
	}
	if toks[1].text != "c" {
		t.Errorf("single-quoted string = %q, want %q", toks[1].text, "c")
	}
	if toks[2].text != "d" {
		t.Errorf("backtick string = %q, want %q", toks[2].text, "d")
	}
}

func TestScanSkipsComments(t *testing.T) {
	toks, err := newScanner("foo # a comment\n+ bar").tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	got := kinds(toks)
	want := []kind{tokIdent, tokAdd, tokIdent, tokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
}

func TestScanTwoCharacterOperators(t *testing.T) {
	toks, err := newScanner(`== != >= <= =~ !~ = > <`).tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	got := kinds(toks)
	want := []kind{
		tokEQL, tokNEQ, tokGTE, tokLTE, tokMatchRegexp, tokMatchNotRegexp,
		tokMatchEqual, tokGTR, tokLSS, tokEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got kind %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanRejectsUnterminatedString(t *testing.T) {
	_, err := newScanner(`"unterminated`).tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestScanRejectsUnexpectedCharacter(t *testing.T) {
	_, err := newScanner("foo $ bar").tokenize()
	if err == nil {
		t.Fatal("expected an error for an unrecognized character")
	}
}
