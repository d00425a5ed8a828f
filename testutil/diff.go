//
// Copyright (C) 2022 IBM Corporation.
//
// Authors:
// Frederico Araujo <frederico.araujo@ibm.com>
// Teryl Taylor <terylt@ibm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides helpers for loghaul's own tests.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Diff returns the go-cmp diff between want and got.
func Diff(want, got interface{}, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// AllowUnexported permits go-cmp to look inside unexported fields of the
// given types.
func AllowUnexported(types ...interface{}) cmp.Option {
	return cmp.AllowUnexported(types...)
}

// IgnoreUnexported excludes unexported fields of the given types from a
// comparison.
func IgnoreUnexported(types ...interface{}) cmp.Option {
	return cmpopts.IgnoreUnexported(types...)
}

// ExpectNoDiff flags an error on tb when want and got differ, logging the
// diff and both values. It reports whether they matched.
func ExpectNoDiff(tb testing.TB, want, got interface{}, opts ...cmp.Option) bool {
	tb.Helper()
	if diff := Diff(want, got, opts...); diff != "" {
		tb.Errorf("Unexpected diff, -want +got:\n%s", diff)
		tb.Logf("expected:\n%#v", want)
		tb.Logf("received:\n%#v", got)
		return false
	}
	return true
}
