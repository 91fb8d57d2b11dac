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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	testCases := []struct {
		testname    string
		args        []string
		hex         bool
		expected    []pair
		expectedErr bool
	}{
		{"raw pairs", []string{"a", "1", "b", "2"}, false, []pair{{[]byte("a"), []byte("1")}, {[]byte("b"), []byte("2")}}, false},
		{"hex pair", []string{"00ff", "cafe"}, true, []pair{{[]byte{0x00, 0xff}, []byte{0xca, 0xfe}}}, false},
		{"odd arguments", []string{"a", "1", "b"}, false, nil, true},
		{"no arguments", []string{}, false, nil, true},
		{"malformed hex", []string{"zz", "00"}, true, nil, true},
	}

	for _, test := range testCases {
		pairs, err := parsePairs(test.args, test.hex)
		if test.expectedErr {
			require.Errorf(t, err, "Expected error in test: %s", test.testname)
			continue
		}
		require.NoErrorf(t, err, "Unexpected error in test: %s", test.testname)
		require.Equalf(t, test.expected, pairs, "Wrong pairs in test: %s", test.testname)
	}
}

func TestParseAssignments(t *testing.T) {
	testCases := []struct {
		testname    string
		args        []string
		hex         bool
		expected    []pair
		expectedErr bool
	}{
		{"single", []string{"a=1"}, false, []pair{{[]byte("a"), []byte("1")}}, false},
		{"value with equals", []string{"a=b=c"}, false, []pair{{[]byte("a"), []byte("b=c")}}, false},
		{"empty value", []string{"a="}, false, []pair{{[]byte("a"), []byte("")}}, false},
		{"hex", []string{"01=02"}, true, []pair{{[]byte{0x01}, []byte{0x02}}}, false},
		{"missing equals", []string{"a"}, false, nil, true},
		{"malformed hex value", []string{"01=x"}, true, nil, true},
	}

	for _, test := range testCases {
		pairs, err := parseAssignments(test.args, test.hex)
		if test.expectedErr {
			require.Errorf(t, err, "Expected error in test: %s", test.testname)
			continue
		}
		require.NoErrorf(t, err, "Unexpected error in test: %s", test.testname)
		require.Equalf(t, test.expected, pairs, "Wrong pairs in test: %s", test.testname)
	}
}

func TestEncodeValue(t *testing.T) {
	require.Equal(t, "cafe", encodeValue([]byte{0xca, 0xfe}, true))
	require.Equal(t, "v", encodeValue([]byte("v"), false))
}
