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
package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func withOutput(t *testing.T, level string) (*bytes.Buffer, func()) {
	var buf bytes.Buffer
	prevOutput, prevStd := output, std
	output = &buf
	SetLogger("TestLog", level)
	return &buf, func() {
		output, std = prevOutput, prevStd
	}
}

func TestLevels(t *testing.T) {
	testCases := []struct {
		testname             string
		level                string
		debug, info, errored bool
	}{
		{"silent", SILENT, false, false, false},
		{"error", ERROR, false, false, true},
		{"info", INFO, false, true, true},
		{"debug", DEBUG, true, true, true},
	}

	for _, test := range testCases {
		buf, restore := withOutput(t, test.level)

		Debug("print driven development")
		Infof("hello %s", "world")
		Error("boom")

		out := buf.String()
		require.Equalf(t, test.debug, bytes.Contains([]byte(out), []byte("print driven development")), "Wrong debug output in test: %s", test.testname)
		require.Equalf(t, test.info, bytes.Contains([]byte(out), []byte("hello world")), "Wrong info output in test: %s", test.testname)
		require.Equalf(t, test.errored, bytes.Contains([]byte(out), []byte("boom")), "Wrong error output in test: %s", test.testname)
		require.Equalf(t, test.level, GetLoggerLevel(), "Wrong level in test: %s", test.testname)

		restore()
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	buf, restore := withOutput(t, "verbose")
	defer restore()

	require.Equal(t, INFO, GetLoggerLevel())
	require.Contains(t, buf.String(), "fallback to log.INFO")
}

func TestFatalExits(t *testing.T) {
	_, restore := withOutput(t, ERROR)
	defer restore()

	var code int
	osExit = func(c int) { code = c }
	defer func() { osExit = osExitDefault }()

	Fatalf("killed in the name %s", "off")
	require.Equal(t, 1, code)
}
