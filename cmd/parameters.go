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
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	errMalformedHex      = "malformed hex"
	errMissingAssignment = "missing '=' in assignment"
	errOddArguments      = "arguments must come in KEY VALUE pairs"
)

// decodeArg reads a command line key or value, raw or hex encoded.
func decodeArg(arg string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(arg), nil
	}
	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("%s in %s", errMalformedHex, arg)
	}
	return b, nil
}

func encodeValue(value []byte, isHex bool) string {
	if isHex {
		return hex.EncodeToString(value)
	}
	return string(value)
}

type pair struct {
	key, value []byte
}

// parsePairs reads KEY VALUE [KEY VALUE...] arguments.
func parsePairs(args []string, isHex bool) ([]pair, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errors.New(errOddArguments)
	}
	pairs := make([]pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, err := decodeArg(args[i], isHex)
		if err != nil {
			return nil, err
		}
		value, err := decodeArg(args[i+1], isHex)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key, value})
	}
	return pairs, nil
}

// parseAssignments reads KEY=VALUE arguments. Only the first '=' splits,
// so values may contain more.
func parseAssignments(args []string, isHex bool) ([]pair, error) {
	pairs := make([]pair, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s in %s", errMissingAssignment, arg)
		}
		key, err := decodeArg(parts[0], isHex)
		if err != nil {
			return nil, err
		}
		value, err := decodeArg(parts[1], isHex)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key, value})
	}
	return pairs, nil
}
