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
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/db"
	"github.com/bbva/veritree/db/merkle"
	"github.com/bbva/veritree/protocol"
	"github.com/bbva/veritree/storage/bplus"
)

var errInvalidProof = errors.New("proof does not support the asserted values")

func newVerifyCommand(ctx *cmdContext) *cobra.Command {
	var proofFile, rootHex string
	var strict bool

	cmd := &cobra.Command{
		Use:   "verify --proof FILE --root HEX [KEY=VALUE...]",
		Short: "Check a proof and asserted values against a root, without opening the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parseAssignments(args, ctx.hex)
			if err != nil {
				return err
			}

			root, err := decodeArg(rootHex, true)
			if err != nil {
				return err
			}
			expected, err := db.RootFromBytes(root)
			if err != nil {
				return err
			}

			path, err := homedir.Expand(proofFile)
			if err != nil {
				return err
			}
			buf, err := ioutil.ReadFile(path)
			if err != nil {
				return err
			}
			var resp protocol.ProveResponse
			if err := resp.Decode(buf); err != nil {
				return err
			}

			req := protocol.NewVerifyRequest(resp.Proof, expected)
			req.Strict = strict
			for _, p := range pairs {
				req.Insert(p.key, p.value)
			}

			// Verification only needs the hasher, an empty in-memory tree is enough.
			hasherF, err := hashing.NewHasherF(ctx.conf.Hasher)
			if err != nil {
				return err
			}
			verifier, err := merkle.New(bplus.NewBPlusTreeStore(), nil, hasherF)
			if err != nil {
				return err
			}
			defer verifier.Close()

			result, err := verifier.Verify(req)
			if err != nil {
				return err
			}
			if !result.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errInvalidProof
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&proofFile, "proof", "", "File holding a proof written by prove")
	f.StringVar(&rootHex, "root", "", "Hex encoded root digest the proof is checked against")
	f.BoolVar(&strict, "strict", false, "Fail when an asserted key is not proven present")
	cmd.MarkFlagRequired("proof")
	cmd.MarkFlagRequired("root")

	return cmd
}
