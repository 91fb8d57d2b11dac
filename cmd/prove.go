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
	"fmt"
	"io/ioutil"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/protocol"
)

func newProveCommand(ctx *cmdContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "prove --out FILE KEY [KEY...]",
		Short: "Write a proof of the given keys against the current root",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := protocol.NewProveRequest()
			for _, arg := range args {
				key, err := decodeArg(arg, ctx.hex)
				if err != nil {
					return err
				}
				req.Insert(key)
			}

			path, err := homedir.Expand(out)
			if err != nil {
				return err
			}

			base, stack, err := ctx.open()
			if err != nil {
				return err
			}
			defer base.Close()

			resp, err := stack.Prove(req)
			if err != nil {
				return err
			}
			buf, err := resp.Encode()
			if err != nil {
				return err
			}
			if err := ioutil.WriteFile(path, buf, 0644); err != nil {
				return err
			}
			log.Debugf("Wrote %d bytes of proof to %s", len(buf), path)

			fmt.Fprintf(cmd.OutOrStdout(), "root: %s\nproof: %s\n", stack.RootHash(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "File the encoded proof is written to")
	cmd.MarkFlagRequired("out")

	return cmd
}
