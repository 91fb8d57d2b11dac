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

	"github.com/spf13/cobra"
)

func newGetCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the committed value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := decodeArg(args[0], ctx.hex)
			if err != nil {
				return err
			}

			base, stack, err := ctx.open()
			if err != nil {
				return err
			}
			defer base.Close()

			value, ok, err := stack.Get(key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), encodeValue(value, ctx.hex))
			return nil
		},
	}
}
