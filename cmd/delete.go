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
	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY [KEY...]",
		Short: "Remove keys in a single commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([][]byte, 0, len(args))
			for _, arg := range args {
				key, err := decodeArg(arg, ctx.hex)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}

			base, stack, err := ctx.open()
			if err != nil {
				return err
			}
			defer base.Close()

			for _, key := range keys {
				if err := stack.Delete(key); err != nil {
					return err
				}
			}
			return commit(cmd, base, stack)
		},
	}
}
