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

	"github.com/bbva/veritree/db/merkle"
	"github.com/bbva/veritree/middleware"
)

func newSetCommand(ctx *cmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE [KEY VALUE...]",
		Short: "Write key-value pairs in a single commit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(args, ctx.hex)
			if err != nil {
				return err
			}

			base, stack, err := ctx.open()
			if err != nil {
				return err
			}
			defer base.Close()

			for _, p := range pairs {
				if _, err := stack.Set(p.key, p.value); err != nil {
					return err
				}
			}
			return commit(cmd, base, stack)
		},
	}
}

// commit flushes the buffered writes and prints the new state.
func commit(cmd *cobra.Command, base *merkle.MerkleTreeDB, stack middleware.Middleware) error {
	if err := stack.Commit(nil); err != nil {
		stack.Clean()
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "root: %s\nversion: %d\n", stack.RootHash(), base.Version())
	return nil
}
