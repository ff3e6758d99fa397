/*
 * CLI - profile commands.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cli

import (
	"fmt"

	"node-dns-drivers/internal/profile"

	"github.com/spf13/cobra"
)

func (a *app) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage the profiles",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the profiles; the current one is marked with *",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := profile.Load(a.profilePath)
				if err != nil {
					return err
				}
				for _, name := range f.Names() {
					mark := " "
					if name == f.Current {
						mark = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "use NAME",
			Short: "Select the current profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := profile.Load(a.profilePath)
				if err != nil {
					return err
				}
				if err := f.Use(args[0]); err != nil {
					return err
				}
				if err := f.Save(a.profilePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "switched to profile %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
