/*
 * CLI - node commands.
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
	"strings"

	"node-dns-drivers/internal/compute"
	"node-dns-drivers/internal/gateway"
	"node-dns-drivers/internal/model"

	"github.com/spf13/cobra"
)

func (a *app) nodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Manage compute nodes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the nodes",
			Args:  cobra.NoArgs,
			RunE:  a.listNodes,
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a node",
			Args:  cobra.ExactArgs(1),
			RunE:  a.getNode,
		},
	)
	for _, action := range []string{
		compute.ActionReboot,
		compute.ActionStart,
		compute.ActionStop,
		compute.ActionPowerReset,
		compute.ActionDestroy,
	} {
		cmd.AddCommand(a.nodeActionCommand(action))
	}
	return cmd
}

func (a *app) listNodes(cmd *cobra.Command, args []string) error {
	d, err := a.computeDriver()
	if err != nil {
		return err
	}
	nodes, err := d.ListNodes(cmd.Context())
	if err != nil {
		return err
	}
	return a.printNodes(cmd, nodes)
}

func (a *app) getNode(cmd *cobra.Command, args []string) error {
	d, err := a.computeDriver()
	if err != nil {
		return err
	}
	node, err := compute.FindNode(cmd.Context(), d, args[0])
	if err != nil {
		return err
	}
	return a.printNodes(cmd, []model.Node{node})
}

func (a *app) printNodes(cmd *cobra.Command, nodes []model.Node) error {
	views := make([]gateway.NodeView, 0, len(nodes))
	t := table{header: []string{"ID", "NAME", "STATE", "PUBLIC IPS", "PRIVATE IPS"}}
	for _, n := range nodes {
		views = append(views, gateway.NewNodeView(n))
		t.rows = append(t.rows, []string{
			n.ID,
			n.Name,
			n.State.String(),
			strings.Join(n.PublicIPs, ","),
			strings.Join(n.PrivateIPs, ","),
		})
	}
	return a.print(cmd.OutOrStdout(), views, t)
}

func (a *app) nodeActionCommand(action string) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   action + " ID",
		Short: fmt.Sprintf("Run the %s action on a node", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if action == compute.ActionDestroy && !confirmed {
				return fmt.Errorf("refusing to destroy node %s without --yes", args[0])
			}
			d, err := a.computeDriver()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			node, err := compute.FindNode(ctx, d, args[0])
			if err != nil {
				return err
			}
			ok, err := compute.Action(ctx, d, node, action)
			if err != nil {
				return err
			}
			result := gateway.ActionResult{NodeID: node.ID, Action: action, Success: ok}
			return a.print(cmd.OutOrStdout(), result, table{
				header: []string{"ID", "ACTION", "SUCCESS"},
				rows:   [][]string{{node.ID, action, fmt.Sprint(ok)}},
			})
		},
	}
	if action == compute.ActionDestroy {
		cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm the destruction")
	}
	return cmd
}
