package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/zhubert/agentdeck/internal/gateway"
)

var inspectJSON bool

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions the agent can run",
	Args:  cobra.NoArgs,
	RunE:  runActions,
}

var configCmd = &cobra.Command{
	Use:   "config [agent]",
	Short: "Show the backend configuration",
	Long: `Without an argument, shows the model configuration of every agent.
With an agent id, shows that agent's configuration and prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	for _, c := range []*cobra.Command{actionsCmd, configCmd} {
		c.Flags().BoolVar(&inspectJSON, "json", false, "Print the raw JSON")
		rootCmd.AddCommand(c)
	}
}

func runActions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return withTelemetry(cmd.Context(), cfg, func() error {
		actions, err := newClient(cfg).ListActions(cmd.Context())
		if err != nil {
			return err
		}
		printActions(cmd.OutOrStdout(), actions)
		return nil
	})
}

func printActions(w io.Writer, actions []gateway.Action) {
	if len(actions) == 0 {
		fmt.Fprintln(w, "No actions available")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ACTION", "DESCRIPTION", "ARGUMENTS")
	for _, a := range actions {
		t.Row(a.Name, a.Description, argumentList(a))
	}
	fmt.Fprintln(w, t.String())
}

func argumentList(a gateway.Action) string {
	if a.RawSignature != "" {
		return a.RawSignature
	}
	args := make([]string, len(a.Arguments))
	for i, arg := range a.Arguments {
		args[i] = arg.Name + ": " + arg.Type
	}
	return strings.Join(args, ", ")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	out := cmd.OutOrStdout()

	return withTelemetry(cmd.Context(), cfg, func() error {
		if len(args) == 1 {
			agent, err := client.GetAgentConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if inspectJSON {
				printJSON(out, agent.Raw)
				return nil
			}
			printAgentConfig(out, args[0], agent)
			return nil
		}

		global, err := client.GetConfig(cmd.Context())
		if err != nil {
			return err
		}
		if inspectJSON {
			printJSON(out, global.Raw)
			return nil
		}
		printGlobalConfig(out, global)
		return nil
	})
}

func printJSON(w io.Writer, raw []byte) {
	fmt.Fprint(w, string(pretty.Pretty(raw)))
}

func printModel(w io.Writer, indent string, m *gateway.ModelConfig) {
	fmt.Fprintf(w, "%sModel:       %s\n", indent, m.NameText())
	fmt.Fprintf(w, "%sTemperature: %s\n", indent, m.TemperatureText())
	fmt.Fprintf(w, "%sMax tokens:  %s\n", indent, m.MaxTokensText())
}

func printAgentConfig(w io.Writer, name string, a *gateway.AgentConfig) {
	fmt.Fprintln(w, name)
	printModel(w, "  ", a.ModelConfig)
	if a.Prompt != "" {
		fmt.Fprintf(w, "  Prompt file: %s\n", a.Prompt)
	}
	if a.PromptContent != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.PromptContent)
	}
	if a.HasResponseFormat() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Response format:")
		printJSON(w, a.ResponseFormat)
	}
}

func printGlobalConfig(w io.Writer, g gateway.GlobalConfig) {
	fmt.Fprintln(w, "Global")
	printModel(w, "  ", g.Model)
	if g.Agents == nil {
		return
	}
	for pair := g.Agents.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, pair.Key)
		fmt.Fprint(w, indentLines(string(pretty.Pretty(pair.Value)), "  "))
	}
}

func indentLines(s, indent string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		if line != "" {
			b.WriteString(indent + line)
		}
	}
	return b.String()
}
