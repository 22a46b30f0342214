package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/output"
	"github.com/jackzampolin/promptforge/internal/persona"
)

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "List personas and inspect their instructions",
}

// personaInfo is one row of persona list.
type personaInfo struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

type personaList []personaInfo

func (l personaList) Text() string {
	var b strings.Builder
	for _, p := range l {
		fmt.Fprintf(&b, "%-16s %s\n", p.Name, p.Label)
	}
	return b.String()
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		var l personaList
		for _, p := range persona.All() {
			l = append(l, personaInfo{Name: p.String(), Label: p.Label()})
		}
		return output.Print(l)
	},
}

var personaShowCmd = &cobra.Command{
	Use:   "show <generate|enhance> [persona]",
	Short: "Print the system instruction and sampling for an operation",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := persona.ParseOperation(args[0])
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		p, err := persona.Parse(name)
		if err != nil {
			return err
		}

		inst, err := persona.BuildInstruction(op, p)
		if err != nil {
			return err
		}
		if output.IsStructured() {
			return output.Print(inst)
		}

		fmt.Printf("Key:         %s\n", inst.Key)
		fmt.Printf("Hash:        %s\n", inst.Hash)
		fmt.Printf("Temperature: %g\n", inst.Sampling.Temperature)
		fmt.Printf("TopP:        %g\n", inst.Sampling.TopP)
		fmt.Printf("TopK:        %d\n", inst.Sampling.TopK)
		if inst.Sampling.ResponseMIMEType != "" {
			fmt.Printf("MIME type:   %s\n", inst.Sampling.ResponseMIMEType)
		}
		fmt.Println()
		fmt.Println(inst.Text)
		return nil
	},
}

func init() {
	personaCmd.AddCommand(personaListCmd)
	personaCmd.AddCommand(personaShowCmd)

	rootCmd.AddCommand(personaCmd)
}
