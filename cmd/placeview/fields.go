package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/placeviewer/internal/application/services"
	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

type fieldRow struct {
	entities.FieldDef `yaml:",inline"`
	TypeLabel         string              `json:"typeLabel" yaml:"typeLabel"`
	Operators         []services.Operator `json:"operators" yaml:"operators"`
}

func fieldsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <file>",
		Short: "List the fields advanced rules can target, with their operators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dataset, err := a.loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printFields(cmd.OutOrStdout(), a.format, dataset.Fields)
		},
	}
}

func printFields(w io.Writer, format string, fields []entities.FieldDef) error {
	rows := make([]fieldRow, len(fields))
	for i, f := range fields {
		rows[i] = fieldRow{FieldDef: f, TypeLabel: services.TypeLabel(f.Type), Operators: services.OpsForType(f.Type)}
	}
	if ok, err := writeStructured(w, format, rows); ok {
		return err
	}

	t := newTable(w, "KEY", "LABEL", "TYPE", "SOURCE", "OPERATORS")
	for _, r := range rows {
		ops := make([]string, len(r.Operators))
		for i, op := range r.Operators {
			ops[i] = op.Value
		}
		t.row(r.Key, r.Label, r.TypeLabel, string(r.Source), strings.Join(ops, ","))
	}
	return t.flush()
}
