package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zatekoja/placeviewer/internal/application/services"
)

func geocodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <query>",
		Short: "Look up distance center candidates for a place name or address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := a.centerSearch(ctx).Search(ctx, args[0])
			if err != nil {
				return err
			}
			return printCenterSearch(cmd.OutOrStdout(), a.format, res)
		},
	}
}

func printCenterSearch(w io.Writer, format string, res *services.CenterSearchResult) error {
	if ok, err := writeStructured(w, format, res); ok {
		return err
	}

	fmt.Fprintf(w, "[%s] %s\n", res.Tone, res.Message)
	if len(res.Candidates) == 0 {
		return nil
	}
	t := newTable(w, "#", "LABEL", "X", "Y")
	for i, c := range res.Candidates {
		t.row(
			strconv.Itoa(i),
			c.Label,
			strconv.FormatFloat(c.X, 'f', 7, 64),
			strconv.FormatFloat(c.Y, 'f', 7, 64),
		)
	}
	return t.flush()
}
