package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

type catalogs struct {
	Conveniences []entities.ConvenienceCount `json:"conveniences" yaml:"conveniences"`
	TopKeywords  []entities.KeywordCount     `json:"topKeywords" yaml:"topKeywords"`
	PriceTiers   []entities.PriceTierBucket  `json:"priceTiers" yaml:"priceTiers"`
}

func catalogsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs <file>",
		Short: "Show convenience, top keyword and price tier facets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dataset, err := a.loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCatalogs(cmd.OutOrStdout(), a.format, catalogs{
				Conveniences: dataset.Conveniences,
				TopKeywords:  dataset.TopKeywords,
				PriceTiers:   dataset.PriceTiers,
			})
		},
	}
}

func printCatalogs(w io.Writer, format string, c catalogs) error {
	if ok, err := writeStructured(w, format, c); ok {
		return err
	}

	fmt.Fprintln(w, "# 편의시설")
	t := newTable(w, "NAME", "COUNT")
	for _, e := range c.Conveniences {
		t.row(e.Name, strconv.Itoa(e.Count))
	}
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n# 최상위 키워드")
	t = newTable(w, "KEYWORD", "COUNT")
	for _, e := range c.TopKeywords {
		t.row(e.Keyword, strconv.Itoa(e.Count))
	}
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n# 가격대")
	t = newTable(w, "TIER", "COUNT", "CATEGORIES")
	for _, e := range c.PriceTiers {
		t.row(e.Tier, strconv.Itoa(e.Count), strings.Join(e.Categories, " / "))
	}
	return t.flush()
}
