package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zatekoja/placeviewer/internal/application/services"
	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

type listOptions struct {
	search          string
	minReview       float64
	maxDistance     int
	openMode        string
	topKeyword      string
	priceTier       string
	conveniences    []string
	convenienceMode string
	rules           []string
	ruleMode        string
	sort            []string
	center          string
	centerQuery     string
	centerPick      int
	at              string
	limit           int
}

func listCommand(a *app) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "Filter and sort the places of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, _, err := a.loadDataset(ctx, args[0])
			if err != nil {
				return err
			}
			if err := opts.apply(ctx, a, cmd, ws); err != nil {
				return err
			}
			places, err := ws.Query()
			if err != nil {
				return err
			}
			if opts.limit > 0 && len(places) > opts.limit {
				places = places[:opts.limit]
			}
			return printPlaces(cmd.OutOrStdout(), a.format, places)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "q", "", "Comma-separated keywords, any of which must match")
	f.Float64Var(&opts.minReview, "min-review", 0, "Minimum review count (default PLACEVIEW_MIN_REVIEW)")
	f.IntVar(&opts.maxDistance, "max-distance", 0, "Maximum distance in meters from the center")
	f.StringVar(&opts.openMode, "open", entities.FilterAll, "Open state at the reference time: all, open, break, closed, unknown")
	f.StringVar(&opts.topKeyword, "top-keyword", entities.FilterAll, "Only places whose top review keyword matches")
	f.StringVar(&opts.priceTier, "price-tier", entities.FilterAll, "Only places in this price tier, e.g. 💰💰")
	f.StringSliceVar(&opts.conveniences, "convenience", nil, "Required conveniences")
	f.StringVar(&opts.convenienceMode, "convenience-mode", string(entities.RuleModeAll), "Combine conveniences with all or any")
	f.StringArrayVar(&opts.rules, "rule", nil, "Advanced rule field:op[:value1[:value2]], repeatable")
	f.StringVar(&opts.ruleMode, "rule-mode", string(entities.RuleModeAll), "Combine rules with all or any")
	f.StringSliceVar(&opts.sort, "sort", nil, "Sort keys, e.g. -reviewCount,name or avgRating:desc")
	f.StringVar(&opts.center, "center", "", "Distance center as longitude,latitude")
	f.StringVar(&opts.centerQuery, "center-query", "", "Geocode this text and use a result as distance center")
	f.IntVar(&opts.centerPick, "center-pick", 0, "Which geocoding result to use with --center-query")
	f.StringVar(&opts.at, "at", "", "Reference time for open state, e.g. \"2024-05-01 19:30\"")
	f.IntVar(&opts.limit, "limit", 0, "Print at most this many places")
	return cmd
}

// apply turns the flags into workspace selections.
func (o *listOptions) apply(ctx context.Context, a *app, cmd *cobra.Command, ws *services.Workspace) error {
	openMode, err := parseOpenMode(o.openMode)
	if err != nil {
		return err
	}
	convenienceMode, err := parseMode("convenience mode", o.convenienceMode)
	if err != nil {
		return err
	}
	ruleMode, err := parseMode("rule mode", o.ruleMode)
	if err != nil {
		return err
	}
	sortKeys, err := parseSort(o.sort)
	if err != nil {
		return err
	}

	if o.at != "" {
		date, clock := parseAt(o.at)
		ws.SetReferenceTime(date, clock)
	}

	center, err := o.resolveCenter(ctx, a)
	if err != nil {
		return err
	}
	if center != nil {
		ws.SetCenter(center)
	}

	ws.UpdateState(func(s *entities.QueryState) {
		s.Search = o.search
		if cmd.Flags().Changed("min-review") {
			s.MinReviewCount = o.minReview
		}
		if cmd.Flags().Changed("max-distance") {
			d := o.maxDistance
			s.MaxDistanceM = &d
		}
		s.OpenMode = openMode
		s.TopKeyword = o.topKeyword
		s.PriceTier = o.priceTier
		s.Conveniences = o.conveniences
		s.ConvenienceMode = convenienceMode
		s.RuleMode = ruleMode
		s.Sort = sortKeys
	})

	return ws.WithRules(func(b *services.RuleBuilder) error {
		for _, raw := range o.rules {
			spec, err := parseRule(raw)
			if err != nil {
				return err
			}
			if _, err := b.Append(spec.Field, spec.Op, spec.Value1, spec.Value2); err != nil {
				return fmt.Errorf("rule %q: %w", raw, err)
			}
		}
		return nil
	})
}

func (o *listOptions) resolveCenter(ctx context.Context, a *app) (*entities.Coordinates, error) {
	if o.center != "" {
		return parseCenter(o.center)
	}
	if o.centerQuery == "" {
		return nil, nil
	}

	res, err := a.centerSearch(ctx).Search(ctx, o.centerQuery)
	if err != nil {
		return nil, err
	}
	if len(res.Candidates) == 0 {
		return nil, errors.New(res.Message)
	}
	if o.centerPick < 0 || o.centerPick >= len(res.Candidates) {
		return nil, fmt.Errorf("--center-pick %d out of range, %d candidates", o.centerPick, len(res.Candidates))
	}
	picked := res.Candidates[o.centerPick]
	log.Info().Str("center", picked.Label).Float64("x", picked.X).Float64("y", picked.Y).Msg("distance center selected")
	return &entities.Coordinates{X: picked.X, Y: picked.Y}, nil
}

func printPlaces(w io.Writer, format string, places []entities.Place) error {
	if ok, err := writeStructured(w, format, places); ok {
		return err
	}

	t := newTable(w, "ID", "이름", "카테고리", "리뷰", "평점", "거리", "영업", "키워드", "가격대")
	for _, p := range places {
		distance := "-"
		if p.DistanceM != nil {
			distance = strconv.Itoa(*p.DistanceM) + "m"
		}
		keyword := p.TopKeyword
		if keyword != "" {
			keyword = fmt.Sprintf("%s (%s%%)", keyword, strconv.FormatFloat(p.TopKeywordPct, 'f', 1, 64))
		}
		t.row(
			p.ID,
			p.Name,
			p.Category,
			strconv.FormatFloat(p.ReviewCount, 'f', -1, 64),
			strconv.FormatFloat(p.AvgRating, 'f', -1, 64),
			distance,
			p.OpenAtRefLabel,
			keyword,
			services.PriceTierSymbol(p.PriceCategory),
		)
	}
	if err := t.flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d places\n", len(places))
	return err
}
