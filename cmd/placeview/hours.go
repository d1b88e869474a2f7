package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/placeviewer/internal/application/services"
)

type placeDetail struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	OpenState string   `json:"openState" yaml:"openState"`
	MapURL    string   `json:"mapUrl" yaml:"mapUrl"`
	Hours     []string `json:"hours" yaml:"hours"`
	Pet       string   `json:"petFeeds,omitempty" yaml:"petFeeds,omitempty"`
	Takeout   string   `json:"takeoutFeeds,omitempty" yaml:"takeoutFeeds,omitempty"`
	Parking   string   `json:"parkingFeeds,omitempty" yaml:"parkingFeeds,omitempty"`
}

func hoursCommand(a *app) *cobra.Command {
	var at string
	var feedLimit int
	cmd := &cobra.Command{
		Use:   "hours <file> <id>",
		Short: "Show the weekly schedule and option-related posts of one place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := a.loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if at != "" {
				ws.SetReferenceTime(parseAt(at))
			}
			place, raw, err := ws.Place(args[1])
			if err != nil {
				return err
			}

			state := services.ComputeOpenState(place, raw["detailHours"], ws.State().ReferenceTime)
			detail := placeDetail{
				ID:        place.ID,
				Name:      place.Name,
				OpenState: state.Label,
				MapURL:    place.MapURL,
				Hours:     services.FormatDetailHours(raw),
			}
			if place.PetFriendly {
				detail.Pet = services.FeedSnippets(raw, services.PetFeedKeywords, feedLimit)
			}
			if place.HasTakeoutOption {
				detail.Takeout = services.FeedSnippets(raw, services.TakeoutFeedKeywords, feedLimit)
			}
			if place.HasParkingOption {
				detail.Parking = services.FeedSnippets(raw, services.ParkingFeedKeywords, feedLimit)
			}
			return printDetail(cmd.OutOrStdout(), a.format, detail)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Reference time for the open state")
	cmd.Flags().IntVar(&feedLimit, "feeds", services.DefaultFeedSnippetLimit, "Posts shown per option")
	return cmd
}

func printDetail(w io.Writer, format string, d placeDetail) error {
	if ok, err := writeStructured(w, format, d); ok {
		return err
	}

	fmt.Fprintf(w, "%s (%s)  %s\n%s\n", d.Name, d.ID, d.OpenState, d.MapURL)
	if len(d.Hours) == 0 {
		fmt.Fprintln(w, "\n영업시간 정보 없음")
	} else {
		fmt.Fprintln(w, "\n"+strings.Join(d.Hours, "\n"))
	}
	for _, section := range []struct{ title, body string }{
		{"반려동물 관련 소식", d.Pet},
		{"포장 관련 소식", d.Takeout},
		{"주차 관련 소식", d.Parking},
	} {
		if section.body != "" {
			fmt.Fprintf(w, "\n# %s\n%s\n", section.title, section.body)
		}
	}
	return nil
}
