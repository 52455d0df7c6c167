package main

import (
	"context"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/courtside/league-system/standings"
)

type standingsCmd struct{}

func (a *standingsCmd) Run(g *globalCmd) error {
	var envelope struct {
		Standings standings.Table `json:"standings"`
	}
	if err := g.get(context.Background(), "/standings", &envelope); err != nil {
		return err
	}

	for _, division := range envelope.Standings.Divisions {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(string(division.Division))
		t.AppendHeader(table.Row{"#", "Team", "GP", "W", "L", "PF", "PA"})
		for _, row := range division.Rows {
			t.AppendRow(table.Row{
				row.Rank,
				row.Team,
				row.GamesPlayed,
				row.Wins,
				row.Losses,
				row.PointsFor,
				row.PointsAgainst,
			})
		}
		t.AppendFooter(table.Row{"", "through week " + strconv.Itoa(envelope.Standings.AsOfWeek)})
		t.SetStyle(table.StyleLight)
		t.Render()
	}

	return nil
}
