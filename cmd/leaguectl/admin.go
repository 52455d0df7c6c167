package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/courtside/league-system/models"
)

type setWeekCmd struct {
	Week int `arg:"" help:"Week number to highlight on the site."`
}

func (a *setWeekCmd) Run(g *globalCmd) error {
	body := map[string]int{"week": a.Week}
	var envelope struct {
		Settings models.LeagueSettings `json:"settings"`
	}
	if err := g.call(context.Background(), http.MethodPut, "/admin/settings/week", body, &envelope); err != nil {
		return err
	}
	fmt.Printf("current week is now %d\n", envelope.Settings.CurrentWeek)
	return nil
}

type lsMovesCmd struct{}

func (a *lsMovesCmd) Run(g *globalCmd) error {
	var envelope struct {
		Moves []models.DivisionMove `json:"moves"`
	}
	if err := g.get(context.Background(), "/admin/moves", &envelope); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Team", "From", "To", "Effective Week"})
	for _, move := range envelope.Moves {
		t.AppendRow(table.Row{move.ID, move.Team, move.FromDivision, move.ToDivision, move.EffectiveWeek})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	return nil
}

type addMoveCmd struct {
	Team string `arg:"" help:"Team to move."`
	From string `arg:"" help:"Division the team leaves."`
	To   string `arg:"" help:"Division the team joins."`
	Week int    `arg:"" help:"First week the move counts in standings."`
}

func (a *addMoveCmd) Run(g *globalCmd) error {
	body := map[string]interface{}{
		"team":           a.Team,
		"from_division":  a.From,
		"to_division":    a.To,
		"effective_week": a.Week,
	}
	var envelope struct {
		Move models.DivisionMove `json:"move"`
	}
	if err := g.call(context.Background(), http.MethodPost, "/admin/moves", body, &envelope); err != nil {
		return err
	}
	fmt.Printf("move %d recorded: %s to %s from week %d\n",
		envelope.Move.ID, envelope.Move.Team, envelope.Move.ToDivision, envelope.Move.EffectiveWeek)
	return nil
}

type rmMoveCmd struct {
	ID int `arg:"" help:"Move id to delete."`
}

func (a *rmMoveCmd) Run(g *globalCmd) error {
	path := "/admin/moves/" + strconv.Itoa(a.ID)
	if err := g.call(context.Background(), http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	fmt.Printf("move %d deleted\n", a.ID)
	return nil
}
