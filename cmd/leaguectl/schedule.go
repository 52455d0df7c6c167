package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/courtside/league-system/models"
)

type scheduleCmd struct {
	Week     int    `help:"Limit the listing to one week." default:"0"`
	Division string `help:"Limit the listing to one division."`
}

func (a *scheduleCmd) Run(g *globalCmd) error {
	path := "/matches"
	params := make([]string, 0, 2)
	if a.Week > 0 {
		params = append(params, "week="+strconv.Itoa(a.Week))
	}
	if a.Division != "" {
		params = append(params, "division="+a.Division)
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var envelope struct {
		Matches []models.Match `json:"matches"`
	}
	if err := g.get(context.Background(), path, &envelope); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Week", "Time", "Court", "Division", "Matchup", "Score", "Verified"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
	})
	lastWeek := -1
	for _, m := range envelope.Matches {
		if lastWeek >= 0 && m.Week != lastWeek {
			t.AppendSeparator()
		}
		lastWeek = m.Week

		verified := ""
		if m.Score != nil && m.Score.Verified {
			verified = "yes"
		}
		t.AppendRow(table.Row{
			m.Week,
			m.TimeSlot,
			m.Court,
			m.Division,
			m.TeamA + " vs " + m.TeamB,
			scoreSummary(m.Score),
			verified,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	return nil
}

// scoreSummary renders the entered games as "11-7, 9-11" style pairs.
func scoreSummary(score *models.MatchScore) string {
	if score == nil {
		return ""
	}
	parts := make([]string, 0, models.GamesPerMatch)
	for i := 0; i < models.GamesPerMatch; i++ {
		a := score.TeamA.Game(i)
		b := score.TeamB.Game(i)
		if !models.GameEnteredPair(a, b) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-%d", a.Points(), b.Points()))
	}
	return strings.Join(parts, ", ")
}
