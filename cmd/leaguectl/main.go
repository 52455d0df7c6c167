package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alecthomas/kong"
)

type globalCmd struct {
	Server string `help:"Base URL of the league server." env:"LEAGUE_SERVER" default:"http://localhost:8080"`
	Token  string `help:"Session token for authenticated commands." env:"LEAGUE_ADMIN_TOKEN"`
}

var CLI struct {
	globalCmd

	Standings    standingsCmd    `cmd:"" help:"Show the standings for every division."`
	Schedule     scheduleCmd     `cmd:"" help:"Show the schedule in play order."`
	SetWeek      setWeekCmd      `cmd:"" help:"Set the week the site highlights (admin)."`
	HashPasscode hashPasscodeCmd `cmd:"" help:"Print the bcrypt hash for an admin passcode."`

	Moves struct {
		Ls  lsMovesCmd `cmd:"" help:"List recorded division moves (admin)."`
		Add addMoveCmd `cmd:"" help:"Record a division move for a team (admin)."`
		Rm  rmMoveCmd  `cmd:"" help:"Delete a division move by id (admin)."`
	} `cmd:"" help:"Manage mid-season division moves."`
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// call sends a request to the server and decodes the JSON envelope into out.
// A non-2xx status surfaces the server's error message.
func (g *globalCmd) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	url := strings.TrimSuffix(g.Server, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error != "" {
			return fmt.Errorf("server: %s (%s)", envelope.Error, resp.Status)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *globalCmd) get(ctx context.Context, path string, out interface{}) error {
	return g.call(ctx, http.MethodGet, path, nil, out)
}
