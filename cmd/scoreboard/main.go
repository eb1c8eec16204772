package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/mellon2025/sinjin/internal/client"
)

// scoreboard tails a competition from the terminal: it polls the
// server and prints the countdown and standings on every change.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	interval := flag.Duration("interval", time.Second, "poll interval")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(*baseURL)
	watcher := client.NewWatcher(api, *interval)

	var lastLine string
	for snapshot := range watcher.Watch(ctx) {
		if snapshot.Err != nil {
			log.Printf("poll failed: %v", snapshot.Err)
			continue
		}
		line := formatSnapshot(ctx, api, snapshot)
		if line != lastLine {
			fmt.Println(line)
			lastLine = line
		}
	}
}

func formatSnapshot(ctx context.Context, api *client.Client, snapshot client.TimerSnapshot) string {
	remaining := snapshot.Remaining.Round(time.Second)
	state := "stopped"
	if snapshot.Settings.TimerActive {
		state = "running"
	}
	line := fmt.Sprintf("[%s] %s remaining phase=%s", state, remaining, snapshot.Settings.CurrentPhase)

	if snapshot.Settings.CurrentRoundTeam1ID != nil && snapshot.Settings.CurrentRoundTeam2ID != nil {
		teams, err := api.ListTeams(ctx)
		if err == nil {
			names := make(map[int]string, len(teams))
			for _, team := range teams {
				names[team.ID] = team.Name
			}
			line += fmt.Sprintf(" round=%s vs %s",
				names[*snapshot.Settings.CurrentRoundTeam1ID],
				names[*snapshot.Settings.CurrentRoundTeam2ID])
		}
	}
	return line
}
