package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Home renders the public scoreboard. The page polls /api/settings and
// /api/teams, and derives the countdown locally from the timestamp
// anchors so every viewer converges on the same remaining time.
func Home(pollSeconds int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Sinjin Quiz</title>
    <link rel="stylesheet" href="`+assetPath("/static/styles.css")+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Sinjin Quiz</span>
        <h1 id="roundTitle">Waiting for the next round</h1>
        <p id="phaseLabel">idle</p>
      </header>

      <section class="panel timer-panel">
        <div class="timer-ring">
          <svg viewBox="0 0 120 120">
            <circle class="ring-track" cx="60" cy="60" r="54"/>
            <circle id="ringFill" class="ring-fill" cx="60" cy="60" r="54"/>
          </svg>
          <span id="timerValue" class="timer-value">--:--</span>
        </div>
      </section>

      <section class="panel">
        <h2>Standings</h2>
        <table class="standings">
          <thead>
            <tr><th>#</th><th>Team</th><th>Members</th><th>Points</th></tr>
          </thead>
          <tbody id="standingsBody"></tbody>
        </table>
      </section>
    </main>

    <script>
      const POLL_MS = `+strconv.Itoa(pollSeconds*1000)+`;
      const RING_CIRCUMFERENCE = 2 * Math.PI * 54;

      let settings = null;
      let teams = [];

      function remainingSeconds() {
        if (!settings) return 0;
        const duration = settings.timerDuration;
        if (duration <= 0) return 0;
        if (settings.timerActive && settings.timerStartTime) {
          const started = Date.parse(settings.timerStartTime);
          return Math.max(0, Math.min(duration, duration - (Date.now() - started) / 1000));
        }
        if (settings.timerStartTime && settings.timerStopTime) {
          const started = Date.parse(settings.timerStartTime);
          const stopped = Date.parse(settings.timerStopTime);
          return Math.max(0, Math.min(duration, duration - (stopped - started) / 1000));
        }
        return duration;
      }

      function formatClock(seconds) {
        const whole = Math.ceil(seconds);
        const m = Math.floor(whole / 60);
        const s = whole % 60;
        return String(m).padStart(2, "0") + ":" + String(s).padStart(2, "0");
      }

      function renderTimer() {
        if (!settings) return;
        const remaining = remainingSeconds();
        const value = document.getElementById("timerValue");
        value.textContent = formatClock(remaining);
        value.classList.toggle("urgent", settings.timerActive && remaining <= 10);
        const fraction = settings.timerDuration > 0 ? remaining / settings.timerDuration : 0;
        const ring = document.getElementById("ringFill");
        ring.style.strokeDasharray = RING_CIRCUMFERENCE;
        ring.style.strokeDashoffset = RING_CIRCUMFERENCE * (1 - fraction);
        document.getElementById("phaseLabel").textContent = settings.currentPhase || "idle";
      }

      function teamName(id) {
        const team = teams.find((t) => t.id === id);
        return team ? team.name : "?";
      }

      function renderRound() {
        const t1 = settings && settings.currentRoundTeam1Id;
        const t2 = settings && settings.currentRoundTeam2Id;
        const title = document.getElementById("roundTitle");
        if (t1 && t2) {
          title.textContent = teamName(t1) + " vs " + teamName(t2);
        } else {
          title.textContent = "Waiting for the next round";
        }
      }

      function renderStandings() {
        const body = document.getElementById("standingsBody");
        body.innerHTML = "";
        teams.forEach((team, index) => {
          const row = document.createElement("tr");
          const inRound = settings &&
            (team.id === settings.currentRoundTeam1Id || team.id === settings.currentRoundTeam2Id);
          if (inRound) row.classList.add("in-round");
          row.innerHTML =
            "<td>" + (index + 1) + "</td>" +
            "<td><span class=\"swatch\" style=\"background:" + team.color + "\"></span>" +
            team.name + "</td>" +
            "<td>" + team.memberCount + "</td>" +
            "<td>" + team.points + "</td>";
          body.appendChild(row);
        });
      }

      async function poll() {
        try {
          const [settingsRes, teamsRes] = await Promise.all([
            fetch("/api/settings"),
            fetch("/api/teams"),
          ]);
          if (!settingsRes.ok || !teamsRes.ok) return;
          settings = await settingsRes.json();
          teams = await teamsRes.json();
          renderRound();
          renderStandings();
          renderTimer();
        } catch (err) {
          // Keep showing the last known state between failed polls.
        }
      }

      poll();
      const pollHandle = setInterval(poll, POLL_MS);
      const tickHandle = setInterval(renderTimer, 1000);
      window.addEventListener("pagehide", () => {
        clearInterval(pollHandle);
        clearInterval(tickHandle);
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
